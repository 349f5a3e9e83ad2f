package errors

// ErrorDetail is the error payload inside an API error response.
type ErrorDetail struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the JSON body returned for failed API requests.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse builds the API error body for an error chain, preferring
// the attached hint over the raw error message.
func NewErrorResponse(err error) *ErrorResponse {
	message := Hint(err)
	if message == "" && err != nil {
		message = err.Error()
	}
	return &ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Message: message,
			Details: Details(err),
		},
	}
}
