package errors

import (
	"errors"
	"fmt"
	"net/http"

	crdberrors "github.com/cockroachdb/errors"
)

// Sentinel errors used to classify failures across the codebase.
// Every error returned by a repository or service is marked with exactly
// one of these via the builder's Mark method.
var (
	ErrNotFound      = crdberrors.New("resource not found")
	ErrAlreadyExists = crdberrors.New("resource already exists")
	ErrValidation    = crdberrors.New("validation failed")
	ErrDatabase      = crdberrors.New("database operation failed")
	ErrInternal      = crdberrors.New("internal error")
)

// InternalError carries a caller-facing hint and reportable details
// alongside the underlying cause.
type InternalError struct {
	cause   error
	hint    string
	details map[string]interface{}
}

func (e *InternalError) Error() string {
	if e.hint != "" {
		return fmt.Sprintf("%s: %s", e.hint, e.cause.Error())
	}
	return e.cause.Error()
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

// Hint returns the human-readable hint attached to the error, if any.
func (e *InternalError) Hint() string {
	return e.hint
}

// ReportableDetails returns the structured details attached to the error.
func (e *InternalError) ReportableDetails() map[string]interface{} {
	return e.details
}

// ErrorBuilder provides a fluent API for constructing marked errors.
type ErrorBuilder struct {
	err *InternalError
}

// NewError starts building an error from a message.
func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{cause: crdberrors.New(msg)}}
}

// NewErrorf starts building an error from a format string.
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{cause: crdberrors.Newf(format, args...)}}
}

// WithError starts building an error wrapping an existing cause.
func WithError(err error) *ErrorBuilder {
	if err == nil {
		err = crdberrors.New("unknown error")
	}
	return &ErrorBuilder{err: &InternalError{cause: err}}
}

// WithHint attaches a human-readable hint surfaced to API consumers.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err.hint = hint
	return b
}

// WithHintf attaches a formatted hint.
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.err.hint = fmt.Sprintf(format, args...)
	return b
}

// WithReportableDetails attaches structured details safe to report upstream.
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	b.err.details = details
	return b
}

// Mark finalizes the error, classifying it against one of the sentinels so
// that errors.Is(err, sentinel) holds for the returned error.
func (b *ErrorBuilder) Mark(sentinel error) error {
	return crdberrors.Mark(b.err, sentinel)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// Hint extracts the hint from an error chain, empty when absent.
func Hint(err error) string {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.Hint()
	}
	return ""
}

// Details extracts the reportable details from an error chain.
func Details(err error) map[string]interface{} {
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie.ReportableDetails()
	}
	return nil
}

// HTTPStatus maps an error's classification to an HTTP status code.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
