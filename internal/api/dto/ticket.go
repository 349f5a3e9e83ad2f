package dto

import (
	"github.com/tressahealth/moneyback/internal/domain/ticket"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/types"
)

// CreateTicketRequest raises a money-back request for a customer. The
// eligibility engine runs as part of creation and fixes the ticket's
// category and routing.
type CreateTicketRequest struct {
	CustomerID   string             `json:"customer_id" binding:"required"`
	Source       types.TicketSource `json:"source" binding:"required"`
	Reason       string             `json:"reason" binding:"required"`
	RaisedBy     string             `json:"raised_by,omitempty"`
	EngagementID string             `json:"engagement_id,omitempty"`
}

func (r *CreateTicketRequest) Validate() error {
	if r.CustomerID == "" {
		return ierr.NewError("customer_id is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := r.Source.Validate(); err != nil {
		return err
	}
	if r.Reason == "" {
		return ierr.NewError("reason is required").
			WithHint("A reason for raising the ticket is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TicketResponse pairs the created or fetched ticket with the eligibility
// snapshot that produced it (only populated on creation).
type TicketResponse struct {
	Ticket            *ticket.Ticket     `json:"ticket"`
	EligibilityResult *EligibilityResult `json:"eligibility_result,omitempty"`
}

// ListTicketsRequest filters the ticket list endpoint.
type ListTicketsRequest struct {
	CustomerID string `form:"customer_id"`
	Category   string `form:"category"`
	Status     string `form:"status"`
	AssignedTo string `form:"assigned_to"`
	Limit      *int   `form:"limit"`
	Offset     *int   `form:"offset"`
}

// ListTicketsResponse is the paginated ticket list.
type ListTicketsResponse struct {
	Items []*ticket.Ticket `json:"items"`
	Total int              `json:"total"`
}
