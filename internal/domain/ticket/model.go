package ticket

import (
	"github.com/shopspring/decimal"

	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/types"
)

// Ticket represents a money-back request moving through the approval
// pipeline. Category, routing and the eligibility snapshot are fixed at
// creation time by the eligibility engine.
type Ticket struct {
	ID                   string                  `json:"id"`
	TicketNumber         string                  `json:"ticket_number"`
	CustomerID           string                  `json:"customer_id"`
	PrescriptionID       string                  `json:"prescription_id,omitempty"`
	Category             types.TicketCategory    `json:"category"`
	Subcategory          types.TicketSubcategory `json:"subcategory"`
	Source               types.TicketSource      `json:"source"`
	Status               types.TicketStatus      `json:"status"`
	Reason               string                  `json:"reason"`
	IsEligible           bool                    `json:"is_eligible"`
	IneligibilityReason  string                  `json:"ineligibility_reason,omitempty"`
	EligibleRefundAmount decimal.Decimal         `json:"eligible_refund_amount"`
	AssignedTo           string                  `json:"assigned_to"`
	AssignedToRole       string                  `json:"assigned_to_role"`
	EstimatedTATHours    int                     `json:"estimated_tat_hours"`
	IsApproved           bool                    `json:"is_approved"`
	EngagementID         string                  `json:"engagement_id,omitempty"`
	types.BaseModel
}

func (t *Ticket) Validate() error {
	if t.CustomerID == "" {
		return ierr.NewError("customer_id is required").Mark(ierr.ErrValidation)
	}
	if err := t.Source.Validate(); err != nil {
		return err
	}
	return nil
}
