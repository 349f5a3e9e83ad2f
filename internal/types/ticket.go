package types

import (
	ierr "github.com/tressahealth/moneyback/internal/errors"
)

// TicketCategory partitions money-back tickets by eligibility verdict.
type TicketCategory string

const (
	// TicketCategoryA is assigned when the eligibility engine approves.
	TicketCategoryA TicketCategory = "CATEGORY_A"
	// TicketCategoryB is assigned when any eligibility check fails.
	TicketCategoryB TicketCategory = "CATEGORY_B"
)

// TicketSubcategory selects the money-back program by treatment period.
type TicketSubcategory string

const (
	TicketSubcategoryFiveMonthsMoneyback   TicketSubcategory = "5_months_moneyback"
	TicketSubcategoryEightMonthsMoneyback  TicketSubcategory = "8_months_moneyback"
	TicketSubcategoryTwelveMonthsMoneyback TicketSubcategory = "12_months_moneyback"
)

// SubcategoryForTreatmentPeriod maps a treatment period in months to the
// money-back subcategory.
func SubcategoryForTreatmentPeriod(months int) TicketSubcategory {
	switch months {
	case 5:
		return TicketSubcategoryFiveMonthsMoneyback
	case 8:
		return TicketSubcategoryEightMonthsMoneyback
	default:
		return TicketSubcategoryTwelveMonthsMoneyback
	}
}

// TicketStatus tracks a ticket through the approval pipeline.
type TicketStatus string

const (
	TicketStatusAssignedToDoctor     TicketStatus = "assigned_to_doctor"
	TicketStatusAssignedToComplaints TicketStatus = "assigned_to_complaints"
	TicketStatusAssignedToHOD        TicketStatus = "assigned_to_hod"
	TicketStatusAssignedToFinance    TicketStatus = "assigned_to_finance"
	TicketStatusApproved             TicketStatus = "approved"
	TicketStatusRejected             TicketStatus = "rejected"
	TicketStatusClosed               TicketStatus = "closed"
)

// TicketSource records which channel raised the ticket.
type TicketSource string

const (
	TicketSourceAgent    TicketSource = "agent"
	TicketSourceApp      TicketSource = "app"
	TicketSourceEmail    TicketSource = "email"
	TicketSourceInbound  TicketSource = "inbound_call"
	TicketSourceOutbound TicketSource = "outbound_call"
)

func (s TicketSource) Validate() error {
	switch s {
	case TicketSourceAgent, TicketSourceApp, TicketSourceEmail, TicketSourceInbound, TicketSourceOutbound:
		return nil
	default:
		return ierr.NewError("invalid ticket source").
			WithHintf("Ticket source '%s' is not supported", s).
			Mark(ierr.ErrValidation)
	}
}

// Assignment routing for new tickets.
const (
	TicketAssigneeDoctor     = "doctor@tressa.health"
	TicketAssigneeComplaints = "complaints@tressa.health"
	TicketRoleDoctor         = "doctor"
	TicketRoleComplaints     = "complaints_agent"

	// Estimated turnaround in hours by category.
	TicketTATCategoryA = 24
	TicketTATCategoryB = 48
)
