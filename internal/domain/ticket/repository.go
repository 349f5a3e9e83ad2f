package ticket

import (
	"context"

	"github.com/tressahealth/moneyback/internal/types"
)

// Repository defines the interface for ticket persistence.
type Repository interface {
	// Create creates a new ticket
	Create(ctx context.Context, t *Ticket) error

	// Get retrieves a ticket by ID. Returns a not-found error for unknown IDs.
	Get(ctx context.Context, id string) (*Ticket, error)

	// Update persists changes to an existing ticket
	Update(ctx context.Context, t *Ticket) error

	// List retrieves tickets matching the filter, newest first
	List(ctx context.Context, filter *Filter) ([]*Ticket, error)

	// CountApproved counts the customer's approved money-back tickets,
	// used to detect repeat refunds
	CountApproved(ctx context.Context, customerID string) (int, error)
}

// Filter defines query parameters for listing tickets.
type Filter struct {
	QueryFilter *types.QueryFilter

	CustomerID string
	Category   types.TicketCategory
	Status     types.TicketStatus
	AssignedTo string
	IsApproved *bool
}

func (f *Filter) GetLimit() int {
	if f == nil {
		return 0
	}
	return f.QueryFilter.GetLimit()
}

func (f *Filter) GetOffset() int {
	if f == nil {
		return 0
	}
	return f.QueryFilter.GetOffset()
}
