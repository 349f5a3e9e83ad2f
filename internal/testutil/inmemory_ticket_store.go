package testutil

import (
	"context"

	"github.com/samber/lo"

	"github.com/tressahealth/moneyback/internal/domain/ticket"
	ierr "github.com/tressahealth/moneyback/internal/errors"
)

// InMemoryTicketStore implements ticket.Repository
type InMemoryTicketStore struct {
	*InMemoryStore[*ticket.Ticket]
}

// NewInMemoryTicketStore creates a new in-memory ticket store
func NewInMemoryTicketStore() *InMemoryTicketStore {
	return &InMemoryTicketStore{
		InMemoryStore: NewInMemoryStore[*ticket.Ticket](),
	}
}

func copyTicket(t *ticket.Ticket) *ticket.Ticket {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}

func ticketFilterFn(_ context.Context, t *ticket.Ticket, filter interface{}) bool {
	f, ok := filter.(*ticket.Filter)
	if !ok || f == nil {
		return true
	}
	if f.CustomerID != "" && t.CustomerID != f.CustomerID {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.AssignedTo != "" && t.AssignedTo != f.AssignedTo {
		return false
	}
	if f.IsApproved != nil && t.IsApproved != *f.IsApproved {
		return false
	}
	return true
}

func ticketSortFn(a, b *ticket.Ticket) bool {
	return a.CreatedAt.After(b.CreatedAt)
}

func (s *InMemoryTicketStore) Create(ctx context.Context, t *ticket.Ticket) error {
	if t == nil {
		return ierr.NewError("ticket cannot be nil").
			WithHint("Ticket cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, t.ID, copyTicket(t))
}

func (s *InMemoryTicketStore) Get(ctx context.Context, id string) (*ticket.Ticket, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("ticket not found").
			WithHint("Ticket not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyTicket(t), nil
}

func (s *InMemoryTicketStore) Update(ctx context.Context, t *ticket.Ticket) error {
	if t == nil {
		return ierr.NewError("ticket cannot be nil").
			WithHint("Ticket cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, t.ID, copyTicket(t))
}

func (s *InMemoryTicketStore) List(ctx context.Context, filter *ticket.Filter) ([]*ticket.Ticket, error) {
	tickets, err := s.InMemoryStore.List(ctx, filter, ticketFilterFn, ticketSortFn)
	if err != nil {
		return nil, err
	}
	result := make([]*ticket.Ticket, len(tickets))
	for i, t := range tickets {
		result[i] = copyTicket(t)
	}
	return result, nil
}

func (s *InMemoryTicketStore) CountApproved(ctx context.Context, customerID string) (int, error) {
	tickets, err := s.List(ctx, &ticket.Filter{
		CustomerID: customerID,
		IsApproved: lo.ToPtr(true),
	})
	if err != nil {
		return 0, err
	}
	return len(tickets), nil
}
