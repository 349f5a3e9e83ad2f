package testutil

import (
	"context"

	"github.com/tressahealth/moneyback/internal/domain/calllog"
	ierr "github.com/tressahealth/moneyback/internal/errors"
)

// InMemoryCallLogStore implements calllog.Repository
type InMemoryCallLogStore struct {
	*InMemoryStore[*calllog.HairCoachCall]
}

// NewInMemoryCallLogStore creates a new in-memory call log store
func NewInMemoryCallLogStore() *InMemoryCallLogStore {
	return &InMemoryCallLogStore{
		InMemoryStore: NewInMemoryStore[*calllog.HairCoachCall](),
	}
}

func copyCall(c *calllog.HairCoachCall) *calllog.HairCoachCall {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

func (s *InMemoryCallLogStore) Create(ctx context.Context, call *calllog.HairCoachCall) error {
	if call == nil {
		return ierr.NewError("call cannot be nil").
			WithHint("Call cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, call.ID, copyCall(call))
}

func (s *InMemoryCallLogStore) CountConnected(ctx context.Context, customerID string) (int, error) {
	calls, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, c *calllog.HairCoachCall, _ interface{}) bool {
		return c.CustomerID == customerID && c.IsConnected
	}, nil)
	if err != nil {
		return 0, err
	}
	return len(calls), nil
}

func (s *InMemoryCallLogStore) ListByCustomer(ctx context.Context, customerID string) ([]*calllog.HairCoachCall, error) {
	calls, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, c *calllog.HairCoachCall, _ interface{}) bool {
		return c.CustomerID == customerID
	}, func(a, b *calllog.HairCoachCall) bool {
		return a.CalledAt.Before(b.CalledAt)
	})
	if err != nil {
		return nil, err
	}
	result := make([]*calllog.HairCoachCall, len(calls))
	for i, c := range calls {
		result[i] = copyCall(c)
	}
	return result, nil
}
