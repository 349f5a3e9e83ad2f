package testutil

import (
	"context"

	"github.com/tressahealth/moneyback/internal/domain/order"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/types"
)

// InMemoryOrderStore implements order.Repository
type InMemoryOrderStore struct {
	*InMemoryStore[*order.Order]
}

// NewInMemoryOrderStore creates a new in-memory order store
func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{
		InMemoryStore: NewInMemoryStore[*order.Order](),
	}
}

func copyOrder(o *order.Order) *order.Order {
	if o == nil {
		return nil
	}
	copied := *o
	if o.DeliveredAt != nil {
		d := *o.DeliveredAt
		copied.DeliveredAt = &d
	}
	return &copied
}

func orderFilterFn(_ context.Context, o *order.Order, filter interface{}) bool {
	f, ok := filter.(*order.Filter)
	if !ok || f == nil {
		return true
	}
	if f.CustomerID != "" && o.CustomerID != f.CustomerID {
		return false
	}
	if f.PrescriptionID != "" && o.PrescriptionID != f.PrescriptionID {
		return false
	}
	if f.IsDelivered != nil && o.IsDelivered != *f.IsDelivered {
		return false
	}
	if f.IsVoid != nil && o.IsVoid != *f.IsVoid {
		return false
	}
	if f.IsFreeKit != nil && o.IsFreeKit != *f.IsFreeKit {
		return false
	}
	return true
}

func orderSortFn(a, b *order.Order) bool {
	return a.OrderedAt.Before(b.OrderedAt)
}

func (s *InMemoryOrderStore) Create(ctx context.Context, o *order.Order) error {
	if o == nil {
		return ierr.NewError("order cannot be nil").
			WithHint("Order cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, o.ID, copyOrder(o))
}

func (s *InMemoryOrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	o, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.NewError("order not found").
			WithHint("Order not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyOrder(o), nil
}

func (s *InMemoryOrderStore) Update(ctx context.Context, o *order.Order) error {
	if o == nil {
		return ierr.NewError("order cannot be nil").
			WithHint("Order cannot be nil").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Update(ctx, o.ID, copyOrder(o))
}

func (s *InMemoryOrderStore) List(ctx context.Context, filter *order.Filter) ([]*order.Order, error) {
	orders, err := s.InMemoryStore.List(ctx, filter, orderFilterFn, orderSortFn)
	if err != nil {
		return nil, err
	}
	result := make([]*order.Order, len(orders))
	for i, o := range orders {
		result[i] = copyOrder(o)
	}
	return result, nil
}

func (s *InMemoryOrderStore) CountByPaymentMode(ctx context.Context, customerID string, mode types.PaymentMode) (int, error) {
	orders, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, o *order.Order, _ interface{}) bool {
		return o.CustomerID == customerID && !o.IsVoid && o.PaymentMode == mode
	}, nil)
	if err != nil {
		return 0, err
	}
	return len(orders), nil
}
