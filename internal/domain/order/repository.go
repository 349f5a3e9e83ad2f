package order

import (
	"context"

	"github.com/tressahealth/moneyback/internal/types"
)

// Repository defines the interface for order persistence operations.
type Repository interface {
	// Create creates a new order row
	Create(ctx context.Context, o *Order) error

	// Get retrieves an order by ID
	Get(ctx context.Context, id string) (*Order, error)

	// Update persists changes to an existing order
	Update(ctx context.Context, o *Order) error

	// List retrieves orders matching the filter, ordered by OrderedAt ascending
	List(ctx context.Context, filter *Filter) ([]*Order, error)

	// CountByPaymentMode counts non-void orders for a customer paid with the
	// given mode
	CountByPaymentMode(ctx context.Context, customerID string, mode types.PaymentMode) (int, error)
}

// Filter defines query parameters for listing orders.
type Filter struct {
	QueryFilter *types.QueryFilter

	CustomerID     string
	PrescriptionID string
	IsDelivered    *bool
	IsVoid         *bool
	IsFreeKit      *bool
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
