package order

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/types"
)

// Order represents a single order-history row. An order belongs to exactly
// one customer and optionally to one prescription; DeliveredAt stays nil
// until the order is fulfilled.
type Order struct {
	ID             string            `json:"id"`
	OrderNumber    string            `json:"order_number"`
	CustomerID     string            `json:"customer_id"`
	PrescriptionID string            `json:"prescription_id,omitempty"`
	ProductID      string            `json:"product_id"`
	Quantity       int               `json:"quantity"`
	Price          decimal.Decimal   `json:"price"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	PaymentMode    types.PaymentMode `json:"payment_mode"`
	OrderedAt      time.Time         `json:"ordered_at"`
	DeliveredAt    *time.Time        `json:"delivered_at,omitempty"`
	IsDelivered    bool              `json:"is_delivered"`
	IsVoid         bool              `json:"is_void"`
	IsFreeKit      bool              `json:"is_free_kit"`
	Notes          string            `json:"notes,omitempty"`
	types.BaseModel
}

// IsPaidDelivery reports whether the order counts toward the paid treatment
// timeline: delivered, not voided and not a promotional free kit.
func (o *Order) IsPaidDelivery() bool {
	return o.IsDelivered && !o.IsVoid && !o.IsFreeKit && o.DeliveredAt != nil
}

func (o *Order) Validate() error {
	if o.CustomerID == "" {
		return ierr.NewError("customer_id is required").Mark(ierr.ErrValidation)
	}
	if o.ProductID == "" {
		return ierr.NewError("product_id is required").Mark(ierr.ErrValidation)
	}
	if o.TotalAmount.IsNegative() {
		return ierr.NewError("total_amount cannot be negative").Mark(ierr.ErrValidation)
	}
	return nil
}
