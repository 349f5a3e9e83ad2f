package transaction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tressahealth/moneyback/internal/types"
)

// Transaction represents a payment or refund movement for a customer.
// Refund transactions with IsProcessed set are the ones netted against the
// eligible refund amount.
type Transaction struct {
	ID                string            `json:"id"`
	TransactionNumber string            `json:"transaction_number"`
	CustomerID        string            `json:"customer_id"`
	OrderID           string            `json:"order_id,omitempty"`
	Amount            decimal.Decimal   `json:"amount"`
	PaymentMode       types.PaymentMode `json:"payment_mode"`
	IsRefund          bool              `json:"is_refund"`
	IsProcessed       bool              `json:"is_processed"`
	ProcessedAt       *time.Time        `json:"processed_at,omitempty"`
	Metadata          string            `json:"metadata,omitempty"`
	types.BaseModel
}
