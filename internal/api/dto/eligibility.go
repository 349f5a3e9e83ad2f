package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EligibilityChecks are the six independent booleans combined into the
// overall money-back verdict. AlreadyReceivedRefund is true when the
// customer has NOT yet received a refund (the check passes).
type EligibilityChecks struct {
	AlreadyReceivedRefund         bool `json:"already_received_refund"`
	PurchasedCompleteKits         bool `json:"purchased_complete_kits"`
	PurchasedAllEssentialProducts bool `json:"purchased_all_essential_products"`
	KitsDeliveredInTimeframe      bool `json:"kits_delivered_in_timeframe"`
	CompletedThreeCalls           bool `json:"completed_three_calls"`
	RaisedWithinWindow            bool `json:"raised_within_window"`
}

// All reports the overall verdict: the logical AND of all six checks.
func (c EligibilityChecks) All() bool {
	return c.AlreadyReceivedRefund &&
		c.PurchasedCompleteKits &&
		c.PurchasedAllEssentialProducts &&
		c.KitsDeliveredInTimeframe &&
		c.CompletedThreeCalls &&
		c.RaisedWithinWindow
}

// MissingKitProducts records the essential products absent from one kit.
type MissingKitProducts struct {
	KitNumber int      `json:"kit_number"`
	Products  []string `json:"products"`
}

// EligibilityResult is the structured verdict returned by the eligibility
// engine and consumed by ticket creation and reporting.
type EligibilityResult struct {
	IsEligible                 bool                 `json:"is_eligible"`
	Reasons                    []string             `json:"reasons"`
	Checks                     EligibilityChecks    `json:"checks"`
	EligibleRefundAmount       decimal.Decimal      `json:"eligible_refund_amount"`
	RecommendedTreatmentPeriod int                  `json:"recommended_treatment_period"`
	PrescriptionID             string               `json:"prescription_id,omitempty"`
	MissingEssentialProducts   []MissingKitProducts `json:"missing_essential_products"`
}

// UndeliveredOrder annotates an undelivered order with its best-effort
// derived kit number (0 when the plan start is unknown).
type UndeliveredOrder struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	KitNumber int             `json:"kit_number"`
	Amount    decimal.Decimal `json:"amount"`
	OrderedAt time.Time       `json:"ordered_at"`
}

// DeliveredOrderLine is one delivered order contributing to the refund total.
type DeliveredOrderLine struct {
	ID          string          `json:"id"`
	KitNumber   int             `json:"kit_number"`
	Amount      decimal.Decimal `json:"amount"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`
}

// PreviousRefundLine is one processed refund netted against the total.
type PreviousRefundLine struct {
	TransactionNumber string          `json:"transaction_number"`
	Amount            decimal.Decimal `json:"amount"`
	ProcessedAt       *time.Time      `json:"processed_at,omitempty"`
	Metadata          string          `json:"metadata,omitempty"`
}

// RefundCalculationBreakdown is the reporting view over the refund
// aggregates: totals, net amount and the three underlying lists.
type RefundCalculationBreakdown struct {
	DeliveredOrdersTotal decimal.Decimal      `json:"delivered_orders_total"`
	PreviousRefundsTotal decimal.Decimal      `json:"previous_refunds_total"`
	NetRefundAmount      decimal.Decimal      `json:"net_refund_amount"`
	DeliveredOrders      []DeliveredOrderLine `json:"delivered_orders"`
	PreviousRefunds      []PreviousRefundLine `json:"previous_refunds"`
	UndeliveredOrders    []UndeliveredOrder   `json:"undelivered_orders"`
}

// KitCompletenessResult reports the prescribed/ordered/missing product names
// for one kit of a prescription.
type KitCompletenessResult struct {
	KitNumber          int      `json:"kit_number"`
	IsComplete         bool     `json:"is_complete"`
	PrescribedProducts []string `json:"prescribed_products"`
	OrderedProducts    []string `json:"ordered_products"`
	MissingProducts    []string `json:"missing_products"`
}
