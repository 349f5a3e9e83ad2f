package dto

import (
	"time"

	"github.com/tressahealth/moneyback/internal/types"
)

// KitValidationDetail carries the timing verdict for one kit.
type KitValidationDetail struct {
	KitNumber         int       `json:"kit_number"`
	IsGenuine         bool      `json:"is_genuine"`
	ExpectedOrderDate time.Time `json:"expected_order_date"`
	ActualOrderDate   time.Time `json:"actual_order_date"`
	DaysEarly         int       `json:"days_early"`
	DaysLate          int       `json:"days_late"`
	IsWithinWindow    bool      `json:"is_within_window"`
}

// KitOrderingValidation partitions a customer's kits by timing compliance.
type KitOrderingValidation struct {
	GenuineKits       []int                 `json:"genuine_kits"`
	InvalidKits       []int                 `json:"invalid_kits"`
	ValidationDetails []KitValidationDetail `json:"validation_details"`
}

// CustomerKitInfo is the reporting view of a customer's active kit plan.
type CustomerKitInfo struct {
	KitID                   string         `json:"kit_id"`
	PlanType                types.PlanType `json:"plan_type"`
	TreatmentDurationMonths int            `json:"treatment_duration_months"`
	RequiredKits            int            `json:"required_kits"`
	PrescriptionNumber      string         `json:"prescription_number"`
	PrescribedAt            time.Time      `json:"prescribed_at"`
	PlanStartedAt           *time.Time     `json:"plan_started_at,omitempty"`
	ExpectedCompletionDate  *time.Time     `json:"expected_completion_date,omitempty"`
	IsActive                bool           `json:"is_active"`
}

// PrescriptionTimeline summarizes treatment progression for reporting.
type PrescriptionTimeline struct {
	PrescriptionID         string     `json:"prescription_id"`
	PrescribedAt           time.Time  `json:"prescribed_at"`
	PlanStartedAt          *time.Time `json:"plan_started_at,omitempty"`
	ExpectedCompletionDate *time.Time `json:"expected_completion_date,omitempty"`
	ActualCompletionDate   *time.Time `json:"actual_completion_date,omitempty"`
	CompletedAt            *time.Time `json:"completed_at,omitempty"`
	RequiredKits           int        `json:"required_kits"`
	DeliveredKits          []int      `json:"delivered_kits"`
	IsActive               bool       `json:"is_active"`
}
