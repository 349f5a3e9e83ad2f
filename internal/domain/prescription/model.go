package prescription

import (
	"time"

	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/types"
)

// Prescription represents a customer's prescribed treatment plan. A customer
// has at most one active prescription; PlanStartedAt stays nil until the
// first paid order is delivered and anchors all kit-number derivation.
type Prescription struct {
	ID                      string         `json:"id"`
	PrescriptionNumber      string         `json:"prescription_number"`
	KitID                   string         `json:"kit_id"`
	CustomerID              string         `json:"customer_id"`
	PrescribedByDoctorID    string         `json:"prescribed_by_doctor_id,omitempty"`
	PlanType                types.PlanType `json:"plan_type"`
	TreatmentDurationMonths int            `json:"treatment_duration_months"`
	RequiredKits            int            `json:"required_kits"`
	IsActive                bool           `json:"is_active"`
	PrescribedAt            time.Time      `json:"prescribed_at"`
	PlanStartedAt           *time.Time     `json:"plan_started_at,omitempty"`
	ExpectedCompletionDate  *time.Time     `json:"expected_completion_date,omitempty"`
	ActualCompletionDate    *time.Time     `json:"actual_completion_date,omitempty"`
	CompletedAt             *time.Time     `json:"completed_at,omitempty"`
	Notes                   string         `json:"notes,omitempty"`
	Products                []*Product     `json:"products,omitempty"`
	types.BaseModel
}

// MaxDeliveryMonths returns the maximum allowed delivery span for this
// prescription's plan.
func (p *Prescription) MaxDeliveryMonths() int {
	return types.MaxDeliveryMonths(p.TreatmentDurationMonths)
}

// DaysPerKit returns the kit cadence: the mean DaysToExhaust across the
// prescribed products, or defaultDays when there are none.
func (p *Prescription) DaysPerKit(defaultDays int) int {
	if len(p.Products) == 0 {
		return defaultDays
	}
	total := 0
	for _, pp := range p.Products {
		days := pp.DaysToExhaust
		if days <= 0 {
			days = defaultDays
		}
		total += days
	}
	return total / len(p.Products)
}

func (p *Prescription) Validate() error {
	if p.CustomerID == "" {
		return ierr.NewError("customer_id is required").Mark(ierr.ErrValidation)
	}
	if err := p.PlanType.Validate(); err != nil {
		return err
	}
	if p.RequiredKits <= 0 {
		return ierr.NewError("required_kits must be positive").Mark(ierr.ErrValidation)
	}
	return nil
}

// Product pairs a prescription and kit number with a prescribed product.
// Required products define the essential-products checklist per kit.
type Product struct {
	ID             string `json:"id"`
	PrescriptionID string `json:"prescription_id"`
	ProductID      string `json:"product_id"`
	KitNumber      int    `json:"kit_number"`
	Quantity       int    `json:"quantity"`
	IsRequired     bool   `json:"is_required"`
	Frequency      string `json:"frequency,omitempty"`
	Instructions   string `json:"instructions,omitempty"`
	DaysToExhaust  int    `json:"days_to_exhaust"`
	types.BaseModel
}
