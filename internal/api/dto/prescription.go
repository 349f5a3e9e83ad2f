package dto

import (
	"github.com/tressahealth/moneyback/internal/domain/prescription"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/types"
)

// PrescriptionProductRequest is one prescribed product in a kit.
type PrescriptionProductRequest struct {
	ProductID     string `json:"product_id" binding:"required"`
	KitNumber     int    `json:"kit_number" binding:"required,min=1"`
	Quantity      int    `json:"quantity"`
	IsRequired    bool   `json:"is_required"`
	DaysToExhaust int    `json:"days_to_exhaust"`
}

// CreatePrescriptionRequest creates a prescription with a generated kit ID,
// deactivating any prior active prescription for the customer.
type CreatePrescriptionRequest struct {
	CustomerID              string                       `json:"customer_id" binding:"required"`
	PlanType                types.PlanType               `json:"plan_type" binding:"required"`
	TreatmentDurationMonths int                          `json:"treatment_duration_months" binding:"required"`
	RequiredKits            int                          `json:"required_kits" binding:"required,min=1"`
	PrescribedByDoctorID    string                       `json:"prescribed_by_doctor_id,omitempty"`
	Products                []PrescriptionProductRequest `json:"products,omitempty"`
}

func (r *CreatePrescriptionRequest) Validate() error {
	if r.CustomerID == "" {
		return ierr.NewError("customer_id is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := r.PlanType.Validate(); err != nil {
		return err
	}
	if r.TreatmentDurationMonths != r.PlanType.TreatmentDurationMonths() {
		return ierr.NewError("treatment duration does not match plan type").
			WithHintf("Plan type '%s' implies %d months", r.PlanType, r.PlanType.TreatmentDurationMonths()).
			WithReportableDetails(map[string]interface{}{
				"plan_type":                 r.PlanType,
				"treatment_duration_months": r.TreatmentDurationMonths,
			}).
			Mark(ierr.ErrValidation)
	}
	if r.RequiredKits <= 0 {
		return ierr.NewError("required_kits must be positive").
			WithHint("Required kits must be at least 1").
			Mark(ierr.ErrValidation)
	}
	for _, p := range r.Products {
		if p.ProductID == "" {
			return ierr.NewError("product_id is required for prescribed products").
				WithHint("Every prescribed product needs a product ID").
				Mark(ierr.ErrValidation)
		}
		if p.KitNumber < 1 {
			return ierr.NewError("kit_number must be 1-based").
				WithHint("Kit numbers start at 1").
				Mark(ierr.ErrValidation)
		}
	}
	return nil
}

// ChangeKitRequest swaps a customer's kit plan before any deliveries.
type ChangeKitRequest struct {
	NewPlanType                types.PlanType `json:"new_plan_type" binding:"required"`
	NewTreatmentDurationMonths int            `json:"new_treatment_duration_months" binding:"required"`
	NewRequiredKits            int            `json:"new_required_kits" binding:"required,min=1"`
	Reason                     string         `json:"reason" binding:"required"`
	ChangedBy                  string         `json:"changed_by,omitempty"`
}

func (r *ChangeKitRequest) Validate() error {
	if err := r.NewPlanType.Validate(); err != nil {
		return err
	}
	if r.NewRequiredKits <= 0 {
		return ierr.NewError("new_required_kits must be positive").
			WithHint("Required kits must be at least 1").
			Mark(ierr.ErrValidation)
	}
	if r.Reason == "" {
		return ierr.NewError("reason is required").
			WithHint("A reason for changing the kit is required").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PrescriptionResponse wraps a prescription for the API surface.
type PrescriptionResponse struct {
	*prescription.Prescription
}
