package types

import (
	ierr "github.com/tressahealth/moneyback/internal/errors"
)

// PlanType identifies the treatment plan a prescription follows.
type PlanType string

const (
	PlanTypeFiveMonth   PlanType = "5_month_plan"
	PlanTypeEightMonth  PlanType = "8_month_plan"
	PlanTypeTwelveMonth PlanType = "12_month_plan"
)

func (p PlanType) Validate() error {
	switch p {
	case PlanTypeFiveMonth, PlanTypeEightMonth, PlanTypeTwelveMonth:
		return nil
	default:
		return ierr.NewError("invalid plan type").
			WithHintf("Plan type '%s' is not supported", p).
			Mark(ierr.ErrValidation)
	}
}

// TreatmentDurationMonths returns the plan's treatment duration.
func (p PlanType) TreatmentDurationMonths() int {
	switch p {
	case PlanTypeFiveMonth:
		return 5
	case PlanTypeEightMonth:
		return 8
	case PlanTypeTwelveMonth:
		return 12
	default:
		return 0
	}
}

// MaxDeliveryMonths returns the maximum allowed delivery span for a
// treatment duration: 6 months for a 5-month plan, 9 for 8, 13 for 12.
func MaxDeliveryMonths(treatmentDurationMonths int) int {
	switch treatmentDurationMonths {
	case 5:
		return 6
	case 8:
		return 9
	default:
		return 13
	}
}

// PlanTypeForDuration maps a treatment duration back to its plan type.
func PlanTypeForDuration(months int) PlanType {
	switch months {
	case 5:
		return PlanTypeFiveMonth
	case 8:
		return PlanTypeEightMonth
	default:
		return PlanTypeTwelveMonth
	}
}
