package service

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/tressahealth/moneyback/internal/api/dto"
	"github.com/tressahealth/moneyback/internal/domain/kit"
	"github.com/tressahealth/moneyback/internal/domain/order"
	ierr "github.com/tressahealth/moneyback/internal/errors"
)

// KitValidationService classifies each kit a customer has received as
// genuine (ordered on a proper cadence) or invalid (ordered too early or
// too late, suggesting gaming of the money-back guarantee).
type KitValidationService interface {
	// ValidateKitOrdering partitions the prescription's derived kit numbers
	// into genuine and invalid sets. A missing prescription or unset plan
	// start yields an empty result, not an error.
	ValidateKitOrdering(ctx context.Context, prescriptionID, customerID string) (*dto.KitOrderingValidation, error)

	// ValidateKitOrderingForCustomer resolves the customer's active
	// prescription and validates against it. No active prescription yields
	// an empty result.
	ValidateKitOrderingForCustomer(ctx context.Context, customerID string) (*dto.KitOrderingValidation, error)

	// GenuineKitCount returns the number of genuine kits only.
	GenuineKitCount(ctx context.Context, prescriptionID, customerID string) (int, error)
}

type kitValidationService struct {
	ServiceParams
}

// NewKitValidationService creates a new kit validation service
func NewKitValidationService(params ServiceParams) KitValidationService {
	return &kitValidationService{ServiceParams: params}
}

func emptyKitOrderingValidation() *dto.KitOrderingValidation {
	return &dto.KitOrderingValidation{
		GenuineKits:       []int{},
		InvalidKits:       []int{},
		ValidationDetails: []dto.KitValidationDetail{},
	}
}

func (s *kitValidationService) ValidateKitOrdering(ctx context.Context, prescriptionID, customerID string) (*dto.KitOrderingValidation, error) {
	presc, err := s.PrescriptionRepo.Get(ctx, prescriptionID)
	if err != nil {
		if ierr.IsNotFound(err) {
			// Nothing to validate yet; the eligibility engine treats this
			// as zero genuine kits.
			return emptyKitOrderingValidation(), nil
		}
		return nil, err
	}

	if presc.PlanStartedAt == nil {
		return emptyKitOrderingValidation(), nil
	}
	planStart := *presc.PlanStartedAt

	orders, err := s.OrderRepo.List(ctx, &order.Filter{
		CustomerID:     customerID,
		PrescriptionID: prescriptionID,
		IsDelivered:    lo.ToPtr(true),
		IsVoid:         lo.ToPtr(false),
		IsFreeKit:      lo.ToPtr(false),
	})
	if err != nil {
		return nil, err
	}

	daysPerKit := presc.DaysPerKit(s.Config.Eligibility.DefaultDaysPerKit)
	groups := kit.GroupOrdersByKit(orders, planStart, daysPerKit)

	kitNumbers := make([]int, 0, len(groups))
	for kitNumber := range groups {
		if kitNumber > 0 {
			kitNumbers = append(kitNumbers, kitNumber)
		}
	}
	sort.Ints(kitNumbers)

	result := emptyKitOrderingValidation()

	for _, kitNumber := range kitNumbers {
		actualDate := earliestDeliveryDate(groups[kitNumber])

		// Kit 1 anchors the timeline and is always genuine; there is no
		// prior kit it could be late relative to.
		if kitNumber == 1 {
			result.GenuineKits = append(result.GenuineKits, 1)
			result.ValidationDetails = append(result.ValidationDetails, dto.KitValidationDetail{
				KitNumber:         1,
				IsGenuine:         true,
				ExpectedOrderDate: actualDate,
				ActualOrderDate:   actualDate,
				IsWithinWindow:    true,
			})
			continue
		}

		onTime := kit.IsOrderOnTime(
			actualDate,
			planStart,
			kitNumber,
			daysPerKit,
			s.Config.Eligibility.AllowedDaysEarly,
			s.Config.Eligibility.AllowedDaysLate,
		)

		detail := dto.KitValidationDetail{
			KitNumber:         kitNumber,
			IsGenuine:         onTime.IsOnTime,
			ExpectedOrderDate: onTime.ExpectedDate,
			ActualOrderDate:   actualDate,
			IsWithinWindow:    onTime.IsOnTime,
		}
		if onTime.DaysDifference < 0 {
			detail.DaysEarly = -onTime.DaysDifference
		} else {
			detail.DaysLate = onTime.DaysDifference
		}

		if onTime.IsOnTime {
			result.GenuineKits = append(result.GenuineKits, kitNumber)
		} else {
			result.InvalidKits = append(result.InvalidKits, kitNumber)
		}
		result.ValidationDetails = append(result.ValidationDetails, detail)
	}

	s.Logger.Debugw("validated kit ordering",
		"prescription_id", prescriptionID,
		"customer_id", customerID,
		"days_per_kit", daysPerKit,
		"genuine_kits", result.GenuineKits,
		"invalid_kits", result.InvalidKits)

	return result, nil
}

func (s *kitValidationService) ValidateKitOrderingForCustomer(ctx context.Context, customerID string) (*dto.KitOrderingValidation, error) {
	presc, err := s.PrescriptionRepo.GetActiveByCustomer(ctx, customerID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return emptyKitOrderingValidation(), nil
		}
		return nil, err
	}
	return s.ValidateKitOrdering(ctx, presc.ID, customerID)
}

func (s *kitValidationService) GenuineKitCount(ctx context.Context, prescriptionID, customerID string) (int, error) {
	validation, err := s.ValidateKitOrdering(ctx, prescriptionID, customerID)
	if err != nil {
		return 0, err
	}
	return len(validation.GenuineKits), nil
}

// earliestDeliveryDate returns the earliest delivery date among the orders.
// Callers only pass delivered orders.
func earliestDeliveryDate(orders []*order.Order) time.Time {
	var earliest time.Time
	for _, o := range orders {
		if o.DeliveredAt == nil {
			continue
		}
		if earliest.IsZero() || o.DeliveredAt.Before(earliest) {
			earliest = *o.DeliveredAt
		}
	}
	return earliest
}
