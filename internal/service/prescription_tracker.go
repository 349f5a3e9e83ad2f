package service

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/tressahealth/moneyback/internal/api/dto"
	"github.com/tressahealth/moneyback/internal/domain/kit"
	"github.com/tressahealth/moneyback/internal/domain/order"
)

// PrescriptionTrackerService maintains the derived lifecycle dates of a
// prescription from its delivery history: the plan start anchors on the
// first paid delivery, and completion is recorded once the required number
// of kits has been delivered.
type PrescriptionTrackerService interface {
	// UpdatePrescriptionDates recomputes PlanStartedAt, expected and actual
	// completion from the current order history and persists any change.
	// It is idempotent and safe to call after every delivery event.
	UpdatePrescriptionDates(ctx context.Context, prescriptionID string) error

	// GetPrescriptionTimeline returns the treatment progression summary.
	GetPrescriptionTimeline(ctx context.Context, prescriptionID string) (*dto.PrescriptionTimeline, error)
}

type prescriptionTrackerService struct {
	ServiceParams
}

// NewPrescriptionTrackerService creates a new prescription tracker service
func NewPrescriptionTrackerService(params ServiceParams) PrescriptionTrackerService {
	return &prescriptionTrackerService{ServiceParams: params}
}

func (s *prescriptionTrackerService) UpdatePrescriptionDates(ctx context.Context, prescriptionID string) error {
	presc, err := s.PrescriptionRepo.Get(ctx, prescriptionID)
	if err != nil {
		return err
	}

	orders, err := s.OrderRepo.List(ctx, &order.Filter{
		PrescriptionID: prescriptionID,
		IsDelivered:    lo.ToPtr(true),
		IsVoid:         lo.ToPtr(false),
		IsFreeKit:      lo.ToPtr(false),
	})
	if err != nil {
		return err
	}

	paidDelivered := lo.Filter(orders, func(o *order.Order, _ int) bool {
		return o.IsPaidDelivery()
	})
	if len(paidDelivered) == 0 {
		return nil
	}

	changed := false

	// The first paid delivery anchors the plan.
	firstDelivery := earliestDeliveryDate(paidDelivered)
	if presc.PlanStartedAt == nil {
		presc.PlanStartedAt = &firstDelivery
		expected := firstDelivery.AddDate(0, presc.TreatmentDurationMonths, 0)
		presc.ExpectedCompletionDate = &expected
		changed = true
	}

	daysPerKit := presc.DaysPerKit(s.Config.Eligibility.DefaultDaysPerKit)
	kitGroups := kit.GroupOrdersByKit(paidDelivered, *presc.PlanStartedAt, daysPerKit)
	deliveredKits := kit.DeliveredKitNumbers(paidDelivered, *presc.PlanStartedAt, daysPerKit)

	if presc.ActualCompletionDate == nil && len(deliveredKits) >= presc.RequiredKits {
		// Completion is the latest delivery among the first RequiredKits kits.
		var completion time.Time
		for _, kitNumber := range deliveredKits[:presc.RequiredKits] {
			d := latestDeliveryDate(kitGroups[kitNumber])
			if d.After(completion) {
				completion = d
			}
		}
		now := time.Now().UTC()
		presc.ActualCompletionDate = &completion
		presc.CompletedAt = &now
		presc.IsActive = false
		changed = true
	}

	if !changed {
		return nil
	}

	if err := s.PrescriptionRepo.Update(ctx, presc); err != nil {
		return err
	}

	s.Logger.Infow("updated prescription lifecycle dates",
		"prescription_id", presc.ID,
		"plan_started_at", presc.PlanStartedAt,
		"expected_completion_date", presc.ExpectedCompletionDate,
		"actual_completion_date", presc.ActualCompletionDate,
		"is_active", presc.IsActive)
	return nil
}

func (s *prescriptionTrackerService) GetPrescriptionTimeline(ctx context.Context, prescriptionID string) (*dto.PrescriptionTimeline, error) {
	presc, err := s.PrescriptionRepo.Get(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}

	timeline := &dto.PrescriptionTimeline{
		PrescriptionID:         presc.ID,
		PrescribedAt:           presc.PrescribedAt,
		PlanStartedAt:          presc.PlanStartedAt,
		ExpectedCompletionDate: presc.ExpectedCompletionDate,
		ActualCompletionDate:   presc.ActualCompletionDate,
		CompletedAt:            presc.CompletedAt,
		RequiredKits:           presc.RequiredKits,
		DeliveredKits:          []int{},
		IsActive:               presc.IsActive,
	}

	if presc.PlanStartedAt == nil {
		return timeline, nil
	}

	orders, err := s.OrderRepo.List(ctx, &order.Filter{
		PrescriptionID: prescriptionID,
		IsDelivered:    lo.ToPtr(true),
		IsVoid:         lo.ToPtr(false),
		IsFreeKit:      lo.ToPtr(false),
	})
	if err != nil {
		return nil, err
	}

	paidDelivered := lo.Filter(orders, func(o *order.Order, _ int) bool {
		return o.IsPaidDelivery()
	})
	daysPerKit := presc.DaysPerKit(s.Config.Eligibility.DefaultDaysPerKit)
	timeline.DeliveredKits = kit.DeliveredKitNumbers(paidDelivered, *presc.PlanStartedAt, daysPerKit)

	return timeline, nil
}

// latestDeliveryDate returns the latest DeliveredAt among the orders.
func latestDeliveryDate(orders []*order.Order) time.Time {
	var latest time.Time
	for _, o := range orders {
		if o.DeliveredAt != nil && o.DeliveredAt.After(latest) {
			latest = *o.DeliveredAt
		}
	}
	return latest
}
