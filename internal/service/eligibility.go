package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/tressahealth/moneyback/internal/api/dto"
	"github.com/tressahealth/moneyback/internal/domain/kit"
	"github.com/tressahealth/moneyback/internal/domain/order"
	"github.com/tressahealth/moneyback/internal/domain/prescription"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/types"
)

// EligibilityService is the money-back eligibility engine: it combines the
// prior-refund, kit-genuineness, kit-completeness, delivery-timeframe,
// call-count and request-timing checks into a single verdict plus the
// eligible refund amount. It never mutates orders or prescriptions.
type EligibilityService interface {
	// CheckEligibility evaluates all six checks for a customer. Missing
	// data (no prescription, no deliveries) yields a well-formed negative
	// result, not an error.
	CheckEligibility(ctx context.Context, customerID string) (*dto.EligibilityResult, error)

	// CalculateEligibleRefundAmount sums delivered, non-void, non-free
	// order totals minus processed refunds, floored at zero. Independent of
	// the eligibility verdict.
	CalculateEligibleRefundAmount(ctx context.Context, customerID string) (decimal.Decimal, error)

	// GetUndeliveredOrders lists undelivered orders annotated with a
	// best-effort derived kit number.
	GetUndeliveredOrders(ctx context.Context, customerID string) ([]dto.UndeliveredOrder, error)

	// GetRefundCalculationBreakdown is the reporting view over the refund
	// aggregates.
	GetRefundCalculationBreakdown(ctx context.Context, customerID string) (*dto.RefundCalculationBreakdown, error)

	// CheckKitCompleteness compares the kit's required prescribed products
	// against the products actually delivered for it.
	CheckKitCompleteness(ctx context.Context, prescriptionID string, kitNumber int) (*dto.KitCompletenessResult, error)

	// HasNonVoidCODOrders reports whether the customer has any non-void
	// cash-on-delivery orders, which require bank details before disbursal.
	HasNonVoidCODOrders(ctx context.Context, customerID string) (bool, error)
}

type eligibilityService struct {
	ServiceParams
}

// NewEligibilityService creates a new eligibility service
func NewEligibilityService(params ServiceParams) EligibilityService {
	return &eligibilityService{ServiceParams: params}
}

func (s *eligibilityService) CheckEligibility(ctx context.Context, customerID string) (*dto.EligibilityResult, error) {
	result := &dto.EligibilityResult{
		Reasons:                  []string{},
		EligibleRefundAmount:     decimal.Zero,
		MissingEssentialProducts: []dto.MissingKitProducts{},
	}

	presc, err := s.PrescriptionRepo.GetActiveByCustomer(ctx, customerID)
	if err != nil {
		if ierr.IsNotFound(err) {
			result.Reasons = append(result.Reasons, "No active prescription found for this customer.")
			return result, nil
		}
		return nil, err
	}

	result.RecommendedTreatmentPeriod = presc.TreatmentDurationMonths
	result.PrescriptionID = presc.ID
	requiredKits := presc.RequiredKits

	// Check 1: no prior approved money-back refund.
	approvedTickets, err := s.TicketRepo.CountApproved(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if approvedTickets > 0 {
		result.Reasons = append(result.Reasons, "Customer has already received a money-back refund.")
	} else {
		result.Checks.AlreadyReceivedRefund = true
	}

	orders, err := s.OrderRepo.List(ctx, &order.Filter{
		CustomerID:     customerID,
		PrescriptionID: presc.ID,
		IsVoid:         lo.ToPtr(false),
	})
	if err != nil {
		return nil, err
	}

	// Check 2: enough genuine kits, via the kit validation service.
	kitValidationService := NewKitValidationService(s.ServiceParams)
	validation, err := kitValidationService.ValidateKitOrdering(ctx, presc.ID, customerID)
	if err != nil {
		return nil, err
	}
	genuineKitCount := len(validation.GenuineKits)

	daysPerKit := presc.DaysPerKit(s.Config.Eligibility.DefaultDaysPerKit)
	paidDelivered := lo.Filter(orders, func(o *order.Order, _ int) bool {
		return o.IsPaidDelivery()
	})

	var deliveredKits []int
	var kitGroups map[int][]*order.Order
	if presc.PlanStartedAt != nil {
		deliveredKits = kit.DeliveredKitNumbers(paidDelivered, *presc.PlanStartedAt, daysPerKit)
		kitGroups = kit.GroupOrdersByKit(paidDelivered, *presc.PlanStartedAt, daysPerKit)
	}
	deliveredKitCount := len(deliveredKits)

	if genuineKitCount >= requiredKits {
		result.Checks.PurchasedCompleteKits = true
	} else {
		result.Reasons = append(result.Reasons, fmt.Sprintf(
			"Customer has only %d genuine kits (ordered at proper intervals) out of required %d kits. Total delivered: %d, but %d were ordered outside proper timeline.",
			genuineKitCount, requiredKits, deliveredKitCount, len(validation.InvalidKits)))
	}

	// Check 3: every delivered kit contains all its essential products.
	if deliveredKitCount > 0 {
		allEssentialPurchased := true
		for _, kitNumber := range deliveredKits {
			completeness, err := s.CheckKitCompleteness(ctx, presc.ID, kitNumber)
			if err != nil {
				return nil, err
			}
			if !completeness.IsComplete {
				allEssentialPurchased = false
				result.MissingEssentialProducts = append(result.MissingEssentialProducts, dto.MissingKitProducts{
					KitNumber: kitNumber,
					Products:  completeness.MissingProducts,
				})
				result.Reasons = append(result.Reasons, fmt.Sprintf(
					"Kit %d is missing essential products: %s",
					kitNumber, strings.Join(completeness.MissingProducts, ", ")))
			}
		}
		if allEssentialPurchased {
			result.Checks.PurchasedAllEssentialProducts = true
		}
	} else {
		result.Reasons = append(result.Reasons, "Customer has not received any kits yet.")
	}

	// Check 4: the required kits were delivered within the plan's maximum
	// month span. Only meaningful once enough kits are delivered.
	if deliveredKitCount >= requiredKits {
		kitDeliveryDates := make([]time.Time, 0, requiredKits)
		for _, kitNumber := range deliveredKits[:requiredKits] {
			d := earliestDeliveryDate(kitGroups[kitNumber])
			if !d.IsZero() {
				kitDeliveryDates = append(kitDeliveryDates, d)
			}
		}

		if len(kitDeliveryDates) >= requiredKits {
			firstKitDate := kitDeliveryDates[0]
			lastKitDate := kitDeliveryDates[requiredKits-1]
			monthsDiff := kit.MonthsDifference(firstKitDate, lastKitDate)
			maxMonths := presc.MaxDeliveryMonths()

			if monthsDiff <= maxMonths {
				result.Checks.KitsDeliveredInTimeframe = true
			} else {
				result.Reasons = append(result.Reasons, fmt.Sprintf(
					"The %d kits were delivered over %d months, which exceeds the required %d months timeframe.",
					requiredKits, monthsDiff, maxMonths))
			}
		}
	}

	// Check 5: enough connected hair-coach calls.
	requiredCalls := s.Config.Eligibility.RequiredConnectedCalls
	connectedCalls, err := s.CallRepo.CountConnected(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if connectedCalls >= requiredCalls {
		result.Checks.CompletedThreeCalls = true
	} else {
		result.Reasons = append(result.Reasons, fmt.Sprintf(
			"Customer has completed only %d calls with Hair Coach. Required: %d calls.",
			connectedCalls, requiredCalls))
	}

	// Check 6: the request was raised within the window after ordering the
	// final required kit.
	windowDays := s.Config.Eligibility.RequestWindowDays
	if deliveredKitCount >= requiredKits {
		lastKitOrders := kitGroups[requiredKits]
		if len(lastKitOrders) > 0 {
			lastKitOrderDate := earliestOrderDate(lastKitOrders)
			daysDiff := kit.DaysBetween(lastKitOrderDate, time.Now().UTC())

			if daysDiff <= windowDays {
				result.Checks.RaisedWithinWindow = true
			} else {
				result.Reasons = append(result.Reasons, fmt.Sprintf(
					"Money-back request must be raised within %d days of placing the %d%s kit order. %d days have passed.",
					windowDays, requiredKits, kit.OrdinalSuffix(requiredKits), daysDiff))
			}
		}
	} else {
		result.Reasons = append(result.Reasons, fmt.Sprintf(
			"Customer has not yet placed the %d%s kit order.",
			requiredKits, kit.OrdinalSuffix(requiredKits)))
	}

	refundAmount, err := s.CalculateEligibleRefundAmount(ctx, customerID)
	if err != nil {
		return nil, err
	}
	result.EligibleRefundAmount = refundAmount

	result.IsEligible = result.Checks.All()

	s.Logger.Infow("checked money-back eligibility",
		"customer_id", customerID,
		"prescription_id", presc.ID,
		"is_eligible", result.IsEligible,
		"genuine_kits", genuineKitCount,
		"delivered_kits", deliveredKitCount,
		"required_kits", requiredKits,
		"refund_amount", refundAmount)

	return result, nil
}

func (s *eligibilityService) CalculateEligibleRefundAmount(ctx context.Context, customerID string) (decimal.Decimal, error) {
	deliveredOrders, err := s.OrderRepo.List(ctx, &order.Filter{
		CustomerID:  customerID,
		IsDelivered: lo.ToPtr(true),
		IsVoid:      lo.ToPtr(false),
		IsFreeKit:   lo.ToPtr(false),
	})
	if err != nil {
		return decimal.Zero, err
	}

	totalOrderAmount := decimal.Zero
	for _, o := range deliveredOrders {
		totalOrderAmount = totalOrderAmount.Add(o.TotalAmount)
	}

	refunds, err := s.TransactionRepo.ListProcessedRefunds(ctx, customerID)
	if err != nil {
		return decimal.Zero, err
	}

	totalRefunded := decimal.Zero
	for _, txn := range refunds {
		totalRefunded = totalRefunded.Add(txn.Amount)
	}

	eligibleAmount := totalOrderAmount.Sub(totalRefunded)
	if eligibleAmount.IsNegative() {
		return decimal.Zero, nil
	}
	return eligibleAmount, nil
}

func (s *eligibilityService) GetUndeliveredOrders(ctx context.Context, customerID string) ([]dto.UndeliveredOrder, error) {
	undelivered, err := s.OrderRepo.List(ctx, &order.Filter{
		CustomerID:  customerID,
		IsDelivered: lo.ToPtr(false),
	})
	if err != nil {
		return nil, err
	}

	presc, daysPerKit, err := s.activePlanContext(ctx, customerID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.UndeliveredOrder, 0, len(undelivered))
	for _, o := range undelivered {
		// Best-effort kit number from the order date; 0 when the plan has
		// not started.
		kitNumber := 0
		if presc != nil && presc.PlanStartedAt != nil {
			kitNumber = kit.CalculateKitNumber(o.OrderedAt, *presc.PlanStartedAt, daysPerKit)
		}
		result = append(result, dto.UndeliveredOrder{
			ID:        o.ID,
			ProductID: o.ProductID,
			KitNumber: kitNumber,
			Amount:    o.TotalAmount,
			OrderedAt: o.OrderedAt,
		})
	}
	return result, nil
}

func (s *eligibilityService) GetRefundCalculationBreakdown(ctx context.Context, customerID string) (*dto.RefundCalculationBreakdown, error) {
	deliveredOrders, err := s.OrderRepo.List(ctx, &order.Filter{
		CustomerID:  customerID,
		IsDelivered: lo.ToPtr(true),
		IsVoid:      lo.ToPtr(false),
		IsFreeKit:   lo.ToPtr(false),
	})
	if err != nil {
		return nil, err
	}

	presc, daysPerKit, err := s.activePlanContext(ctx, customerID)
	if err != nil {
		return nil, err
	}

	deliveredTotal := decimal.Zero
	deliveredLines := make([]dto.DeliveredOrderLine, 0, len(deliveredOrders))
	for _, o := range deliveredOrders {
		deliveredTotal = deliveredTotal.Add(o.TotalAmount)
		kitNumber := 0
		if presc != nil && presc.PlanStartedAt != nil && o.DeliveredAt != nil {
			kitNumber = kit.CalculateKitNumber(*o.DeliveredAt, *presc.PlanStartedAt, daysPerKit)
		}
		deliveredLines = append(deliveredLines, dto.DeliveredOrderLine{
			ID:          o.ID,
			KitNumber:   kitNumber,
			Amount:      o.TotalAmount,
			DeliveredAt: o.DeliveredAt,
		})
	}

	refunds, err := s.TransactionRepo.ListProcessedRefunds(ctx, customerID)
	if err != nil {
		return nil, err
	}

	refundsTotal := decimal.Zero
	refundLines := make([]dto.PreviousRefundLine, 0, len(refunds))
	for _, txn := range refunds {
		refundsTotal = refundsTotal.Add(txn.Amount)
		refundLines = append(refundLines, dto.PreviousRefundLine{
			TransactionNumber: txn.TransactionNumber,
			Amount:            txn.Amount,
			ProcessedAt:       txn.ProcessedAt,
			Metadata:          txn.Metadata,
		})
	}

	undelivered, err := s.GetUndeliveredOrders(ctx, customerID)
	if err != nil {
		return nil, err
	}

	net := deliveredTotal.Sub(refundsTotal)
	if net.IsNegative() {
		net = decimal.Zero
	}

	return &dto.RefundCalculationBreakdown{
		DeliveredOrdersTotal: deliveredTotal,
		PreviousRefundsTotal: refundsTotal,
		NetRefundAmount:      net,
		DeliveredOrders:      deliveredLines,
		PreviousRefunds:      refundLines,
		UndeliveredOrders:    undelivered,
	}, nil
}

func (s *eligibilityService) CheckKitCompleteness(ctx context.Context, prescriptionID string, kitNumber int) (*dto.KitCompletenessResult, error) {
	result := &dto.KitCompletenessResult{
		KitNumber:          kitNumber,
		PrescribedProducts: []string{},
		OrderedProducts:    []string{},
		MissingProducts:    []string{},
	}

	presc, err := s.PrescriptionRepo.Get(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}

	// Without a plan start date no order maps to any kit; report incomplete
	// with nothing computed rather than erroring.
	if presc.PlanStartedAt == nil {
		return result, nil
	}

	prescribed, err := s.PrescriptionRepo.ListProductsByKit(ctx, prescriptionID, kitNumber, true)
	if err != nil {
		return nil, err
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

	daysPerKit := presc.DaysPerKit(s.Config.Eligibility.DefaultDaysPerKit)
	ordered := kit.GroupOrdersByKit(orders, *presc.PlanStartedAt, daysPerKit)[kitNumber]

	prescribedIDs := lo.Map(prescribed, func(pp *prescription.Product, _ int) string {
		return pp.ProductID
	})
	orderedIDs := lo.Uniq(lo.Map(ordered, func(o *order.Order, _ int) string {
		return o.ProductID
	}))
	missingIDs, _ := lo.Difference(prescribedIDs, orderedIDs)

	names, err := s.productNames(ctx, append(append([]string{}, prescribedIDs...), orderedIDs...))
	if err != nil {
		return nil, err
	}

	result.PrescribedProducts = lo.Map(prescribedIDs, func(id string, _ int) string { return names[id] })
	result.OrderedProducts = lo.Map(orderedIDs, func(id string, _ int) string { return names[id] })
	result.MissingProducts = lo.Map(missingIDs, func(id string, _ int) string { return names[id] })
	result.IsComplete = len(missingIDs) == 0

	return result, nil
}

func (s *eligibilityService) HasNonVoidCODOrders(ctx context.Context, customerID string) (bool, error) {
	count, err := s.OrderRepo.CountByPaymentMode(ctx, customerID, types.PaymentModeCOD)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// activePlanContext fetches the customer's active prescription and cadence
// for best-effort kit-number annotation. Absence is not an error here.
func (s *eligibilityService) activePlanContext(ctx context.Context, customerID string) (*prescription.Prescription, int, error) {
	presc, err := s.PrescriptionRepo.GetActiveByCustomer(ctx, customerID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, s.Config.Eligibility.DefaultDaysPerKit, nil
		}
		return nil, 0, err
	}
	return presc, presc.DaysPerKit(s.Config.Eligibility.DefaultDaysPerKit), nil
}

// productNames resolves product IDs to display names, falling back to the
// raw ID for products missing from the catalogue.
func (s *eligibilityService) productNames(ctx context.Context, ids []string) (map[string]string, error) {
	ids = lo.Uniq(ids)
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		names[id] = id
	}
	if len(ids) == 0 {
		return names, nil
	}

	products, err := s.ProductRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names, nil
}

// earliestOrderDate returns the earliest OrderedAt among the orders.
func earliestOrderDate(orders []*order.Order) time.Time {
	var earliest time.Time
	for _, o := range orders {
		if earliest.IsZero() || o.OrderedAt.Before(earliest) {
			earliest = o.OrderedAt
		}
	}
	return earliest
}
