package service

import (
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/tressahealth/moneyback/internal/domain/ticket"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/types"
)

type EligibilityServiceSuite struct {
	ServiceTestSuite
	service EligibilityService
}

func TestEligibilityService(t *testing.T) {
	suite.Run(t, new(EligibilityServiceSuite))
}

func (s *EligibilityServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewEligibilityService(s.params())
}

// seedEligibleCustomer builds a customer that passes every check: five kits
// delivered on a perfect 30-day cadence ending today, one required product
// per kit, three connected calls, no prior refunds.
func (s *EligibilityServiceSuite) seedEligibleCustomer() {
	planStart := planStartDaysAgo(120)
	s.seedCustomer("cust_1")
	s.seedProduct("prod_serum", "Hair Growth Serum")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	s.seedKitOrders("cust_1", "presc_1", planStart, []int{0, 30, 60, 90, 120})
	s.seedConnectedCalls("cust_1", 3)
}

func (s *EligibilityServiceSuite) TestFullyEligibleCustomer() {
	s.seedEligibleCustomer()

	result, err := s.service.CheckEligibility(s.GetContext(), "cust_1")
	s.NoError(err)
	s.True(result.IsEligible)
	s.Empty(result.Reasons)
	s.True(result.Checks.AlreadyReceivedRefund)
	s.True(result.Checks.PurchasedCompleteKits)
	s.True(result.Checks.PurchasedAllEssentialProducts)
	s.True(result.Checks.KitsDeliveredInTimeframe)
	s.True(result.Checks.CompletedThreeCalls)
	s.True(result.Checks.RaisedWithinWindow)
	s.Equal(5, result.RecommendedTreatmentPeriod)
	s.True(result.EligibleRefundAmount.Equal(decimal.NewFromInt(5 * 999)))
}

func (s *EligibilityServiceSuite) TestNoActivePrescription() {
	s.seedCustomer("cust_1")

	result, err := s.service.CheckEligibility(s.GetContext(), "cust_1")
	s.NoError(err)
	s.False(result.IsEligible)
	s.Contains(result.Reasons, "No active prescription found for this customer.")
}

func (s *EligibilityServiceSuite) TestPriorRefundFailsCheck() {
	s.seedEligibleCustomer()
	t := &ticket.Ticket{
		ID:           "tkt_prior",
		TicketNumber: "TKT-MB-PRIOR",
		CustomerID:   "cust_1",
		Source:       types.TicketSourceAgent,
		Status:       types.TicketStatusApproved,
		IsApproved:   true,
		BaseModel:    types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().TicketRepo.Create(s.GetContext(), t))

	result, err := s.service.CheckEligibility(s.GetContext(), "cust_1")
	s.NoError(err)
	s.False(result.IsEligible)
	s.False(result.Checks.AlreadyReceivedRefund)
	s.Contains(result.Reasons, "Customer has already received a money-back refund.")
}

func (s *EligibilityServiceSuite) TestNotEnoughGenuineKits() {
	planStart := planStartDaysAgo(150)
	s.seedCustomer("cust_1")
	s.seedProduct("prod_serum", "Hair Growth Serum")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	// Kit 4 delivered fifteen days late breaks the cadence.
	s.seedKitOrders("cust_1", "presc_1", planStart, []int{0, 30, 60, 105, 150})
	s.seedConnectedCalls("cust_1", 3)

	result, err := s.service.CheckEligibility(s.GetContext(), "cust_1")
	s.NoError(err)
	s.False(result.IsEligible)
	s.False(result.Checks.PurchasedCompleteKits)
	s.Contains(result.Reasons[0], "genuine kits")
}

func (s *EligibilityServiceSuite) TestNoKitsDeliveredYet() {
	planStart := planStartDaysAgo(10)
	s.seedCustomer("cust_1")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	// An order exists but nothing has been delivered.
	s.seedOrder("ord_1", "cust_1", "presc_1", planStart, orderOpts{})

	result, err := s.service.CheckEligibility(s.GetContext(), "cust_1")
	s.NoError(err)
	s.False(result.IsEligible)
	s.Contains(result.Reasons, "Customer has not received any kits yet.")
	s.False(result.Checks.PurchasedAllEssentialProducts)
}

func (s *EligibilityServiceSuite) TestMissingEssentialProducts() {
	planStart := planStartDaysAgo(120)
	s.seedCustomer("cust_1")
	s.seedProduct("prod_serum", "Hair Growth Serum")
	s.seedProduct("prod_shampoo", "Anti-Hairfall Shampoo")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))

	// Kit 3 delivers the wrong product.
	for _, offset := range []int{0, 30, 90, 120} {
		deliveredAt := planStart.AddDate(0, 0, offset)
		s.seedOrder(types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER),
			"cust_1", "presc_1", deliveredAt, orderOpts{delivered: lo.ToPtr(deliveredAt)})
	}
	wrongProductDelivery := planStart.AddDate(0, 0, 60)
	s.seedOrder("ord_wrong", "cust_1", "presc_1", wrongProductDelivery, orderOpts{
		productID: "prod_shampoo",
		delivered: lo.ToPtr(wrongProductDelivery),
	})
	s.seedConnectedCalls("cust_1", 3)

	result, err := s.service.CheckEligibility(s.GetContext(), "cust_1")
	s.NoError(err)
	s.False(result.IsEligible)
	s.False(result.Checks.PurchasedAllEssentialProducts)
	s.Len(result.MissingEssentialProducts, 1)
	s.Equal(3, result.MissingEssentialProducts[0].KitNumber)
	s.Equal([]string{"Hair Growth Serum"}, result.MissingEssentialProducts[0].Products)
}

func (s *EligibilityServiceSuite) TestDeliveryTimeframeExceeded() {
	// Five kits delivered, but stretched over more than six calendar months.
	planStart := planStartDaysAgo(185)
	s.seedCustomer("cust_1")
	s.seedProduct("prod_serum", "Hair Growth Serum")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	s.seedKitOrders("cust_1", "presc_1", planStart, []int{0, 50, 100, 150, 185})
	s.seedConnectedCalls("cust_1", 3)

	result, err := s.service.CheckEligibility(s.GetContext(), "cust_1")
	s.NoError(err)
	s.False(result.IsEligible)
	s.False(result.Checks.KitsDeliveredInTimeframe)
	timeframeReasons := lo.Filter(result.Reasons, func(r string, _ int) bool {
		return strings.Contains(r, "exceeds the required 6 months timeframe.")
	})
	s.Len(timeframeReasons, 1)
	s.Contains(timeframeReasons[0], "The 5 kits were delivered over")
}

func (s *EligibilityServiceSuite) TestTooFewCalls() {
	planStart := planStartDaysAgo(120)
	s.seedCustomer("cust_1")
	s.seedProduct("prod_serum", "Hair Growth Serum")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	s.seedKitOrders("cust_1", "presc_1", planStart, []int{0, 30, 60, 90, 120})
	s.seedConnectedCalls("cust_1", 2)

	result, err := s.service.CheckEligibility(s.GetContext(), "cust_1")
	s.NoError(err)
	s.False(result.IsEligible)
	s.False(result.Checks.CompletedThreeCalls)
	s.Contains(result.Reasons, "Customer has completed only 2 calls with Hair Coach. Required: 3 calls.")
}

func (s *EligibilityServiceSuite) TestRequestWindowExpired() {
	// Plan started 200 days ago with a perfect cadence, so the 5th kit was
	// ordered 80 days ago, well past the request window.
	planStart := planStartDaysAgo(200)
	s.seedCustomer("cust_1")
	s.seedProduct("prod_serum", "Hair Growth Serum")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	s.seedKitOrders("cust_1", "presc_1", planStart, []int{0, 30, 60, 90, 120})
	s.seedConnectedCalls("cust_1", 3)

	result, err := s.service.CheckEligibility(s.GetContext(), "cust_1")
	s.NoError(err)
	s.False(result.IsEligible)
	s.False(result.Checks.RaisedWithinWindow)
	s.Contains(result.Reasons, "Money-back request must be raised within 30 days of placing the 5th kit order. 80 days have passed.")
}

func (s *EligibilityServiceSuite) TestFinalKitNotOrdered() {
	planStart := planStartDaysAgo(90)
	s.seedCustomer("cust_1")
	s.seedProduct("prod_serum", "Hair Growth Serum")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	s.seedKitOrders("cust_1", "presc_1", planStart, []int{0, 30, 60})
	s.seedConnectedCalls("cust_1", 3)

	result, err := s.service.CheckEligibility(s.GetContext(), "cust_1")
	s.NoError(err)
	s.False(result.IsEligible)
	s.Contains(result.Reasons, "Customer has not yet placed the 5th kit order.")
}

func (s *EligibilityServiceSuite) TestRefundAmountNetsProcessedRefunds() {
	s.seedEligibleCustomer()
	s.seedProcessedRefund("cust_1", 999, time.Now().UTC().AddDate(0, 0, -10))

	amount, err := s.service.CalculateEligibleRefundAmount(s.GetContext(), "cust_1")
	s.NoError(err)
	s.True(amount.Equal(decimal.NewFromInt(4 * 999)))
}

func (s *EligibilityServiceSuite) TestRefundAmountFlooredAtZero() {
	s.seedEligibleCustomer()
	s.seedProcessedRefund("cust_1", 10000, time.Now().UTC().AddDate(0, 0, -10))

	amount, err := s.service.CalculateEligibleRefundAmount(s.GetContext(), "cust_1")
	s.NoError(err)
	s.True(amount.IsZero())
}

func (s *EligibilityServiceSuite) TestRefundAmountExcludesVoidAndFreeOrders() {
	planStart := planStartDaysAgo(30)
	s.seedCustomer("cust_1")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	deliveredAt := planStart
	s.seedOrder("ord_paid", "cust_1", "presc_1", deliveredAt, orderOpts{delivered: lo.ToPtr(deliveredAt)})
	s.seedOrder("ord_void", "cust_1", "presc_1", deliveredAt, orderOpts{delivered: lo.ToPtr(deliveredAt), isVoid: true})
	s.seedOrder("ord_free", "cust_1", "presc_1", deliveredAt, orderOpts{delivered: lo.ToPtr(deliveredAt), isFreeKit: true})

	amount, err := s.service.CalculateEligibleRefundAmount(s.GetContext(), "cust_1")
	s.NoError(err)
	s.True(amount.Equal(decimal.NewFromInt(999)))
}

func (s *EligibilityServiceSuite) TestGetUndeliveredOrders() {
	planStart := planStartDaysAgo(40)
	s.seedCustomer("cust_1")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	deliveredAt := planStart
	s.seedOrder("ord_done", "cust_1", "presc_1", planStart, orderOpts{delivered: lo.ToPtr(deliveredAt)})
	s.seedOrder("ord_pending", "cust_1", "presc_1", planStart.AddDate(0, 0, 35), orderOpts{})

	undelivered, err := s.service.GetUndeliveredOrders(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Len(undelivered, 1)
	s.Equal("ord_pending", undelivered[0].ID)
	s.Equal(2, undelivered[0].KitNumber)
}

func (s *EligibilityServiceSuite) TestGetRefundCalculationBreakdown() {
	s.seedEligibleCustomer()
	s.seedProcessedRefund("cust_1", 500, time.Now().UTC().AddDate(0, 0, -5))

	breakdown, err := s.service.GetRefundCalculationBreakdown(s.GetContext(), "cust_1")
	s.NoError(err)
	s.True(breakdown.DeliveredOrdersTotal.Equal(decimal.NewFromInt(5 * 999)))
	s.True(breakdown.PreviousRefundsTotal.Equal(decimal.NewFromInt(500)))
	s.True(breakdown.NetRefundAmount.Equal(decimal.NewFromInt(5*999 - 500)))
	s.Len(breakdown.DeliveredOrders, 5)
	s.Len(breakdown.PreviousRefunds, 1)
	s.Empty(breakdown.UndeliveredOrders)
}

func (s *EligibilityServiceSuite) TestCheckKitCompletenessComplete() {
	planStart := planStartDaysAgo(30)
	s.seedCustomer("cust_1")
	s.seedProduct("prod_serum", "Hair Growth Serum")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	s.seedKitOrders("cust_1", "presc_1", planStart, []int{0})

	result, err := s.service.CheckKitCompleteness(s.GetContext(), "presc_1", 1)
	s.NoError(err)
	s.True(result.IsComplete)
	s.Equal([]string{"Hair Growth Serum"}, result.PrescribedProducts)
	s.Empty(result.MissingProducts)
}

func (s *EligibilityServiceSuite) TestCheckKitCompletenessUnknownPrescription() {
	_, err := s.service.CheckKitCompleteness(s.GetContext(), "presc_missing", 1)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *EligibilityServiceSuite) TestCheckKitCompletenessUnstartedPlan() {
	s.seedCustomer("cust_1")
	s.seedPrescription("presc_1", "cust_1", nil)

	result, err := s.service.CheckKitCompleteness(s.GetContext(), "presc_1", 1)
	s.NoError(err)
	s.False(result.IsComplete)
	s.Empty(result.PrescribedProducts)
	s.Empty(result.OrderedProducts)
}

func (s *EligibilityServiceSuite) TestHasNonVoidCODOrders() {
	planStart := planStartDaysAgo(10)
	s.seedCustomer("cust_1")
	s.seedOrder("ord_cod", "cust_1", "", planStart, orderOpts{payment: types.PaymentModeCOD})

	hasCOD, err := s.service.HasNonVoidCODOrders(s.GetContext(), "cust_1")
	s.NoError(err)
	s.True(hasCOD)

	hasCOD, err = s.service.HasNonVoidCODOrders(s.GetContext(), "cust_other")
	s.NoError(err)
	s.False(hasCOD)
}
