package service

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	ierr "github.com/tressahealth/moneyback/internal/errors"
)

type PrescriptionTrackerSuite struct {
	ServiceTestSuite
	service PrescriptionTrackerService
}

func TestPrescriptionTrackerService(t *testing.T) {
	suite.Run(t, new(PrescriptionTrackerSuite))
}

func (s *PrescriptionTrackerSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPrescriptionTrackerService(s.params())
}

func (s *PrescriptionTrackerSuite) TestFirstDeliveryAnchorsPlan() {
	firstDelivery := planStartDaysAgo(10)
	s.seedCustomer("cust_1")
	s.seedPrescription("presc_1", "cust_1", nil)
	s.seedOrder("ord_1", "cust_1", "presc_1", firstDelivery, orderOpts{delivered: lo.ToPtr(firstDelivery)})

	s.NoError(s.service.UpdatePrescriptionDates(s.GetContext(), "presc_1"))

	presc, err := s.GetStores().PrescriptionRepo.Get(s.GetContext(), "presc_1")
	s.NoError(err)
	s.NotNil(presc.PlanStartedAt)
	s.True(presc.PlanStartedAt.Equal(firstDelivery))
	s.NotNil(presc.ExpectedCompletionDate)
	s.True(presc.ExpectedCompletionDate.Equal(firstDelivery.AddDate(0, 5, 0)))
	s.Nil(presc.ActualCompletionDate)
	s.True(presc.IsActive)
}

func (s *PrescriptionTrackerSuite) TestNoDeliveriesIsANoOp() {
	s.seedCustomer("cust_1")
	s.seedPrescription("presc_1", "cust_1", nil)
	s.seedOrder("ord_1", "cust_1", "presc_1", planStartDaysAgo(5), orderOpts{})

	s.NoError(s.service.UpdatePrescriptionDates(s.GetContext(), "presc_1"))

	presc, err := s.GetStores().PrescriptionRepo.Get(s.GetContext(), "presc_1")
	s.NoError(err)
	s.Nil(presc.PlanStartedAt)
}

func (s *PrescriptionTrackerSuite) TestCompletionRecordedAfterRequiredKits() {
	planStart := planStartDaysAgo(120)
	s.seedCustomer("cust_1")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	s.seedKitOrders("cust_1", "presc_1", planStart, []int{0, 30, 60, 90, 120})

	s.NoError(s.service.UpdatePrescriptionDates(s.GetContext(), "presc_1"))

	presc, err := s.GetStores().PrescriptionRepo.Get(s.GetContext(), "presc_1")
	s.NoError(err)
	s.NotNil(presc.ActualCompletionDate)
	s.True(presc.ActualCompletionDate.Equal(planStart.AddDate(0, 0, 120)))
	s.NotNil(presc.CompletedAt)
	s.False(presc.IsActive)
}

func (s *PrescriptionTrackerSuite) TestIncompleteTreatmentStaysActive() {
	planStart := planStartDaysAgo(60)
	s.seedCustomer("cust_1")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	s.seedKitOrders("cust_1", "presc_1", planStart, []int{0, 30, 60})

	s.NoError(s.service.UpdatePrescriptionDates(s.GetContext(), "presc_1"))

	presc, err := s.GetStores().PrescriptionRepo.Get(s.GetContext(), "presc_1")
	s.NoError(err)
	s.Nil(presc.ActualCompletionDate)
	s.True(presc.IsActive)
}

func (s *PrescriptionTrackerSuite) TestUnknownPrescription() {
	err := s.service.UpdatePrescriptionDates(s.GetContext(), "presc_missing")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *PrescriptionTrackerSuite) TestGetPrescriptionTimeline() {
	planStart := planStartDaysAgo(90)
	s.seedCustomer("cust_1")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	s.seedKitOrders("cust_1", "presc_1", planStart, []int{0, 30, 60})

	timeline, err := s.service.GetPrescriptionTimeline(s.GetContext(), "presc_1")
	s.NoError(err)
	s.Equal("presc_1", timeline.PrescriptionID)
	s.Equal(5, timeline.RequiredKits)
	s.Equal([]int{1, 2, 3}, timeline.DeliveredKits)
	s.True(timeline.IsActive)
}

func (s *PrescriptionTrackerSuite) TestTimelineForUnstartedPlan() {
	s.seedCustomer("cust_1")
	s.seedPrescription("presc_1", "cust_1", nil)

	timeline, err := s.service.GetPrescriptionTimeline(s.GetContext(), "presc_1")
	s.NoError(err)
	s.Nil(timeline.PlanStartedAt)
	s.Empty(timeline.DeliveredKits)
}
