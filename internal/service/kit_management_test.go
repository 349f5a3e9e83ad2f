package service

import (
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"

	"github.com/tressahealth/moneyback/internal/api/dto"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/types"
)

type KitManagementSuite struct {
	ServiceTestSuite
	service KitManagementService
}

func TestKitManagementService(t *testing.T) {
	suite.Run(t, new(KitManagementSuite))
}

func (s *KitManagementSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewKitManagementService(s.params())
}

func (s *KitManagementSuite) createRequest() *dto.CreatePrescriptionRequest {
	return &dto.CreatePrescriptionRequest{
		CustomerID:              "cust_1",
		PlanType:                types.PlanTypeFiveMonth,
		TreatmentDurationMonths: 5,
		RequiredKits:            5,
		PrescribedByDoctorID:    "doc_1",
		Products: []dto.PrescriptionProductRequest{
			{ProductID: "prod_serum", KitNumber: 1, Quantity: 1, IsRequired: true, DaysToExhaust: 30},
		},
	}
}

func (s *KitManagementSuite) TestCreatePrescriptionWithKit() {
	s.seedCustomer("cust_1")

	resp, err := s.service.CreatePrescriptionWithKit(s.GetContext(), s.createRequest())
	s.NoError(err)
	s.True(strings.HasPrefix(resp.Prescription.KitID, "KIT-5M-"))
	s.True(strings.HasPrefix(resp.Prescription.PrescriptionNumber, "PRX-"))
	s.True(resp.Prescription.IsActive)
	s.Len(resp.Prescription.Products, 1)
	s.Equal("prod_serum", resp.Prescription.Products[0].ProductID)

	stored, err := s.GetStores().PrescriptionRepo.Get(s.GetContext(), resp.Prescription.ID)
	s.NoError(err)
	s.Equal(resp.Prescription.KitID, stored.KitID)
}

func (s *KitManagementSuite) TestCreateDeactivatesPriorPrescription() {
	s.seedCustomer("cust_1")
	s.seedPrescription("presc_old", "cust_1", nil)

	resp, err := s.service.CreatePrescriptionWithKit(s.GetContext(), s.createRequest())
	s.NoError(err)

	old, err := s.GetStores().PrescriptionRepo.Get(s.GetContext(), "presc_old")
	s.NoError(err)
	s.False(old.IsActive)

	active, err := s.GetStores().PrescriptionRepo.GetActiveByCustomer(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Equal(resp.Prescription.ID, active.ID)
}

func (s *KitManagementSuite) TestCreateForUnknownCustomer() {
	_, err := s.service.CreatePrescriptionWithKit(s.GetContext(), s.createRequest())
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *KitManagementSuite) TestCreateRejectsMismatchedDuration() {
	s.seedCustomer("cust_1")
	req := s.createRequest()
	req.TreatmentDurationMonths = 8

	_, err := s.service.CreatePrescriptionWithKit(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *KitManagementSuite) TestChangeKitBeforeDelivery() {
	s.seedCustomer("cust_1")
	presc := s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStartDaysAgo(10)))
	oldKitID := presc.KitID

	resp, err := s.service.ChangeKit(s.GetContext(), "presc_1", &dto.ChangeKitRequest{
		NewPlanType:                types.PlanTypeEightMonth,
		NewTreatmentDurationMonths: 8,
		NewRequiredKits:            8,
		Reason:                     "doctor revised the plan",
		ChangedBy:                  "doc_1",
	})
	s.NoError(err)
	s.Equal(types.PlanTypeEightMonth, resp.Prescription.PlanType)
	s.Equal(8, resp.Prescription.RequiredKits)
	s.NotEqual(oldKitID, resp.Prescription.KitID)
	s.True(strings.HasPrefix(resp.Prescription.KitID, "KIT-8M-"))
	s.Equal("doctor revised the plan", resp.Prescription.Notes)
	s.Nil(resp.Prescription.PlanStartedAt)
	s.Nil(resp.Prescription.ExpectedCompletionDate)
}

func (s *KitManagementSuite) TestChangeKitBlockedAfterDelivery() {
	planStart := planStartDaysAgo(30)
	s.seedCustomer("cust_1")
	s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))
	s.seedKitOrders("cust_1", "presc_1", planStart, []int{0})

	_, err := s.service.ChangeKit(s.GetContext(), "presc_1", &dto.ChangeKitRequest{
		NewPlanType:                types.PlanTypeEightMonth,
		NewTreatmentDurationMonths: 8,
		NewRequiredKits:            8,
		Reason:                     "doctor revised the plan",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.Contains(ierr.Hint(err), "Cannot change kit")
}

func (s *KitManagementSuite) TestChangeKitUnknownPrescription() {
	_, err := s.service.ChangeKit(s.GetContext(), "presc_missing", &dto.ChangeKitRequest{
		NewPlanType:                types.PlanTypeEightMonth,
		NewTreatmentDurationMonths: 8,
		NewRequiredKits:            8,
		Reason:                     "doctor revised the plan",
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *KitManagementSuite) TestGetPrescriptionByKitID() {
	s.seedCustomer("cust_1")
	presc := s.seedPrescription("presc_1", "cust_1", nil)

	resp, err := s.service.GetPrescriptionByKitID(s.GetContext(), presc.KitID)
	s.NoError(err)
	s.Equal("presc_1", resp.Prescription.ID)

	_, err = s.service.GetPrescriptionByKitID(s.GetContext(), "KIT-5M-0-XXXXXX")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *KitManagementSuite) TestGetCustomerKitInfo() {
	planStart := planStartDaysAgo(20)
	s.seedCustomer("cust_1")
	presc := s.seedPrescription("presc_1", "cust_1", lo.ToPtr(planStart))

	info, err := s.service.GetCustomerKitInfo(s.GetContext(), "cust_1")
	s.NoError(err)
	s.Equal(presc.KitID, info.KitID)
	s.Equal(types.PlanTypeFiveMonth, info.PlanType)
	s.Equal(5, info.RequiredKits)
	s.NotNil(info.PlanStartedAt)
	s.True(info.IsActive)
}

func (s *KitManagementSuite) TestGetCustomerKitInfoWithoutPrescription() {
	s.seedCustomer("cust_1")

	_, err := s.service.GetCustomerKitInfo(s.GetContext(), "cust_1")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
