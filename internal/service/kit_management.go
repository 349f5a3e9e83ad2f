package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/tressahealth/moneyback/internal/api/dto"
	"github.com/tressahealth/moneyback/internal/domain/order"
	"github.com/tressahealth/moneyback/internal/domain/prescription"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/types"
)

// KitManagementService owns the kit-plan lifecycle: creating prescriptions
// with generated kit IDs, swapping a plan before deliveries have happened,
// and serving kit-level reporting views.
type KitManagementService interface {
	// CreatePrescriptionWithKit creates a prescription with a fresh kit ID,
	// deactivating any prior active prescription for the customer first.
	CreatePrescriptionWithKit(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error)

	// ChangeKit swaps the plan on an existing prescription. Rejected once
	// any order has been delivered against it.
	ChangeKit(ctx context.Context, prescriptionID string, req *dto.ChangeKitRequest) (*dto.PrescriptionResponse, error)

	// GetPrescriptionByKitID resolves a human-facing kit ID.
	GetPrescriptionByKitID(ctx context.Context, kitID string) (*dto.PrescriptionResponse, error)

	// GetCustomerKitInfo returns the reporting view of the customer's
	// active kit plan.
	GetCustomerKitInfo(ctx context.Context, customerID string) (*dto.CustomerKitInfo, error)
}

type kitManagementService struct {
	ServiceParams
}

// NewKitManagementService creates a new kit management service
func NewKitManagementService(params ServiceParams) KitManagementService {
	return &kitManagementService{ServiceParams: params}
}

func (s *kitManagementService) CreatePrescriptionWithKit(ctx context.Context, req *dto.CreatePrescriptionRequest) (*dto.PrescriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.CustomerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	// A customer has at most one active prescription.
	if err := s.PrescriptionRepo.DeactivateByCustomer(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	presc := &prescription.Prescription{
		ID:                      types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRESCRIPTION),
		PrescriptionNumber:      generatePrescriptionNumber(),
		KitID:                   GenerateKitID(req.PlanType),
		CustomerID:              req.CustomerID,
		PrescribedByDoctorID:    req.PrescribedByDoctorID,
		PlanType:                req.PlanType,
		TreatmentDurationMonths: req.TreatmentDurationMonths,
		RequiredKits:            req.RequiredKits,
		IsActive:                true,
		PrescribedAt:            time.Now().UTC(),
		BaseModel:               types.GetDefaultBaseModel(ctx),
	}
	for _, p := range req.Products {
		presc.Products = append(presc.Products, &prescription.Product{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRESCRIPTION_PRODUCT),
			PrescriptionID: presc.ID,
			ProductID:      p.ProductID,
			KitNumber:      p.KitNumber,
			Quantity:       p.Quantity,
			IsRequired:     p.IsRequired,
			DaysToExhaust:  p.DaysToExhaust,
			BaseModel:      types.GetDefaultBaseModel(ctx),
		})
	}

	if err := presc.Validate(); err != nil {
		return nil, err
	}
	if err := s.PrescriptionRepo.Create(ctx, presc); err != nil {
		return nil, err
	}

	s.Logger.Infow("created prescription with kit",
		"prescription_id", presc.ID,
		"kit_id", presc.KitID,
		"customer_id", presc.CustomerID,
		"plan_type", presc.PlanType,
		"required_kits", presc.RequiredKits)

	return &dto.PrescriptionResponse{Prescription: presc}, nil
}

func (s *kitManagementService) ChangeKit(ctx context.Context, prescriptionID string, req *dto.ChangeKitRequest) (*dto.PrescriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	presc, err := s.PrescriptionRepo.Get(ctx, prescriptionID)
	if err != nil {
		return nil, err
	}

	delivered, err := s.OrderRepo.List(ctx, &order.Filter{
		PrescriptionID: prescriptionID,
		IsDelivered:    lo.ToPtr(true),
		IsVoid:         lo.ToPtr(false),
	})
	if err != nil {
		return nil, err
	}
	if len(delivered) > 0 {
		return nil, ierr.NewError("cannot change kit after deliveries").
			WithHintf("Cannot change kit. Customer has already received %d orders. Please create a new prescription instead.", len(delivered)).
			WithReportableDetails(map[string]interface{}{
				"prescription_id":  prescriptionID,
				"delivered_orders": len(delivered),
			}).
			Mark(ierr.ErrValidation)
	}

	presc.PlanType = req.NewPlanType
	presc.TreatmentDurationMonths = req.NewTreatmentDurationMonths
	presc.RequiredKits = req.NewRequiredKits
	presc.KitID = GenerateKitID(req.NewPlanType)
	presc.Notes = req.Reason
	// Nothing has been delivered, so the derived lifecycle dates reset.
	presc.PlanStartedAt = nil
	presc.ExpectedCompletionDate = nil
	presc.ActualCompletionDate = nil
	presc.CompletedAt = nil

	if err := presc.Validate(); err != nil {
		return nil, err
	}
	if err := s.PrescriptionRepo.Update(ctx, presc); err != nil {
		return nil, err
	}

	s.Logger.Infow("changed kit plan",
		"prescription_id", presc.ID,
		"kit_id", presc.KitID,
		"new_plan_type", presc.PlanType,
		"changed_by", req.ChangedBy)

	return &dto.PrescriptionResponse{Prescription: presc}, nil
}

func (s *kitManagementService) GetPrescriptionByKitID(ctx context.Context, kitID string) (*dto.PrescriptionResponse, error) {
	presc, err := s.PrescriptionRepo.GetByKitID(ctx, kitID)
	if err != nil {
		return nil, err
	}
	return &dto.PrescriptionResponse{Prescription: presc}, nil
}

func (s *kitManagementService) GetCustomerKitInfo(ctx context.Context, customerID string) (*dto.CustomerKitInfo, error) {
	presc, err := s.PrescriptionRepo.GetActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &dto.CustomerKitInfo{
		KitID:                   presc.KitID,
		PlanType:                presc.PlanType,
		TreatmentDurationMonths: presc.TreatmentDurationMonths,
		RequiredKits:            presc.RequiredKits,
		PrescriptionNumber:      presc.PrescriptionNumber,
		PrescribedAt:            presc.PrescribedAt,
		PlanStartedAt:           presc.PlanStartedAt,
		ExpectedCompletionDate:  presc.ExpectedCompletionDate,
		IsActive:                presc.IsActive,
	}, nil
}

// GenerateKitID produces a human-facing kit identifier like
// KIT-5M-1756444800000-A1B2C3.
func GenerateKitID(planType types.PlanType) string {
	return fmt.Sprintf("KIT-%dM-%d-%s",
		planType.TreatmentDurationMonths(), time.Now().UnixMilli(), types.GenerateShortCode(6))
}

// generatePrescriptionNumber produces a human-facing prescription number
// like PRX-1756444800000-A1B2C3.
func generatePrescriptionNumber() string {
	return fmt.Sprintf("PRX-%d-%s", time.Now().UnixMilli(), types.GenerateShortCode(6))
}
