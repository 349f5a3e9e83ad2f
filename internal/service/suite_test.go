package service

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/tressahealth/moneyback/internal/domain/calllog"
	"github.com/tressahealth/moneyback/internal/domain/customer"
	"github.com/tressahealth/moneyback/internal/domain/order"
	"github.com/tressahealth/moneyback/internal/domain/prescription"
	"github.com/tressahealth/moneyback/internal/domain/product"
	"github.com/tressahealth/moneyback/internal/domain/transaction"
	"github.com/tressahealth/moneyback/internal/testutil"
	"github.com/tressahealth/moneyback/internal/types"
)

// ServiceTestSuite carries the shared fixture helpers for the service tests.
type ServiceTestSuite struct {
	testutil.BaseServiceTestSuite
}

func (s *ServiceTestSuite) params() ServiceParams {
	stores := s.GetStores()
	return ServiceParams{
		Logger:           s.GetLogger(),
		Config:           s.GetConfig(),
		CustomerRepo:     stores.CustomerRepo,
		PrescriptionRepo: stores.PrescriptionRepo,
		OrderRepo:        stores.OrderRepo,
		CallRepo:         stores.CallRepo,
		TransactionRepo:  stores.TransactionRepo,
		TicketRepo:       stores.TicketRepo,
		ProductRepo:      stores.ProductRepo,
	}
}

func (s *ServiceTestSuite) seedCustomer(id string) *customer.Customer {
	c := &customer.Customer{
		ID:        id,
		Name:      "Test Customer",
		Email:     "customer@example.com",
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), c))
	return c
}

func (s *ServiceTestSuite) seedProduct(id, name string) *product.Product {
	p := &product.Product{
		ID:        id,
		Name:      name,
		Price:     decimal.NewFromInt(999),
		IsActive:  true,
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ProductRepo.Create(s.GetContext(), p))
	return p
}

// seedPrescription creates a 5-month plan with one required product per kit
// and a 30-day cadence. planStart may be nil for a plan not yet started.
func (s *ServiceTestSuite) seedPrescription(id, customerID string, planStart *time.Time) *prescription.Prescription {
	p := &prescription.Prescription{
		ID:                      id,
		PrescriptionNumber:      "PRX-TEST-" + id,
		KitID:                   "KIT-5M-TEST-" + id,
		CustomerID:              customerID,
		PlanType:                types.PlanTypeFiveMonth,
		TreatmentDurationMonths: 5,
		RequiredKits:            5,
		IsActive:                true,
		PrescribedAt:            time.Now().UTC().AddDate(0, 0, -130),
		PlanStartedAt:           planStart,
		BaseModel:               types.GetDefaultBaseModel(s.GetContext()),
	}
	for kitNumber := 1; kitNumber <= p.RequiredKits; kitNumber++ {
		p.Products = append(p.Products, &prescription.Product{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PRESCRIPTION_PRODUCT),
			PrescriptionID: p.ID,
			ProductID:      "prod_serum",
			KitNumber:      kitNumber,
			Quantity:       1,
			IsRequired:     true,
			DaysToExhaust:  30,
			BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
		})
	}
	s.NoError(s.GetStores().PrescriptionRepo.Create(s.GetContext(), p))
	return p
}

type orderOpts struct {
	productID string
	delivered *time.Time
	isVoid    bool
	isFreeKit bool
	amount    int64
	payment   types.PaymentMode
}

func (s *ServiceTestSuite) seedOrder(id, customerID, prescriptionID string, orderedAt time.Time, opts orderOpts) *order.Order {
	if opts.productID == "" {
		opts.productID = "prod_serum"
	}
	if opts.amount == 0 {
		opts.amount = 999
	}
	if opts.payment == "" {
		opts.payment = types.PaymentModePrepaid
	}
	o := &order.Order{
		ID:             id,
		OrderNumber:    "ORD-" + id,
		CustomerID:     customerID,
		PrescriptionID: prescriptionID,
		ProductID:      opts.productID,
		Quantity:       1,
		Price:          decimal.NewFromInt(opts.amount),
		TotalAmount:    decimal.NewFromInt(opts.amount),
		PaymentMode:    opts.payment,
		OrderedAt:      orderedAt,
		DeliveredAt:    opts.delivered,
		IsDelivered:    opts.delivered != nil,
		IsVoid:         opts.isVoid,
		IsFreeKit:      opts.isFreeKit,
		BaseModel:      types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().OrderRepo.Create(s.GetContext(), o))
	return o
}

// seedKitOrders seeds one delivered paid order per kit at the given day
// offsets from planStart, ordered and delivered on the same day.
func (s *ServiceTestSuite) seedKitOrders(customerID, prescriptionID string, planStart time.Time, dayOffsets []int) {
	for _, offset := range dayOffsets {
		deliveredAt := planStart.AddDate(0, 0, offset)
		s.seedOrder(
			types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER),
			customerID, prescriptionID, deliveredAt,
			orderOpts{delivered: lo.ToPtr(deliveredAt)},
		)
	}
}

func (s *ServiceTestSuite) seedConnectedCalls(customerID string, count int) {
	for i := 0; i < count; i++ {
		call := &calllog.HairCoachCall{
			ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CALL),
			CustomerID:  customerID,
			IsConnected: true,
			CalledAt:    time.Now().UTC().AddDate(0, 0, -30*(count-i)),
			BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
		}
		s.NoError(s.GetStores().CallRepo.Create(s.GetContext(), call))
	}
}

func (s *ServiceTestSuite) seedProcessedRefund(customerID string, amount int64, processedAt time.Time) {
	txn := &transaction.Transaction{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRANSACTION),
		TransactionNumber: "TXN-TEST",
		CustomerID:        customerID,
		Amount:            decimal.NewFromInt(amount),
		PaymentMode:       types.PaymentModePrepaid,
		IsRefund:          true,
		IsProcessed:       true,
		ProcessedAt:       lo.ToPtr(processedAt),
		BaseModel:         types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().TransactionRepo.Create(s.GetContext(), txn))
}

// planStartDaysAgo returns a date-only plan start the given days in the past.
func planStartDaysAgo(days int) time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -days)
}
