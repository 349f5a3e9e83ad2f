package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/tressahealth/moneyback/internal/config"
	"github.com/tressahealth/moneyback/internal/logger"
	"github.com/tressahealth/moneyback/internal/types"
)

// Stores aggregates the in-memory repositories used by service tests.
type Stores struct {
	CustomerRepo     *InMemoryCustomerStore
	PrescriptionRepo *InMemoryPrescriptionStore
	OrderRepo        *InMemoryOrderStore
	CallRepo         *InMemoryCallLogStore
	TransactionRepo  *InMemoryTransactionStore
	TicketRepo       *InMemoryTicketStore
	ProductRepo      *InMemoryProductStore
}

// NewStores creates a fresh set of in-memory stores.
func NewStores() Stores {
	return Stores{
		CustomerRepo:     NewInMemoryCustomerStore(),
		PrescriptionRepo: NewInMemoryPrescriptionStore(),
		OrderRepo:        NewInMemoryOrderStore(),
		CallRepo:         NewInMemoryCallLogStore(),
		TransactionRepo:  NewInMemoryTransactionStore(),
		TicketRepo:       NewInMemoryTicketStore(),
		ProductRepo:      NewInMemoryProductStore(),
	}
}

// BaseServiceTestSuite provides common setup for service layer tests.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	logger *logger.Logger
	config *config.Configuration
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupConfig()
	s.stores = NewStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = context.Background()
	s.ctx = context.WithValue(s.ctx, types.CtxRequestID, types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST))
	s.ctx = context.WithValue(s.ctx, types.CtxUserID, "user_test")
}

func (s *BaseServiceTestSuite) setupConfig() {
	s.config = config.GetDefaultConfig()
	s.logger = logger.GetLogger()
}

// GetContext returns the test context.
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the in-memory stores.
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger.
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration.
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// ClearStores drops all data between test cases.
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.CustomerRepo.Clear()
	s.stores.PrescriptionRepo.Clear()
	s.stores.OrderRepo.Clear()
	s.stores.CallRepo.Clear()
	s.stores.TransactionRepo.Clear()
	s.stores.TicketRepo.Clear()
	s.stores.ProductRepo.Clear()
}
