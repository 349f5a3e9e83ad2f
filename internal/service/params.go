package service

import (
	"github.com/tressahealth/moneyback/internal/config"
	"github.com/tressahealth/moneyback/internal/domain/calllog"
	"github.com/tressahealth/moneyback/internal/domain/customer"
	"github.com/tressahealth/moneyback/internal/domain/order"
	"github.com/tressahealth/moneyback/internal/domain/prescription"
	"github.com/tressahealth/moneyback/internal/domain/product"
	"github.com/tressahealth/moneyback/internal/domain/ticket"
	"github.com/tressahealth/moneyback/internal/domain/transaction"
	"github.com/tressahealth/moneyback/internal/logger"
)

// ServiceParams holds the dependencies shared by all services. Services
// embed it and construct sibling services from it as needed.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	CustomerRepo     customer.Repository
	PrescriptionRepo prescription.Repository
	OrderRepo        order.Repository
	CallRepo         calllog.Repository
	TransactionRepo  transaction.Repository
	TicketRepo       ticket.Repository
	ProductRepo      product.Repository
}
