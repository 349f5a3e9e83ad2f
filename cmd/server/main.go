package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/tressahealth/moneyback/internal/api"
	v1 "github.com/tressahealth/moneyback/internal/api/v1"
	"github.com/tressahealth/moneyback/internal/config"
	"github.com/tressahealth/moneyback/internal/domain/calllog"
	"github.com/tressahealth/moneyback/internal/domain/customer"
	"github.com/tressahealth/moneyback/internal/domain/order"
	"github.com/tressahealth/moneyback/internal/domain/prescription"
	"github.com/tressahealth/moneyback/internal/domain/product"
	"github.com/tressahealth/moneyback/internal/domain/ticket"
	"github.com/tressahealth/moneyback/internal/domain/transaction"
	"github.com/tressahealth/moneyback/internal/logger"
	"github.com/tressahealth/moneyback/internal/postgres"
	pgrepo "github.com/tressahealth/moneyback/internal/repository/postgres"
	"github.com/tressahealth/moneyback/internal/service"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			postgres.NewClient,
			pgrepo.NewCustomerRepository,
			pgrepo.NewPrescriptionRepository,
			pgrepo.NewOrderRepository,
			pgrepo.NewCallLogRepository,
			pgrepo.NewTransactionRepository,
			pgrepo.NewTicketRepository,
			pgrepo.NewProductRepository,
			newServiceParams,
			service.NewEligibilityService,
			service.NewKitValidationService,
			service.NewTicketService,
			service.NewPrescriptionTrackerService,
			service.NewKitManagementService,
			v1.NewEligibilityHandler,
			v1.NewTicketHandler,
			v1.NewPrescriptionHandler,
			newHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func newServiceParams(
	log *logger.Logger,
	cfg *config.Configuration,
	customerRepo customer.Repository,
	prescriptionRepo prescription.Repository,
	orderRepo order.Repository,
	callRepo calllog.Repository,
	transactionRepo transaction.Repository,
	ticketRepo ticket.Repository,
	productRepo product.Repository,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:           log,
		Config:           cfg,
		CustomerRepo:     customerRepo,
		PrescriptionRepo: prescriptionRepo,
		OrderRepo:        orderRepo,
		CallRepo:         callRepo,
		TransactionRepo:  transactionRepo,
		TicketRepo:       ticketRepo,
		ProductRepo:      productRepo,
	}
}

func newHandlers(
	eligibility *v1.EligibilityHandler,
	ticket *v1.TicketHandler,
	prescription *v1.PrescriptionHandler,
) api.Handlers {
	return api.Handlers{
		Eligibility:  eligibility,
		Ticket:       ticket,
		Prescription: prescription,
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	router *gin.Engine,
	client *postgres.Client,
	log *logger.Logger,
) {
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting server", "address", cfg.Server.Address)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			if err := server.Shutdown(ctx); err != nil {
				return err
			}
			return client.Close()
		},
	})
}
