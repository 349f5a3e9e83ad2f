package api

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/tressahealth/moneyback/internal/api/v1"
	"github.com/tressahealth/moneyback/internal/logger"
	"github.com/tressahealth/moneyback/internal/rest/middleware"
)

// Handlers aggregates the v1 handlers for router construction.
type Handlers struct {
	Eligibility  *v1.EligibilityHandler
	Ticket       *v1.TicketHandler
	Prescription *v1.PrescriptionHandler
}

// NewRouter builds the gin engine with the shared middleware chain and all
// v1 routes mounted.
func NewRouter(handlers Handlers, log *logger.Logger) *gin.Engine {
	gin.DefaultWriter = log.GetGinLogger()
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1Group := router.Group("/v1")

	customers := v1Group.Group("/customers")
	{
		customers.GET("/:id/eligibility", handlers.Eligibility.CheckEligibility)
		customers.GET("/:id/refund-breakdown", handlers.Eligibility.GetRefundBreakdown)
		customers.GET("/:id/undelivered-orders", handlers.Eligibility.GetUndeliveredOrders)
		customers.GET("/:id/kit-validation", handlers.Eligibility.ValidateKitOrdering)
		customers.GET("/:id/kit-info", handlers.Prescription.GetCustomerKitInfo)
	}

	prescriptions := v1Group.Group("/prescriptions")
	{
		prescriptions.POST("", handlers.Prescription.CreatePrescription)
		prescriptions.POST("/:id/change-kit", handlers.Prescription.ChangeKit)
		prescriptions.POST("/:id/refresh-dates", handlers.Prescription.RefreshDates)
		prescriptions.GET("/:id/timeline", handlers.Prescription.GetTimeline)
		prescriptions.GET("/:id/kits/:kit/completeness", handlers.Prescription.CheckKitCompleteness)
	}

	v1Group.GET("/kits/:kitId/prescription", handlers.Prescription.GetPrescriptionByKitID)

	tickets := v1Group.Group("/tickets")
	{
		tickets.POST("", handlers.Ticket.CreateTicket)
		tickets.GET("", handlers.Ticket.ListTickets)
		tickets.GET("/:id", handlers.Ticket.GetTicket)
	}

	return router
}
