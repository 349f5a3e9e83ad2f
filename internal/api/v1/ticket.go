package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tressahealth/moneyback/internal/api/dto"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/logger"
	"github.com/tressahealth/moneyback/internal/service"
)

type TicketHandler struct {
	service service.TicketService
	log     *logger.Logger
}

func NewTicketHandler(service service.TicketService, log *logger.Logger) *TicketHandler {
	return &TicketHandler{service: service, log: log}
}

// @Summary Raise a money-back ticket
// @Description Run the eligibility engine for a customer and create a routed money-back ticket
// @Tags Tickets
// @Accept json
// @Produce json
// @Param ticket body dto.CreateTicketRequest true "Ticket request"
// @Success 201 {object} dto.TicketResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateTicket(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to create ticket", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a ticket by ID
// @Description Get a money-back ticket by ID
// @Tags Tickets
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} dto.TicketResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Ticket ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetTicket(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to get ticket", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List tickets
// @Description List money-back tickets with optional filtering
// @Tags Tickets
// @Produce json
// @Param customer_id query string false "Customer ID"
// @Param category query string false "Category"
// @Param status query string false "Status"
// @Success 200 {object} dto.ListTicketsResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	var req dto.ListTicketsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListTickets(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to list tickets", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
