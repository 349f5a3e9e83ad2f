package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/logger"
	"github.com/tressahealth/moneyback/internal/service"
)

type EligibilityHandler struct {
	eligibilityService   service.EligibilityService
	kitValidationService service.KitValidationService
	log                  *logger.Logger
}

func NewEligibilityHandler(
	eligibilityService service.EligibilityService,
	kitValidationService service.KitValidationService,
	log *logger.Logger,
) *EligibilityHandler {
	return &EligibilityHandler{
		eligibilityService:   eligibilityService,
		kitValidationService: kitValidationService,
		log:                  log,
	}
}

// @Summary Check money-back eligibility
// @Description Evaluate all money-back eligibility checks for a customer
// @Tags Eligibility
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.EligibilityResult
// @Failure 500 {object} ierr.ErrorResponse
// @Router /customers/{id}/eligibility [get]
func (h *EligibilityHandler) CheckEligibility(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.eligibilityService.CheckEligibility(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to check eligibility", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get refund calculation breakdown
// @Description Get the delivered orders, prior refunds and net refund amount for a customer
// @Tags Eligibility
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.RefundCalculationBreakdown
// @Failure 500 {object} ierr.ErrorResponse
// @Router /customers/{id}/refund-breakdown [get]
func (h *EligibilityHandler) GetRefundBreakdown(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.eligibilityService.GetRefundCalculationBreakdown(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to get refund breakdown", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List undelivered orders
// @Description List a customer's undelivered orders with derived kit numbers
// @Tags Eligibility
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {array} dto.UndeliveredOrder
// @Failure 500 {object} ierr.ErrorResponse
// @Router /customers/{id}/undelivered-orders [get]
func (h *EligibilityHandler) GetUndeliveredOrders(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.eligibilityService.GetUndeliveredOrders(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to get undelivered orders", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Validate kit ordering
// @Description Partition a customer's delivered kits into genuine and invalid by ordering cadence
// @Tags Eligibility
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.KitOrderingValidation
// @Failure 500 {object} ierr.ErrorResponse
// @Router /customers/{id}/kit-validation [get]
func (h *EligibilityHandler) ValidateKitOrdering(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.kitValidationService.ValidateKitOrderingForCustomer(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to validate kit ordering", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
