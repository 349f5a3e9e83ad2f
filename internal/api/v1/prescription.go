package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tressahealth/moneyback/internal/api/dto"
	ierr "github.com/tressahealth/moneyback/internal/errors"
	"github.com/tressahealth/moneyback/internal/logger"
	"github.com/tressahealth/moneyback/internal/service"
)

type PrescriptionHandler struct {
	kitManagementService service.KitManagementService
	trackerService       service.PrescriptionTrackerService
	eligibilityService   service.EligibilityService
	log                  *logger.Logger
}

func NewPrescriptionHandler(
	kitManagementService service.KitManagementService,
	trackerService service.PrescriptionTrackerService,
	eligibilityService service.EligibilityService,
	log *logger.Logger,
) *PrescriptionHandler {
	return &PrescriptionHandler{
		kitManagementService: kitManagementService,
		trackerService:       trackerService,
		eligibilityService:   eligibilityService,
		log:                  log,
	}
}

// @Summary Create a prescription with a kit
// @Description Create a prescription with a generated kit ID, deactivating any prior active prescription
// @Tags Prescriptions
// @Accept json
// @Produce json
// @Param prescription body dto.CreatePrescriptionRequest true "Prescription"
// @Success 201 {object} dto.PrescriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /prescriptions [post]
func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	var req dto.CreatePrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.kitManagementService.CreatePrescriptionWithKit(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to create prescription", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Change the kit on a prescription
// @Description Swap the plan on a prescription that has no deliveries yet
// @Tags Prescriptions
// @Accept json
// @Produce json
// @Param id path string true "Prescription ID"
// @Param change body dto.ChangeKitRequest true "Kit change"
// @Success 200 {object} dto.PrescriptionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /prescriptions/{id}/change-kit [post]
func (h *PrescriptionHandler) ChangeKit(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Prescription ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	var req dto.ChangeKitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.kitManagementService.ChangeKit(c.Request.Context(), id, &req)
	if err != nil {
		h.log.Error("Failed to change kit", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a prescription timeline
// @Description Get the treatment progression summary for a prescription
// @Tags Prescriptions
// @Produce json
// @Param id path string true "Prescription ID"
// @Success 200 {object} dto.PrescriptionTimeline
// @Failure 404 {object} ierr.ErrorResponse
// @Router /prescriptions/{id}/timeline [get]
func (h *PrescriptionHandler) GetTimeline(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Prescription ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.trackerService.GetPrescriptionTimeline(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to get prescription timeline", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Refresh a prescription's lifecycle dates
// @Description Recompute plan start and completion dates from the delivery history
// @Tags Prescriptions
// @Produce json
// @Param id path string true "Prescription ID"
// @Success 200 {object} dto.PrescriptionTimeline
// @Failure 404 {object} ierr.ErrorResponse
// @Router /prescriptions/{id}/refresh-dates [post]
func (h *PrescriptionHandler) RefreshDates(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Prescription ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.trackerService.UpdatePrescriptionDates(c.Request.Context(), id); err != nil {
		h.log.Error("Failed to update prescription dates", "error", err)
		c.Error(err)
		return
	}

	resp, err := h.trackerService.GetPrescriptionTimeline(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to get prescription timeline", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Check kit completeness
// @Description Compare a kit's required prescribed products against the delivered products
// @Tags Prescriptions
// @Produce json
// @Param id path string true "Prescription ID"
// @Param kit path int true "Kit number"
// @Success 200 {object} dto.KitCompletenessResult
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /prescriptions/{id}/kits/{kit}/completeness [get]
func (h *PrescriptionHandler) CheckKitCompleteness(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Prescription ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	kitNumber, err := strconv.Atoi(c.Param("kit"))
	if err != nil || kitNumber < 1 {
		c.Error(ierr.NewError("invalid kit number").
			WithHint("Kit number must be a positive integer").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.eligibilityService.CheckKitCompleteness(c.Request.Context(), id, kitNumber)
	if err != nil {
		h.log.Error("Failed to check kit completeness", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a prescription by kit ID
// @Description Resolve a human-facing kit ID to its prescription
// @Tags Prescriptions
// @Produce json
// @Param kitId path string true "Kit ID"
// @Success 200 {object} dto.PrescriptionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /kits/{kitId}/prescription [get]
func (h *PrescriptionHandler) GetPrescriptionByKitID(c *gin.Context) {
	kitID := c.Param("kitId")
	if kitID == "" {
		c.Error(ierr.NewError("kit id is required").
			WithHint("Kit ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.kitManagementService.GetPrescriptionByKitID(c.Request.Context(), kitID)
	if err != nil {
		h.log.Error("Failed to get prescription by kit ID", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get a customer's kit info
// @Description Get the reporting view of a customer's active kit plan
// @Tags Prescriptions
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.CustomerKitInfo
// @Failure 404 {object} ierr.ErrorResponse
// @Router /customers/{id}/kit-info [get]
func (h *PrescriptionHandler) GetCustomerKitInfo(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("id is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.kitManagementService.GetCustomerKitInfo(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to get customer kit info", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
