package handler

import (
	"strconv"

	"dormitory-be-svc/internal/service"
	"dormitory-be-svc/pkg/logger"
	"dormitory-be-svc/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RateConfigHandler handles rate configuration HTTP requests
type RateConfigHandler struct {
	rateConfigService service.RateConfigService
	logger            *logger.Logger
}

// NewRateConfigHandler creates a new RateConfigHandler instance
func NewRateConfigHandler(rateConfigService service.RateConfigService, logger *logger.Logger) *RateConfigHandler {
	return &RateConfigHandler{
		rateConfigService: rateConfigService,
		logger:            logger,
	}
}

// GetRateConfig resolves the active pricing configuration for a dormitory
// @Summary Get dormitory rate configuration
// @Description Get the active pricing configuration and room type catalog for a dormitory.
// @Tags rate-configs
// @Produce json
// @Param dormitory_id path int true "Dormitory ID"
// @Success 200 {object} utils.APIResponse{data=service.ResolvedRateConfig} "Rate configuration retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid dormitory ID"
// @Failure 422 {object} utils.APIResponse "No rate configuration for the dormitory"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/rate-configs/{dormitory_id} [get]
func (h *RateConfigHandler) GetRateConfig(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("dormitory_id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Dormitory ID must be numeric", err)
		return
	}

	resolved, err := h.rateConfigService.Resolve(uint(id))
	if err != nil {
		respondServiceError(c, h.logger, "Failed to resolve rate configuration", err)
		return
	}

	utils.SuccessResponse(c, "Rate configuration retrieved successfully", resolved)
}
