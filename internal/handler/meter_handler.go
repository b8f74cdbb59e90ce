package handler

import (
	"strconv"
	"time"

	"dormitory-be-svc/internal/models"
	"dormitory-be-svc/internal/service"
	"dormitory-be-svc/pkg/logger"
	"dormitory-be-svc/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RecordReadingRequest represents a meter reading submission
type RecordReadingRequest struct {
	RoomID         uint            `json:"room_id" binding:"required"`
	Type           string          `json:"type" binding:"required"`
	CurrentReading decimal.Decimal `json:"current_reading" binding:"required"`
	ReadingDate    *time.Time      `json:"reading_date,omitempty"`
}

// MeterHandler handles meter reading HTTP requests
type MeterHandler struct {
	meterService service.MeterService
	logger       *logger.Logger
}

// NewMeterHandler creates a new MeterHandler instance
func NewMeterHandler(meterService service.MeterService, logger *logger.Logger) *MeterHandler {
	return &MeterHandler{
		meterService: meterService,
		logger:       logger,
	}
}

// RecordReading records a meter reading for a room
// @Summary Record a meter reading
// @Description Record a meter reading for a room. Readings below the billed baseline are rejected; re-recording before billing replaces the pending reading. Anomaly alerts are returned alongside the saved reading.
// @Tags meter-readings
// @Accept json
// @Produce json
// @Param request body RecordReadingRequest true "Meter reading submission"
// @Success 201 {object} utils.APIResponse{data=service.RecordReadingResult} "Saved reading with any alerts"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Room not found"
// @Failure 422 {object} utils.APIResponse "Non-monotonic reading"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/meter-readings [post]
func (h *MeterHandler) RecordReading(c *gin.Context) {
	var req RecordReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid request body")
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	readingDate := time.Now()
	if req.ReadingDate != nil {
		readingDate = *req.ReadingDate
	}

	result, err := h.meterService.RecordReading(service.RecordReadingInput{
		RoomID:         req.RoomID,
		Type:           models.MeterType(req.Type),
		CurrentReading: req.CurrentReading,
		ReadingDate:    readingDate,
	})
	if err != nil {
		respondServiceError(c, h.logger, "Failed to record meter reading", err)
		return
	}

	utils.CreatedResponse(c, "Meter reading recorded successfully", result)
}

// ListReadingsByRoom retrieves the meter readings recorded for a room
// @Summary List meter readings for a room
// @Description List readings for one room, newest first, optionally filtered by meter type.
// @Tags meter-readings
// @Produce json
// @Param room_id path int true "Room ID"
// @Param type query string false "Meter type (electric or water)"
// @Success 200 {object} utils.APIResponse{data=[]models.MeterReading} "Readings retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid room ID"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/meter-readings/room/{room_id} [get]
func (h *MeterHandler) ListReadingsByRoom(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("room_id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Room ID must be numeric", err)
		return
	}

	var meterType *models.MeterType
	if v := c.Query("type"); v != "" {
		mt := models.MeterType(v)
		if !mt.IsValid() {
			utils.BadRequestResponse(c, "Meter type must be electric or water", nil)
			return
		}
		meterType = &mt
	}

	readings, err := h.meterService.ListReadingsByRoom(uint(id), meterType)
	if err != nil {
		respondServiceError(c, h.logger, "Failed to list meter readings", err)
		return
	}

	utils.SuccessResponse(c, "Meter readings retrieved successfully", readings)
}
