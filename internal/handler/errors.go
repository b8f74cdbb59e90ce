package handler

import (
	"errors"

	"dormitory-be-svc/internal/repository"
	"dormitory-be-svc/internal/service"
	"dormitory-be-svc/pkg/logger"
	"dormitory-be-svc/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondServiceError maps an engine error to the HTTP response: validation
// errors and duplicate periods are caller mistakes, configuration errors
// need an operator, exhausted write conflicts ask the caller to retry, and
// everything else is a 500.
func respondServiceError(c *gin.Context, log *logger.Logger, message string, err error) {
	code := service.ErrorCode(err)

	switch {
	case errors.Is(err, service.ErrDuplicateBillPeriod):
		utils.ConflictResponse(c, message, code, err)
	case service.IsValidationError(err):
		utils.UnprocessableEntityResponse(c, message, code, err)
	case service.IsConfigError(err):
		utils.UnprocessableEntityResponse(c, message, code, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.NotFoundResponse(c, message, err)
	case errors.Is(err, repository.ErrVersionConflict):
		utils.ConflictResponse(c, message, "WRITE_CONFLICT", err)
	default:
		log.WithError(err).Error(message)
		utils.InternalServerErrorResponse(c, message, err)
	}
}
