package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse represents the standard API response envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PaginatedResponse represents a paginated API response
type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PerPage    int         `json:"per_page"`
	TotalPages int64       `json:"total_pages"`
}

// SuccessResponse sends a 200 response with the given message and data
func SuccessResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreatedResponse sends a 201 response with the given message and data
func CreatedResponse(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// PaginatedSuccessResponse sends a 200 response with pagination metadata
func PaginatedSuccessResponse(c *gin.Context, message string, data interface{}, total int64, page, perPage int) {
	totalPages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		totalPages++
	}
	c.JSON(http.StatusOK, PaginatedResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	})
}

// BadRequestResponse sends a 400 response
func BadRequestResponse(c *gin.Context, message string, err error) {
	errorResponse(c, http.StatusBadRequest, message, "", err)
}

// NotFoundResponse sends a 404 response
func NotFoundResponse(c *gin.Context, message string, err error) {
	errorResponse(c, http.StatusNotFound, message, "", err)
}

// ConflictResponse sends a 409 response with a stable error code
func ConflictResponse(c *gin.Context, message, code string, err error) {
	errorResponse(c, http.StatusConflict, message, code, err)
}

// UnprocessableEntityResponse sends a 422 response with a stable error code
func UnprocessableEntityResponse(c *gin.Context, message, code string, err error) {
	errorResponse(c, http.StatusUnprocessableEntity, message, code, err)
}

// InternalServerErrorResponse sends a 500 response
func InternalServerErrorResponse(c *gin.Context, message string, err error) {
	errorResponse(c, http.StatusInternalServerError, message, "", err)
}

func errorResponse(c *gin.Context, status int, message, code string, err error) {
	resp := APIResponse{
		Success: false,
		Message: message,
		Code:    code,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}
