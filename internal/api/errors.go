package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smartgrid_simulator/internal/config"
)

// Error codes returned in ErrorDetail.Code.
const (
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInvalidScenario = "INVALID_SCENARIO"
	CodeCanceled        = "CANCELED"
	CodeInternal        = "INTERNAL_ERROR"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorHandler recovers panics as a 500 INTERNAL_ERROR response.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		msg := "An unexpected error occurred"
		if s, ok := recovered.(string); ok {
			msg = s
		}
		abort(c, http.StatusInternalServerError, CodeInternal, msg)
	})
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}

// fail maps a service error to a status and code.
func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, config.ErrInvalidScenario):
		abort(c, http.StatusBadRequest, CodeInvalidScenario, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		abort(c, http.StatusServiceUnavailable, CodeCanceled, err.Error())
	default:
		_ = c.Error(err)
		abort(c, http.StatusInternalServerError, CodeInternal, err.Error())
	}
}
