package service

import (
	"errors"
	"net/http"

	"gst_billing/internal/logic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges a write that returns nothing else.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeError(c *gin.Context, httpCode int, message string) {
	c.AbortWithStatusJSON(httpCode, ErrorResponse{Error: message})
}

// writeLogicError maps logic layer errors onto HTTP status codes. Validation
// messages are returned to the caller; internal failures are logged and
// reported with the generic fallback message.
func writeLogicError(c *gin.Context, logger *zap.Logger, op string, err error, fallback string) {
	switch {
	case errors.Is(err, logic.ErrInvalidRequest):
		logger.Warn(op+": invalid request", zap.Error(err))
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, logic.ErrBillNotFound):
		writeError(c, http.StatusNotFound, "Bill not found")
	case errors.Is(err, logic.ErrProductNotFound):
		writeError(c, http.StatusNotFound, "Product not found")
	default:
		logger.Error(op+": failed", zap.Error(err))
		_ = c.Error(err)
		writeError(c, http.StatusInternalServerError, fallback+": "+err.Error())
	}
}
