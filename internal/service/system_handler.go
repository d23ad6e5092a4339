package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gst_billing/internal/conf"
	"gst_billing/internal/logic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SystemHandler serves health and storage diagnostics.
type SystemHandler struct {
	cloudinary *conf.CloudinaryConfig
	qr         logic.QRRenderer
	qrTimeout  time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

func NewSystemHandler(cloudinary *conf.CloudinaryConfig, qr logic.QRRenderer, settings logic.BillSettings, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{
		cloudinary: cloudinary,
		qr:         qr,
		qrTimeout:  settings.QRTimeout,
		logger:     logger.Named("SystemHandler"),
		now:        time.Now,
	}
}

type CloudinaryConfigResponse struct {
	Configured bool    `json:"configured"`
	CloudName  *string `json:"cloudName"`
}

type TestQRResponse struct {
	Success   bool   `json:"success"`
	QRCodeURL string `json:"qrCodeUrl,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CloudinaryConfig reports whether QR uploads can work. Secrets are never returned.
func (h *SystemHandler) CloudinaryConfig(c *gin.Context) {
	resp := CloudinaryConfigResponse{Configured: h.cloudinary.Configured()}
	if h.cloudinary != nil && h.cloudinary.CloudName != "" {
		name := h.cloudinary.CloudName
		resp.CloudName = &name
	}
	c.JSON(http.StatusOK, resp)
}

// TestQR renders and uploads a throwaway QR code.
func (h *SystemHandler) TestQR(c *gin.Context) {
	payload, err := json.Marshal(map[string]string{
		"test":      "This is a test QR code",
		"timestamp": h.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		h.logger.Error("TestQR: failed to build payload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, TestQRResponse{Error: "Failed to generate test QR code: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	if h.qrTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.qrTimeout)
		defer cancel()
	}

	url, err := h.qr.Render(ctx, string(payload))
	if err != nil {
		h.logger.Warn("TestQR: render failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, TestQRResponse{Error: "Failed to generate test QR code: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, TestQRResponse{
		Success:   true,
		QRCodeURL: url,
		Message:   "Test QR code generated successfully",
	})
}
