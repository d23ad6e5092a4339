package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"gst_billing/internal/conf"
	"gst_billing/internal/logic"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSystemRouter(cfg *conf.CloudinaryConfig, qr logic.QRRenderer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSystemHandler(cfg, qr, logic.BillSettings{QRTimeout: time.Second}, zap.NewNop())
	h.now = func() time.Time { return time.Date(2024, 7, 4, 10, 0, 0, 0, time.UTC) }

	router := gin.New()
	router.GET("/healthz", h.Health)
	router.GET("/api/cloudinary-config", h.CloudinaryConfig)
	router.GET("/api/test-qr", h.TestQR)
	return router
}

func TestCloudinaryConfig(t *testing.T) {
	t.Run("Configured", func(t *testing.T) {
		router := newSystemRouter(&conf.CloudinaryConfig{CloudName: "demo", APIKey: "k", APISecret: "s"}, new(mockQRRenderer))
		w := doJSON(router, http.MethodGet, "/api/cloudinary-config", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"configured":true,"cloudName":"demo"}`, w.Body.String())
	})

	t.Run("Missing secret", func(t *testing.T) {
		router := newSystemRouter(&conf.CloudinaryConfig{CloudName: "demo"}, new(mockQRRenderer))
		w := doJSON(router, http.MethodGet, "/api/cloudinary-config", nil)

		assert.JSONEq(t, `{"configured":false,"cloudName":"demo"}`, w.Body.String())
	})

	t.Run("Nothing set", func(t *testing.T) {
		router := newSystemRouter(&conf.CloudinaryConfig{}, new(mockQRRenderer))
		w := doJSON(router, http.MethodGet, "/api/cloudinary-config", nil)

		assert.JSONEq(t, `{"configured":false,"cloudName":null}`, w.Body.String())
	})
}

func TestTestQR(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		qr := new(mockQRRenderer)
		qr.On("Render", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		}), `{"test":"This is a test QR code","timestamp":"2024-07-04T10:00:00Z"}`).
			Return("https://res.cloudinary.com/demo/test.png", nil).Once()

		w := doJSON(newSystemRouter(&conf.CloudinaryConfig{}, qr), http.MethodGet, "/api/test-qr", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"qrCodeUrl":"https://res.cloudinary.com/demo/test.png","message":"Test QR code generated successfully"}`, w.Body.String())
		qr.AssertExpectations(t)
	})

	t.Run("Storage not configured", func(t *testing.T) {
		qr := new(mockQRRenderer)
		qr.On("Render", mock.Anything, mock.Anything).Return("", errors.New("object storage is not configured")).Once()

		w := doJSON(newSystemRouter(&conf.CloudinaryConfig{}, qr), http.MethodGet, "/api/test-qr", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Failed to generate test QR code: object storage is not configured"}`, w.Body.String())
	})
}

func TestHealth(t *testing.T) {
	w := doJSON(newSystemRouter(&conf.CloudinaryConfig{}, new(mockQRRenderer)), http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
