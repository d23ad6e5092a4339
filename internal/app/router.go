package app

import (
	"net/http"
	"time"

	"gst_billing/internal/limiter"
	http_middleware "gst_billing/internal/middleware/http"
	"gst_billing/internal/provider"
	"gst_billing/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Rate limit policy names, configured under rate_limiter.policies.
const (
	PolicyCreateBill = "create_bill"
	PolicyVerifyBill = "verify_bill"
)

// NewRouter builds the gin engine with every route under /api.
func NewRouter(
	mode provider.AppMode,
	logger *zap.Logger,
	limiterManager *limiter.Manager,
	billHandler *service.BillHandler,
	productHandler *service.ProductHandler,
	systemHandler *service.SystemHandler,
) *gin.Engine {
	if mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		http_middleware.Recovery(logger),
		http_middleware.RequestLogger(logger),
		cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", http_middleware.ActorHeader},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
		http_middleware.Actor(),
	)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, service.ErrorResponse{Error: "Not found"})
	})

	router.GET("/healthz", systemHandler.Health)

	api := router.Group("/api")
	{
		bills := api.Group("/bills")
		bills.GET("", billHandler.ListBills)
		bills.POST("", http_middleware.RateLimit(limiterManager, PolicyCreateBill, logger), billHandler.CreateBill)
		bills.GET("/:id", billHandler.GetBill)
		bills.GET("/:id/download", billHandler.DownloadBill)

		products := api.Group("/products")
		products.GET("", productHandler.ListProducts)
		products.POST("", productHandler.CreateProduct)
		products.GET("/:id", productHandler.GetProduct)
		products.PUT("/:id", productHandler.UpdateProduct)
		products.DELETE("/:id", productHandler.DeleteProduct)

		api.POST("/verify-bill", http_middleware.RateLimit(limiterManager, PolicyVerifyBill, logger), billHandler.VerifyBill)
		api.GET("/cloudinary-config", systemHandler.CloudinaryConfig)
		api.GET("/test-qr", systemHandler.TestQR)
	}

	return router
}
