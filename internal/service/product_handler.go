package service

import (
	"net/http"

	"gst_billing/internal/dto"
	"gst_billing/internal/logic"
	http_middleware "gst_billing/internal/middleware/http"
	"gst_billing/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductHandler struct {
	productLogic logic.ProductLogic
	logger       *zap.Logger
}

func NewProductHandler(productLogic logic.ProductLogic, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productLogic: productLogic,
		logger:       logger.Named("ProductHandler"),
	}
}

type CreateProductRequest struct {
	Name          string          `json:"name"`
	HSNCode       string          `json:"hsnCode"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	CostPrice     decimal.Decimal `json:"costPrice"`
	Quantity      int             `json:"quantity"`
	GSTPercentage decimal.Decimal `json:"gstPercentage"`
	Barcode       string          `json:"barcode"`
}

// UpdateProductRequest only changes the fields present in the body.
type UpdateProductRequest struct {
	Name          *string             `json:"name"`
	HSNCode       *string             `json:"hsnCode"`
	SellingPrice  decimal.NullDecimal `json:"sellingPrice"`
	CostPrice     decimal.NullDecimal `json:"costPrice"`
	Quantity      *int                `json:"quantity"`
	GSTPercentage decimal.NullDecimal `json:"gstPercentage"`
	Barcode       *string             `json:"barcode"`
}

type CreateProductResponse struct {
	Message string          `json:"message"`
	ID      string          `json:"id"`
	Product *models.Product `json:"product"`
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	pageReq, err := pageRequestFromQuery(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	products, err := h.productLogic.ListProducts(c.Request.Context(), pageReq)
	if err != nil {
		writeLogicError(c, h.logger, "ListProducts", err, "Failed to fetch products")
		return
	}
	if products == nil {
		products = []*models.Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.productLogic.CreateProduct(c.Request.Context(), &dto.CreateProductRequest{
		Name:          req.Name,
		HSNCode:       req.HSNCode,
		SellingPrice:  req.SellingPrice,
		CostPrice:     req.CostPrice,
		Quantity:      req.Quantity,
		GSTPercentage: req.GSTPercentage,
		Barcode:       req.Barcode,
		Actor:         http_middleware.ActorFrom(c),
	})
	if err != nil {
		writeLogicError(c, h.logger, "CreateProduct", err, "Failed to add product")
		return
	}

	c.JSON(http.StatusOK, CreateProductResponse{
		Message: "Product added successfully",
		ID:      p.ID.Hex(),
		Product: p,
	})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		writeError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	p, err := h.productLogic.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeLogicError(c, h.logger, "GetProduct", err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		writeError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	_, err := h.productLogic.UpdateProduct(c.Request.Context(), id, &dto.UpdateProductRequest{
		Name:          req.Name,
		HSNCode:       req.HSNCode,
		SellingPrice:  req.SellingPrice,
		CostPrice:     req.CostPrice,
		Quantity:      req.Quantity,
		GSTPercentage: req.GSTPercentage,
		Barcode:       req.Barcode,
		Actor:         http_middleware.ActorFrom(c),
	})
	if err != nil {
		writeLogicError(c, h.logger, "UpdateProduct", err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Product updated successfully"})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		writeError(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	if err := h.productLogic.DeleteProduct(c.Request.Context(), id, http_middleware.ActorFrom(c)); err != nil {
		writeLogicError(c, h.logger, "DeleteProduct", err, "Failed to delete product")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}
