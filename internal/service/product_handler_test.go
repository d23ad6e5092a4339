package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gst_billing/internal/dto"
	"gst_billing/internal/logic"
	http_middleware "gst_billing/internal/middleware/http"
	"gst_billing/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newProductRouter(m *mockProductLogic) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewProductHandler(m, zap.NewNop())

	router := gin.New()
	router.Use(http_middleware.Actor())
	router.GET("/api/products", h.ListProducts)
	router.POST("/api/products", h.CreateProduct)
	router.GET("/api/products/:id", h.GetProduct)
	router.PUT("/api/products/:id", h.UpdateProduct)
	router.DELETE("/api/products/:id", h.DeleteProduct)
	return router
}

func TestCreateProduct(t *testing.T) {
	t.Run("Valid Request", func(t *testing.T) {
		m := new(mockProductLogic)
		created := &models.Product{ID: primitive.NewObjectID(), Name: "Widget"}
		m.On("CreateProduct", mock.Anything, mock.MatchedBy(func(d *dto.CreateProductRequest) bool {
			return d.Name == "Widget" &&
				d.HSNCode == "8471" &&
				d.SellingPrice.String() == "499.99" &&
				d.CostPrice.String() == "350" &&
				d.GSTPercentage.String() == "18" &&
				d.Quantity == 12 &&
				d.Actor == models.SystemActor
		})).Return(created, nil).Once()

		w := doJSON(newProductRouter(m), http.MethodPost, "/api/products",
			`{"name":"Widget","hsnCode":"8471","sellingPrice":"499.99","costPrice":350,"quantity":12,"gstPercentage":18}`)

		require.Equal(t, http.StatusOK, w.Code)
		var resp CreateProductResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Product added successfully", resp.Message)
		assert.Equal(t, created.ID.Hex(), resp.ID)
		m.AssertExpectations(t)
	})

	t.Run("Malformed price", func(t *testing.T) {
		m := new(mockProductLogic)
		w := doJSON(newProductRouter(m), http.MethodPost, "/api/products", `{"name":"Widget","sellingPrice":"abc"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("Validation failure", func(t *testing.T) {
		m := new(mockProductLogic)
		m.On("CreateProduct", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: name is required", logic.ErrInvalidRequest)).Once()

		w := doJSON(newProductRouter(m), http.MethodPost, "/api/products", `{"name":" "}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid request: name is required"}`, w.Body.String())
	})
}

func TestProductByID(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("Get", func(t *testing.T) {
		m := new(mockProductLogic)
		m.On("GetProduct", mock.Anything, id).Return(&models.Product{ID: id, Name: "Widget"}, nil).Once()

		w := doJSON(newProductRouter(m), http.MethodGet, "/api/products/"+id.Hex(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"name":"Widget"`)
	})

	t.Run("Get missing", func(t *testing.T) {
		m := new(mockProductLogic)
		m.On("GetProduct", mock.Anything, id).Return(nil, logic.ErrProductNotFound).Once()

		w := doJSON(newProductRouter(m), http.MethodGet, "/api/products/"+id.Hex(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Product not found"}`, w.Body.String())
	})

	t.Run("Invalid id", func(t *testing.T) {
		router := newProductRouter(new(mockProductLogic))
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			w := doJSON(router, method, "/api/products/not-an-id", `{}`)
			assert.Equal(t, http.StatusBadRequest, w.Code, method)
		}
	})

	t.Run("Partial update", func(t *testing.T) {
		m := new(mockProductLogic)
		m.On("UpdateProduct", mock.Anything, id, mock.MatchedBy(func(d *dto.UpdateProductRequest) bool {
			return d.Name == nil &&
				d.Quantity != nil && *d.Quantity == 3 &&
				d.SellingPrice.Valid && d.SellingPrice.Decimal.String() == "10.5" &&
				!d.CostPrice.Valid &&
				d.Actor == "clerk-2"
		})).Return(&models.Product{ID: id}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPut, "/api/products/"+id.Hex(), strings.NewReader(`{"quantity":3,"sellingPrice":10.5}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(http_middleware.ActorHeader, "clerk-2")
		newProductRouter(m).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Product updated successfully"}`, w.Body.String())
		m.AssertExpectations(t)
	})

	t.Run("Update missing", func(t *testing.T) {
		m := new(mockProductLogic)
		m.On("UpdateProduct", mock.Anything, id, mock.Anything).Return(nil, logic.ErrProductNotFound).Once()

		w := doJSON(newProductRouter(m), http.MethodPut, "/api/products/"+id.Hex(), `{"name":"x"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		m := new(mockProductLogic)
		m.On("DeleteProduct", mock.Anything, id, models.SystemActor).Return(nil).Once()

		w := doJSON(newProductRouter(m), http.MethodDelete, "/api/products/"+id.Hex(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Product deleted successfully"}`, w.Body.String())
	})

	t.Run("Delete missing", func(t *testing.T) {
		m := new(mockProductLogic)
		m.On("DeleteProduct", mock.Anything, id, mock.Anything).Return(logic.ErrProductNotFound).Once()

		w := doJSON(newProductRouter(m), http.MethodDelete, "/api/products/"+id.Hex(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListProducts(t *testing.T) {
	m := new(mockProductLogic)
	m.On("ListProducts", mock.Anything, mock.Anything).Return(nil, errors.New("timeout")).Once()

	w := doJSON(newProductRouter(m), http.MethodGet, "/api/products", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch products")
}
