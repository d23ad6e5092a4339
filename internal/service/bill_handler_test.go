package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"gst_billing/internal/constants"
	"gst_billing/internal/dto"
	"gst_billing/internal/logic"
	http_middleware "gst_billing/internal/middleware/http"
	"gst_billing/internal/models"
	"gst_billing/pkg/pagination"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newBillRouter(m *mockBillLogic) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBillHandler(m, zap.NewNop())

	router := gin.New()
	router.Use(http_middleware.Actor())
	router.GET("/api/bills", h.ListBills)
	router.POST("/api/bills", h.CreateBill)
	router.GET("/api/bills/:id", h.GetBill)
	router.GET("/api/bills/:id/download", h.DownloadBill)
	router.POST("/api/verify-bill", h.VerifyBill)
	return router
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestCreateBill(t *testing.T) {
	productID := primitive.NewObjectID()
	validBody := fmt.Sprintf(`{
		"buyer": {"name": "XYZ Traders", "gstNumber": "29ABCDE1234F1Z5", "address": "Bengaluru", "stateCode": "29"},
		"items": [
			{"name": "Widget", "hsnCode": "8471", "quantity": 2, "rate": "500", "gstPercentage": 18},
			{"productId": %q, "quantity": 1}
		],
		"totalAmount": 1
	}`, productID.Hex())

	t.Run("Valid Request", func(t *testing.T) {
		m := new(mockBillLogic)
		billID := primitive.NewObjectID()
		m.On("IssueBill", mock.Anything, mock.MatchedBy(func(d *dto.CreateBillRequest) bool {
			items := d.GetItems()
			return d.GetBuyer().Name == "XYZ Traders" &&
				d.GetBuyer().StateCode == "29" &&
				d.GetActor() == "clerk-1" &&
				len(items) == 2 &&
				items[0].ProductID == nil &&
				items[0].Rate.Valid && items[0].Rate.Decimal.String() == "500" &&
				items[0].GSTPercentage.Decimal.String() == "18" &&
				items[1].ProductID != nil && *items[1].ProductID == productID &&
				!items[1].Rate.Valid
		})).Return(&dto.CreateBillResult{
			BillID:        billID,
			InvoiceNumber: "INV-2024-07-001",
			QRCodeURL:     "https://res.cloudinary.com/demo/qr.png",
		}, nil).Once()

		router := newBillRouter(m)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/bills", bytes.NewBufferString(validBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(http_middleware.ActorHeader, "clerk-1")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp CreateBillResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Bill created successfully", resp.Message)
		assert.Equal(t, billID.Hex(), resp.ID)
		assert.Equal(t, "INV-2024-07-001", resp.InvoiceNumber)
		assert.Equal(t, "https://res.cloudinary.com/demo/qr.png", resp.QRCodeURL)
		assert.False(t, resp.MirrorWriteFailed)
		m.AssertExpectations(t)
	})

	t.Run("Mirror failure is still a success", func(t *testing.T) {
		m := new(mockBillLogic)
		m.On("IssueBill", mock.Anything, mock.Anything).Return(&dto.CreateBillResult{
			BillID:            primitive.NewObjectID(),
			InvoiceNumber:     "INV-2024-07-002",
			QRCodeURL:         "/placeholder.svg?height=200&width=200",
			MirrorWriteFailed: true,
		}, nil).Once()

		w := doJSON(newBillRouter(m), http.MethodPost, "/api/bills", validBody)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"mirrorWriteFailed":true`)
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		m := new(mockBillLogic)
		w := doJSON(newBillRouter(m), http.MethodPost, "/api/bills", `{"buyer":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"error"`)
		m.AssertNotCalled(t, "IssueBill", mock.Anything, mock.Anything)
	})

	t.Run("Invalid product id", func(t *testing.T) {
		m := new(mockBillLogic)
		w := doJSON(newBillRouter(m), http.MethodPost, "/api/bills",
			`{"buyer":{"name":"A"},"items":[{"productId":"nope","quantity":1}]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"items[0]: invalid productId"}`, w.Body.String())
	})

	t.Run("Validation failure", func(t *testing.T) {
		m := new(mockBillLogic)
		m.On("IssueBill", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: at least one item is required", logic.ErrInvalidRequest)).Once()

		w := doJSON(newBillRouter(m), http.MethodPost, "/api/bills", `{"buyer":{"name":"A"},"items":[]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"invalid request: at least one item is required"}`, w.Body.String())
	})

	t.Run("Unknown catalog product", func(t *testing.T) {
		m := new(mockBillLogic)
		m.On("IssueBill", mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: item 0: %w", logic.ErrInvalidRequest, logic.ErrProductNotFound)).Once()

		w := doJSON(newBillRouter(m), http.MethodPost, "/api/bills", validBody)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Primary write failure", func(t *testing.T) {
		m := new(mockBillLogic)
		m.On("IssueBill", mock.Anything, mock.Anything).
			Return(nil, errors.New("failed to create bill: connection reset")).Once()

		w := doJSON(newBillRouter(m), http.MethodPost, "/api/bills", validBody)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to create bill: failed to create bill: connection reset"}`, w.Body.String())
	})
}

func TestListBills(t *testing.T) {
	t.Run("All bills", func(t *testing.T) {
		m := new(mockBillLogic)
		bills := []*models.Bill{
			{ID: primitive.NewObjectID(), BillDetails: models.BillDetails{InvoiceNumber: "INV-2024-07-002"}},
			{ID: primitive.NewObjectID(), BillDetails: models.BillDetails{InvoiceNumber: "INV-2024-07-001"}},
		}
		m.On("ListBills", mock.Anything, (*pagination.PageRequest)(nil)).Return(bills, nil).Once()

		w := doJSON(newBillRouter(m), http.MethodGet, "/api/bills", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "INV-2024-07-002", got[0]["invoiceNumber"])
	})

	t.Run("Paged", func(t *testing.T) {
		m := new(mockBillLogic)
		m.On("ListBills", mock.Anything, pagination.NewPageRequest(2, 5)).Return(nil, nil).Once()

		w := doJSON(newBillRouter(m), http.MethodGet, "/api/bills?page=2&page_size=5", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
		m.AssertExpectations(t)
	})

	t.Run("Bad page", func(t *testing.T) {
		w := doJSON(newBillRouter(new(mockBillLogic)), http.MethodGet, "/api/bills?page=x", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Store failure", func(t *testing.T) {
		m := new(mockBillLogic)
		m.On("ListBills", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

		w := doJSON(newBillRouter(m), http.MethodGet, "/api/bills", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetBill(t *testing.T) {
	id := primitive.NewObjectID()

	t.Run("Found", func(t *testing.T) {
		m := new(mockBillLogic)
		m.On("GetBill", mock.Anything, id).
			Return(&models.Bill{ID: id, BillDetails: models.BillDetails{InvoiceNumber: "INV-2024-07-001"}}, nil)

		w := doJSON(newBillRouter(m), http.MethodGet, "/api/bills/"+id.Hex(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"invoiceNumber":"INV-2024-07-001"`)
		assert.Contains(t, w.Body.String(), id.Hex())
	})

	t.Run("Invalid id", func(t *testing.T) {
		w := doJSON(newBillRouter(new(mockBillLogic)), http.MethodGet, "/api/bills/123", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid bill ID format"}`, w.Body.String())
	})

	t.Run("Missing", func(t *testing.T) {
		m := new(mockBillLogic)
		m.On("GetBill", mock.Anything, id).Return(nil, logic.ErrBillNotFound)

		w := doJSON(newBillRouter(m), http.MethodGet, "/api/bills/"+id.Hex(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"Bill not found"}`, w.Body.String())
	})
}

func TestDownloadBill(t *testing.T) {
	id := primitive.NewObjectID()
	m := new(mockBillLogic)
	m.On("GetBill", mock.Anything, id).
		Return(&models.Bill{ID: id, BillDetails: models.BillDetails{InvoiceNumber: "INV-2024-07-009"}}, nil)
	router := newBillRouter(m)

	w := doJSON(router, http.MethodGet, "/api/bills/"+id.Hex()+"/download", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "Bill INV-2024-07-009 would be downloaded as PDF", w.Body.String())

	w = doJSON(router, http.MethodGet, "/api/bills/zz/download", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyBill(t *testing.T) {
	cases := []struct {
		name   string
		result dto.VerificationResult
		want   string
	}{
		{
			name:   "Verified",
			result: dto.VerificationResult{Verified: true, Reason: constants.VerificationVerified},
			want:   `{"verified":true,"reason":"Verified","message":"Bill verified successfully"}`,
		},
		{
			name:   "Invalid token",
			result: dto.VerificationResult{Reason: constants.VerificationInvalidToken},
			want:   `{"verified":false,"reason":"InvalidToken","message":"Invalid QR code"}`,
		},
		{
			name:   "Not found",
			result: dto.VerificationResult{Reason: constants.VerificationNotFound},
			want:   `{"verified":false,"reason":"NotFound","message":"Bill not found in one or both databases"}`,
		},
		{
			name:   "Mismatch",
			result: dto.VerificationResult{Reason: constants.VerificationMismatch},
			want:   `{"verified":false,"reason":"Mismatch","message":"Bill details do not match"}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := new(mockBillLogic)
			result := tc.result
			m.On("VerifyBill", mock.Anything, "tok").Return(&result, nil).Once()

			w := doJSON(newBillRouter(m), http.MethodPost, "/api/verify-bill", VerifyBillRequest{Token: "tok"})

			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tc.want, w.Body.String())
		})
	}

	t.Run("Unreadable body", func(t *testing.T) {
		m := new(mockBillLogic)
		w := doJSON(newBillRouter(m), http.MethodPost, "/api/verify-bill", "not json")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		m.AssertNotCalled(t, "VerifyBill", mock.Anything, mock.Anything)
	})

	t.Run("Store failure", func(t *testing.T) {
		m := new(mockBillLogic)
		m.On("VerifyBill", mock.Anything, "tok").Return(nil, errors.New("mirror unavailable")).Once()

		w := doJSON(newBillRouter(m), http.MethodPost, "/api/verify-bill", VerifyBillRequest{Token: "tok"})

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
