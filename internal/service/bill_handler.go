package service

import (
	"fmt"
	"net/http"
	"time"

	"gst_billing/internal/dto"
	"gst_billing/internal/helper"
	"gst_billing/internal/logic"
	http_middleware "gst_billing/internal/middleware/http"
	"gst_billing/internal/models"
	"gst_billing/pkg/pagination"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// BillHandler serves the bill issuance, lookup and verification routes.
type BillHandler struct {
	billLogic logic.BillLogic
	logger    *zap.Logger
}

func NewBillHandler(billLogic logic.BillLogic, logger *zap.Logger) *BillHandler {
	return &BillHandler{
		billLogic: billLogic,
		logger:    logger.Named("BillHandler"),
	}
}

// LineItemRequest is one requested line. Rate and gstPercentage may be omitted
// when productId points at a catalog product.
type LineItemRequest struct {
	ProductID     string              `json:"productId"`
	Name          string              `json:"name"`
	HSNCode       string              `json:"hsnCode"`
	Quantity      int                 `json:"quantity"`
	Rate          decimal.NullDecimal `json:"rate"`
	GSTPercentage decimal.NullDecimal `json:"gstPercentage"`
}

// CreateBillRequest is the body of POST /api/bills. Totals sent by the client
// are ignored; they are always computed server side.
type CreateBillRequest struct {
	Buyer   models.Party      `json:"buyer"`
	Items   []LineItemRequest `json:"items"`
	DueDate *time.Time        `json:"dueDate"`
}

type CreateBillResponse struct {
	Message           string `json:"message"`
	ID                string `json:"id"`
	InvoiceNumber     string `json:"invoiceNumber"`
	QRCodeURL         string `json:"qrCodeUrl"`
	MirrorWriteFailed bool   `json:"mirrorWriteFailed"`
}

type VerifyBillRequest struct {
	Token string `json:"token"`
}

type VerifyBillResponse struct {
	Verified bool   `json:"verified"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
}

func (h *BillHandler) ListBills(c *gin.Context) {
	pageReq, err := pageRequestFromQuery(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}

	bills, err := h.billLogic.ListBills(c.Request.Context(), pageReq)
	if err != nil {
		writeLogicError(c, h.logger, "ListBills", err, "Failed to fetch bills")
		return
	}
	if bills == nil {
		bills = []*models.Bill{}
	}
	c.JSON(http.StatusOK, bills)
}

func (h *BillHandler) CreateBill(c *gin.Context) {
	// 1. Bind the body.
	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	// 2. Convert to the logic layer request.
	items := make([]dto.LineItemInput, 0, len(req.Items))
	for i, it := range req.Items {
		in := dto.LineItemInput{
			Name:          it.Name,
			HSNCode:       it.HSNCode,
			Quantity:      it.Quantity,
			Rate:          it.Rate,
			GSTPercentage: it.GSTPercentage,
		}
		if it.ProductID != "" {
			id, ok := helper.ParseObjectID(it.ProductID)
			if !ok {
				writeError(c, http.StatusBadRequest, fmt.Sprintf("items[%d]: invalid productId", i))
				return
			}
			in.ProductID = &id
		}
		items = append(items, in)
	}

	// 3. Issue.
	result, err := h.billLogic.IssueBill(c.Request.Context(),
		dto.NewCreateBillRequest(req.Buyer, items, req.DueDate, http_middleware.ActorFrom(c)))
	if err != nil {
		writeLogicError(c, h.logger, "CreateBill", err, "Failed to create bill")
		return
	}

	c.JSON(http.StatusOK, CreateBillResponse{
		Message:           "Bill created successfully",
		ID:                result.BillID.Hex(),
		InvoiceNumber:     result.InvoiceNumber,
		QRCodeURL:         result.QRCodeURL,
		MirrorWriteFailed: result.MirrorWriteFailed,
	})
}

func (h *BillHandler) GetBill(c *gin.Context) {
	bill, ok := h.loadBill(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, bill)
}

// DownloadBill is a placeholder until PDF rendering exists.
func (h *BillHandler) DownloadBill(c *gin.Context) {
	bill, ok := h.loadBill(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, "Bill %s would be downloaded as PDF", bill.InvoiceNumber)
}

// VerifyBill always answers 200 with the outcome once the body is readable.
func (h *BillHandler) VerifyBill(c *gin.Context) {
	var req VerifyBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.billLogic.VerifyBill(c.Request.Context(), req.Token)
	if err != nil {
		writeLogicError(c, h.logger, "VerifyBill", err, "Failed to verify bill")
		return
	}

	c.JSON(http.StatusOK, VerifyBillResponse{
		Verified: result.Verified,
		Reason:   result.Reason.String(),
		Message:  result.Message(),
	})
}

func (h *BillHandler) loadBill(c *gin.Context) (*models.Bill, bool) {
	id, ok := parseIDParam(c)
	if !ok {
		writeError(c, http.StatusBadRequest, "Invalid bill ID format")
		return nil, false
	}

	bill, err := h.billLogic.GetBill(c.Request.Context(), id)
	if err != nil {
		writeLogicError(c, h.logger, "GetBill", err, "Failed to fetch bill")
		return nil, false
	}
	return bill, true
}

func parseIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	return helper.ParseObjectID(c.Param("id"))
}

// pageRequestFromQuery returns nil when neither page nor page_size is given,
// which lists everything.
func pageRequestFromQuery(c *gin.Context) (*pagination.PageRequest, error) {
	return pagination.Parse(c.Query("page"), c.Query("page_size"))
}
