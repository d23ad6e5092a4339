package logic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gst_billing/internal/constants"
	"gst_billing/internal/dao/repository"
	"gst_billing/internal/db"
	"gst_billing/internal/dto"
	"gst_billing/internal/helper"
	"gst_billing/internal/models"
	"gst_billing/pkg/pagination"

	"github.com/google/wire"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// QRRenderer turns a payload into a hosted QR image URL.
type QRRenderer interface {
	Render(ctx context.Context, payload string) (string, error)
}

// BillSettings are the process-wide inputs to bill issuance and verification.
type BillSettings struct {
	Seller         models.Party
	PlaceholderURL string
	QRTimeout      time.Duration
	CompareClaims  bool
}

type BillLogic interface {
	IssueBill(ctx context.Context, d *dto.CreateBillRequest) (*dto.CreateBillResult, error)
	ListBills(ctx context.Context, pageReq *pagination.PageRequest) ([]*models.Bill, error)
	GetBill(ctx context.Context, id primitive.ObjectID) (*models.Bill, error)
	VerifyBill(ctx context.Context, token string) (*dto.VerificationResult, error)
	SyncMirror(ctx context.Context, limit int, minAge time.Duration) (int, error)
	ReconcileBill(ctx context.Context, invoiceNumber string) (bool, error)
}

var BillLogicProviderSet = wire.NewSet(NewBillLogic, wire.Bind(new(BillLogic), new(*billLogic)))

type billLogic struct {
	billRepo       repository.BillRepository
	mirrorRepo     repository.MirrorRepository
	sequenceRepo   repository.SequenceRepository
	productRepo    repository.ProductRepository
	auditLogRepo   repository.AuditLogRepository
	eventPublisher *BillEventPublisher
	tm             db.TransactionManager
	tokens         TokenIssuer
	qr             QRRenderer
	settings       BillSettings
	logger         *zap.Logger
	now            func() time.Time

	seedMu sync.Mutex
	seeded bool
}

func NewBillLogic(
	billRepo repository.BillRepository,
	mirrorRepo repository.MirrorRepository,
	sequenceRepo repository.SequenceRepository,
	productRepo repository.ProductRepository,
	auditLogRepo repository.AuditLogRepository,
	eventPublisher *BillEventPublisher,
	tm db.TransactionManager,
	tokens TokenIssuer,
	qr QRRenderer,
	settings BillSettings,
	logger *zap.Logger,
) *billLogic {
	return &billLogic{
		billRepo:       billRepo,
		mirrorRepo:     mirrorRepo,
		sequenceRepo:   sequenceRepo,
		productRepo:    productRepo,
		auditLogRepo:   auditLogRepo,
		eventPublisher: eventPublisher,
		tm:             tm,
		tokens:         tokens,
		qr:             qr,
		settings:       settings,
		logger:         logger.Named("BillLogic"),
		now:            time.Now,
	}
}

// IssueBill runs the issuance pipeline. Only validation, numbering, signing
// and the ledger write can fail the call; the QR image and the mirror copy
// degrade instead.
func (l *billLogic) IssueBill(ctx context.Context, d *dto.CreateBillRequest) (*dto.CreateBillResult, error) {
	// 1. Validate the request and resolve catalog products into line items.
	buyer := d.GetBuyer()
	if buyer.Name == "" {
		return nil, fmt.Errorf("%w: buyer name is required", ErrInvalidRequest)
	}
	if len(d.GetItems()) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrInvalidRequest)
	}
	lines, err := l.resolveItems(ctx, d.GetItems())
	if err != nil {
		return nil, err
	}

	// 2. Jurisdiction. A buyer without a state code is treated as local.
	seller := l.settings.Seller
	isIntraState := buyer.StateCode == "" || buyer.StateCode == seller.StateCode

	// 3. Taxes.
	taxLines := make([]TaxLine, len(lines))
	for i, line := range lines {
		taxLines[i] = line.tax
	}
	breakdown := ComputeTaxes(taxLines, isIntraState)
	amounts, err := encodeAmounts(lines, breakdown)
	if err != nil {
		return nil, err
	}

	// 4. Invoice number.
	now := l.now()
	invoiceNumber, err := l.allocateInvoiceNumber(ctx, now)
	if err != nil {
		return nil, err
	}

	// 5. Verification token. An unsigned bill cannot be verified, so this is fatal.
	token, err := l.tokens.Sign(VerificationClaims{
		InvoiceNumber: invoiceNumber,
		SellerGST:     seller.GSTNumber,
		TotalAmount:   breakdown.Total.StringFixed(2),
		Timestamp:     now.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		l.logger.Error("IssueBill: signing failed", zap.Error(err), zap.String("invoiceNumber", invoiceNumber))
		return nil, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}

	// 6. QR artifact, bounded and best effort.
	qrURL := l.renderQR(ctx, token, invoiceNumber)

	// 7. Build the ledger record.
	bill := buildBill(invoiceNumber, now, d.GetDueDate(), seller, buyer, amounts, isIntraState, qrURL)

	// 8. Primary write together with its outbox event.
	_, err = l.tm.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		if _, err := l.billRepo.CreateBill(sessCtx, bill); err != nil {
			return nil, fmt.Errorf("failed to create bill in repository: %w", err)
		}
		if err := l.eventPublisher.PublishBillIssued(sessCtx, bill); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		l.logger.Error("IssueBill: primary write failed", zap.Error(err), zap.String("invoiceNumber", invoiceNumber))
		return nil, err
	}

	// 9. Mirror write. Failure leaves the ledger flag set for the reconciler.
	mirrored := l.writeMirror(ctx, bill)

	// 10. Audit log.
	if err := l.auditLogRepo.Create(ctx, buildCreateBillAuditLog(d.GetActor(), bill)); err != nil {
		l.logger.Error("IssueBill: failed to create audit log", zap.Error(err), zap.Stringer("billID", bill.ID))
	}

	l.logger.Info("bill issued",
		zap.String("invoiceNumber", invoiceNumber),
		zap.Stringer("billID", bill.ID),
		zap.String("total", breakdown.Total.StringFixed(2)),
		zap.Bool("mirrorWriteFailed", !mirrored))

	return &dto.CreateBillResult{
		BillID:            bill.ID,
		InvoiceNumber:     invoiceNumber,
		QRCodeURL:         qrURL,
		MirrorWriteFailed: !mirrored,
	}, nil
}

type resolvedLine struct {
	productID *primitive.ObjectID
	name      string
	hsnCode   string
	tax       TaxLine
}

func (l *billLogic) resolveItems(ctx context.Context, items []dto.LineItemInput) ([]resolvedLine, error) {
	lines := make([]resolvedLine, 0, len(items))
	for i, item := range items {
		line := resolvedLine{
			productID: item.ProductID,
			name:      item.Name,
			hsnCode:   item.HSNCode,
			tax:       TaxLine{Quantity: item.Quantity},
		}
		if item.Rate.Valid {
			line.tax.Rate = item.Rate.Decimal
		}
		if item.GSTPercentage.Valid {
			line.tax.GSTPercentage = item.GSTPercentage.Decimal
		}

		if item.ProductID != nil {
			p, err := l.productRepo.GetProductByID(ctx, *item.ProductID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, fmt.Errorf("%w: item %d: %w", ErrInvalidRequest, i, ErrProductNotFound)
				}
				return nil, fmt.Errorf("failed to get product %s: %w", item.ProductID.Hex(), err)
			}
			if err := fillFromProduct(&line, item, p); err != nil {
				return nil, err
			}
		}

		if line.name == "" {
			return nil, fmt.Errorf("%w: item %d: name is required", ErrInvalidRequest, i)
		}
		if line.tax.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d: quantity must be positive", ErrInvalidRequest, i)
		}
		if !line.tax.Rate.IsPositive() {
			return nil, fmt.Errorf("%w: item %d: rate must be positive", ErrInvalidRequest, i)
		}
		if line.tax.GSTPercentage.IsNegative() {
			return nil, fmt.Errorf("%w: item %d: gst percentage cannot be negative", ErrInvalidRequest, i)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// fillFromProduct copies catalog values the request left out. The line keeps
// them by value; later product edits never reach issued bills.
func fillFromProduct(line *resolvedLine, item dto.LineItemInput, p *models.Product) error {
	if line.name == "" {
		line.name = p.Name
	}
	if line.hsnCode == "" {
		line.hsnCode = p.HSNCode
	}
	if !item.Rate.Valid {
		rate, err := helper.Decimal128ToDecimal(p.SellingPrice)
		if err != nil {
			return fmt.Errorf("invalid selling price on product %s: %w", p.ID.Hex(), err)
		}
		line.tax.Rate = rate
	}
	if !item.GSTPercentage.Valid {
		pct, err := helper.Decimal128ToDecimal(p.GSTPercentage)
		if err != nil {
			return fmt.Errorf("invalid gst percentage on product %s: %w", p.ID.Hex(), err)
		}
		line.tax.GSTPercentage = pct
	}
	return nil
}

// allocateInvoiceNumber draws the next value of the shared counter. The first
// call raises the counter to the current bill count so numbering continues
// from data written before the counter existed.
func (l *billLogic) allocateInvoiceNumber(ctx context.Context, now time.Time) (string, error) {
	if err := l.seedSequence(ctx); err != nil {
		return "", err
	}
	seq, err := l.sequenceRepo.NextValue(ctx, constants.InvoiceSequence)
	if err != nil {
		return "", fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	return FormatInvoiceNumber(now, seq), nil
}

func (l *billLogic) seedSequence(ctx context.Context) error {
	l.seedMu.Lock()
	defer l.seedMu.Unlock()
	if l.seeded {
		return nil
	}

	count, err := l.billRepo.CountBills(ctx)
	if err != nil {
		return fmt.Errorf("failed to count bills: %w", err)
	}
	if err := l.sequenceRepo.EnsureAtLeast(ctx, constants.InvoiceSequence, count); err != nil {
		return fmt.Errorf("failed to seed invoice sequence: %w", err)
	}
	l.seeded = true
	return nil
}

// FormatInvoiceNumber renders INV-{yyyy}-{mm}-{seq}, seq padded to at least three digits.
func FormatInvoiceNumber(at time.Time, seq int64) string {
	return fmt.Sprintf("%s-%d-%02d-%03d", constants.InvoicePrefix, at.Year(), int(at.Month()), seq)
}

func (l *billLogic) renderQR(ctx context.Context, token, invoiceNumber string) string {
	qrCtx := ctx
	if l.settings.QRTimeout > 0 {
		var cancel context.CancelFunc
		qrCtx, cancel = context.WithTimeout(ctx, l.settings.QRTimeout)
		defer cancel()
	}

	url, err := l.qr.Render(qrCtx, token)
	if err != nil || url == "" {
		l.logger.Warn("IssueBill: QR render failed, using placeholder",
			zap.Error(err), zap.String("invoiceNumber", invoiceNumber))
		return l.settings.PlaceholderURL
	}
	return url
}

func (l *billLogic) writeMirror(ctx context.Context, bill *models.Bill) bool {
	syncedAt := l.now()
	if err := l.mirrorRepo.UpsertMirrorBill(ctx, models.NewMirrorBill(bill, syncedAt)); err != nil {
		l.logger.Error("mirror write failed", zap.Error(err), zap.String("invoiceNumber", bill.InvoiceNumber))
		return false
	}
	if err := l.billRepo.UpdateBill(ctx, bill.ID, repository.WithMirrorSynced(syncedAt)); err != nil {
		l.logger.Warn("mirror written but ledger flag not cleared", zap.Error(err), zap.Stringer("billID", bill.ID))
	}
	bill.MirrorWriteFailed = false
	bill.MirrorSyncedAt = &syncedAt
	return true
}

// storedAmounts are the Decimal128 forms of a bill's line items and totals.
type storedAmounts struct {
	items    []models.LineItem
	subtotal primitive.Decimal128
	taxes    models.Taxes
	total    primitive.Decimal128
}

// encodeAmounts converts every amount before any number is allocated.
// Decimal128 holds at most 34 significant digits; anything wider is bad input.
func encodeAmounts(lines []resolvedLine, b TaxBreakdown) (*storedAmounts, error) {
	out := &storedAmounts{items: make([]models.LineItem, len(lines))}
	for i, line := range lines {
		rate, err := helper.DecimalToDecimal128(line.tax.Rate)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: rate: %v", ErrInvalidRequest, i, err)
		}
		pct, err := helper.DecimalToDecimal128(line.tax.GSTPercentage)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: gst percentage: %v", ErrInvalidRequest, i, err)
		}
		amount, err := helper.MoneyToDecimal128(line.tax.Amount())
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: amount: %v", ErrInvalidRequest, i, err)
		}
		out.items[i] = models.LineItem{
			ProductID:     line.productID,
			Name:          line.name,
			HSNCode:       line.hsnCode,
			Quantity:      line.tax.Quantity,
			Rate:          rate,
			GSTPercentage: pct,
			Amount:        amount,
		}
	}

	money := make([]primitive.Decimal128, 5)
	for i, v := range []decimal.Decimal{b.Subtotal, b.CGST, b.SGST, b.IGST, b.Total} {
		d, err := helper.MoneyToDecimal128(v)
		if err != nil {
			return nil, fmt.Errorf("%w: bill totals: %v", ErrInvalidRequest, err)
		}
		money[i] = d
	}
	out.subtotal = money[0]
	out.taxes = models.Taxes{CGST: money[1], SGST: money[2], IGST: money[3]}
	out.total = money[4]
	return out, nil
}

func buildBill(invoiceNumber string, now time.Time, dueDate *time.Time, seller, buyer models.Party,
	amounts *storedAmounts, isIntraState bool, qrURL string) *models.Bill {
	return &models.Bill{
		ID: primitive.NewObjectID(),
		BillDetails: models.BillDetails{
			InvoiceNumber: invoiceNumber,
			CreatedAt:     now,
			DueDate:       dueDate,
			Seller:        seller,
			Buyer:         buyer,
			Items:         amounts.items,
			Subtotal:      amounts.subtotal,
			Taxes:         amounts.taxes,
			TotalAmount:   amounts.total,
			IsIntraState:  isIntraState,
			QRCodeURL:     qrURL,
		},
		MirrorWriteFailed: true,
		UpdatedAt:         now,
	}
}

// ListBills returns bills newest first. A nil page request returns all of them.
func (l *billLogic) ListBills(ctx context.Context, pageReq *pagination.PageRequest) ([]*models.Bill, error) {
	params := &repository.ListBillsParams{}
	params.Offset, params.Limit = pageReq.Window()
	bills, err := l.billRepo.ListBills(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, nil
}

func (l *billLogic) GetBill(ctx context.Context, id primitive.ObjectID) (*models.Bill, error) {
	bill, err := l.billRepo.GetBillByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	return bill, nil
}

// SyncMirror re-drives mirror writes for bills older than minAge whose copy
// is still missing. It returns how many were repaired.
func (l *billLogic) SyncMirror(ctx context.Context, limit int, minAge time.Duration) (int, error) {
	pending, err := l.billRepo.ListMirrorPending(ctx, &repository.ListMirrorPendingParams{
		CreatedBefore: l.now().Add(-minAge),
		Limit:         limit,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list bills pending mirror: %w", err)
	}

	synced := 0
	for _, bill := range pending {
		if ctx.Err() != nil {
			return synced, ctx.Err()
		}
		if l.writeMirror(ctx, bill) {
			synced++
		}
	}
	return synced, nil
}

// ReconcileBill writes the mirror copy of one bill if it is still missing and
// reports whether a write happened.
func (l *billLogic) ReconcileBill(ctx context.Context, invoiceNumber string) (bool, error) {
	bill, err := l.billRepo.GetBillByInvoiceNumber(ctx, invoiceNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, ErrBillNotFound
		}
		return false, fmt.Errorf("failed to get bill: %w", err)
	}
	if !bill.MirrorWriteFailed {
		return false, nil
	}
	if !l.writeMirror(ctx, bill) {
		return false, errors.New("mirror write failed")
	}
	return true, nil
}

// VerifyBill authenticates a token and cross-checks the two stored copies of
// the bill it names. Verification outcomes are results, not errors; only store
// failures other than a miss are returned as errors.
func (l *billLogic) VerifyBill(ctx context.Context, token string) (*dto.VerificationResult, error) {
	claims, err := l.tokens.Verify(token)
	if err != nil {
		reason := constants.VerificationInvalidToken
		if errors.Is(err, ErrTokenExpired) {
			reason = constants.VerificationExpired
		}
		l.logger.Info("VerifyBill: token rejected", zap.Error(err))
		return &dto.VerificationResult{Reason: reason}, nil
	}

	ledgerBill, err := l.billRepo.GetBillByInvoiceNumber(ctx, claims.InvoiceNumber)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get bill from ledger: %w", err)
	}
	mirrorBill, mirrorErr := l.mirrorRepo.GetMirrorBillByInvoiceNumber(ctx, claims.InvoiceNumber)
	if mirrorErr != nil && !errors.Is(mirrorErr, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get bill from mirror: %w", mirrorErr)
	}
	if ledgerBill == nil || mirrorBill == nil {
		l.logger.Info("VerifyBill: bill missing",
			zap.String("invoiceNumber", claims.InvoiceNumber),
			zap.Bool("inLedger", ledgerBill != nil),
			zap.Bool("inMirror", mirrorBill != nil))
		return &dto.VerificationResult{Reason: constants.VerificationNotFound}, nil
	}

	same, err := sameFinancials(&ledgerBill.BillDetails, &mirrorBill.BillDetails)
	if err != nil {
		return nil, err
	}
	if !same {
		l.logger.Warn("VerifyBill: ledger and mirror disagree", zap.String("invoiceNumber", claims.InvoiceNumber))
		return &dto.VerificationResult{Reason: constants.VerificationMismatch}, nil
	}

	if l.settings.CompareClaims && !claimsMatch(claims, &ledgerBill.BillDetails) {
		l.logger.Warn("VerifyBill: token claims disagree with stored bill", zap.String("invoiceNumber", claims.InvoiceNumber))
		return &dto.VerificationResult{Reason: constants.VerificationClaimsMismatch}, nil
	}

	return &dto.VerificationResult{Verified: true, Reason: constants.VerificationVerified}, nil
}

func sameFinancials(a, b *models.BillDetails) (bool, error) {
	cmp, err := helper.CompareDecimal128(a.TotalAmount, b.TotalAmount)
	if err != nil {
		return false, fmt.Errorf("failed to compare total amounts: %w", err)
	}
	return cmp == 0 && a.Seller.GSTNumber == b.Seller.GSTNumber, nil
}

func claimsMatch(claims *VerificationClaims, b *models.BillDetails) bool {
	if claims.SellerGST != b.Seller.GSTNumber {
		return false
	}
	claimed, err := decimal.NewFromString(claims.TotalAmount)
	if err != nil {
		return false
	}
	stored, err := helper.Decimal128ToDecimal(b.TotalAmount)
	if err != nil {
		return false
	}
	return claimed.Equal(stored)
}
