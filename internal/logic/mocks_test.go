package logic

import (
	"context"

	"gst_billing/internal/dao/repository"
	"gst_billing/internal/models"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockQRRenderer struct {
	mock.Mock
}

func (m *mockQRRenderer) Render(ctx context.Context, payload string) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}

type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) Sign(claims VerificationClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *mockTokenIssuer) Verify(token string) (*VerificationClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerificationClaims), args.Error(1)
}

type mockMirrorRepository struct {
	mock.Mock
}

func (m *mockMirrorRepository) UpsertMirrorBill(ctx context.Context, bill *models.MirrorBill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *mockMirrorRepository) GetMirrorBillByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.MirrorBill, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MirrorBill), args.Error(1)
}

// failingBillRepository delegates to a working repository except for the
// calls it is told to fail.
type failingBillRepository struct {
	repository.BillRepository
	createErr error
	getErr    error
}

func (f *failingBillRepository) CreateBill(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error) {
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	return f.BillRepository.CreateBill(ctx, bill)
}

func (f *failingBillRepository) GetBillByInvoiceNumber(ctx context.Context, invoiceNumber string) (*models.Bill, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.BillRepository.GetBillByInvoiceNumber(ctx, invoiceNumber)
}

type mockAuditLogRepository struct {
	mock.Mock
}

func (m *mockAuditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}
