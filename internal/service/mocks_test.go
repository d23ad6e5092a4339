package service

import (
	"context"
	"time"

	"gst_billing/internal/dto"
	"gst_billing/internal/models"
	"gst_billing/pkg/pagination"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockBillLogic struct {
	mock.Mock
}

func (m *mockBillLogic) IssueBill(ctx context.Context, d *dto.CreateBillRequest) (*dto.CreateBillResult, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CreateBillResult), args.Error(1)
}

func (m *mockBillLogic) ListBills(ctx context.Context, pageReq *pagination.PageRequest) ([]*models.Bill, error) {
	args := m.Called(ctx, pageReq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Bill), args.Error(1)
}

func (m *mockBillLogic) GetBill(ctx context.Context, id primitive.ObjectID) (*models.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *mockBillLogic) VerifyBill(ctx context.Context, token string) (*dto.VerificationResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.VerificationResult), args.Error(1)
}

func (m *mockBillLogic) SyncMirror(ctx context.Context, limit int, minAge time.Duration) (int, error) {
	args := m.Called(ctx, limit, minAge)
	return args.Int(0), args.Error(1)
}

func (m *mockBillLogic) ReconcileBill(ctx context.Context, invoiceNumber string) (bool, error) {
	args := m.Called(ctx, invoiceNumber)
	return args.Bool(0), args.Error(1)
}

type mockProductLogic struct {
	mock.Mock
}

func (m *mockProductLogic) ListProducts(ctx context.Context, pageReq *pagination.PageRequest) ([]*models.Product, error) {
	args := m.Called(ctx, pageReq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *mockProductLogic) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductLogic) CreateProduct(ctx context.Context, d *dto.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductLogic) UpdateProduct(ctx context.Context, id primitive.ObjectID, d *dto.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *mockProductLogic) DeleteProduct(ctx context.Context, id primitive.ObjectID, actor string) error {
	args := m.Called(ctx, id, actor)
	return args.Error(0)
}

type mockQRRenderer struct {
	mock.Mock
}

func (m *mockQRRenderer) Render(ctx context.Context, payload string) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}
