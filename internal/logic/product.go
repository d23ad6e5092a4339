package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gst_billing/internal/dao/repository"
	"gst_billing/internal/dto"
	"gst_billing/internal/helper"
	"gst_billing/internal/models"
	"gst_billing/pkg/pagination"

	"github.com/google/wire"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ProductLogic interface {
	ListProducts(ctx context.Context, pageReq *pagination.PageRequest) ([]*models.Product, error)
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	CreateProduct(ctx context.Context, d *dto.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, d *dto.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID, actor string) error
}

var ProductLogicProviderSet = wire.NewSet(NewProductLogic, wire.Bind(new(ProductLogic), new(*productLogic)))

type productLogic struct {
	productRepo  repository.ProductRepository
	auditLogRepo repository.AuditLogRepository
	logger       *zap.Logger
}

func NewProductLogic(productRepo repository.ProductRepository, auditLogRepo repository.AuditLogRepository, logger *zap.Logger) *productLogic {
	return &productLogic{
		productRepo:  productRepo,
		auditLogRepo: auditLogRepo,
		logger:       logger.Named("ProductLogic"),
	}
}

func (l *productLogic) ListProducts(ctx context.Context, pageReq *pagination.PageRequest) ([]*models.Product, error) {
	params := &repository.ListProductsParams{}
	params.Offset, params.Limit = pageReq.Window()
	products, err := l.productRepo.ListProducts(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (l *productLogic) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, err := l.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

func (l *productLogic) CreateProduct(ctx context.Context, d *dto.CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", ErrInvalidRequest)
	}
	if err := validateProductNumbers(&d.SellingPrice, &d.CostPrice, &d.GSTPercentage, &d.Quantity); err != nil {
		return nil, err
	}

	sellingPrice, err := helper.MoneyToDecimal128(d.SellingPrice)
	if err != nil {
		return nil, err
	}
	costPrice, err := helper.MoneyToDecimal128(d.CostPrice)
	if err != nil {
		return nil, err
	}
	gstPercentage, err := helper.DecimalToDecimal128(d.GSTPercentage)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &models.Product{
		ID:            primitive.NewObjectID(),
		Name:          name,
		HSNCode:       strings.TrimSpace(d.HSNCode),
		SellingPrice:  sellingPrice,
		CostPrice:     costPrice,
		Quantity:      d.Quantity,
		GSTPercentage: gstPercentage,
		Barcode:       strings.TrimSpace(d.Barcode),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := l.productRepo.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildCreateProductAuditLog(d.Actor, p)); err != nil {
		l.logger.Error("CreateProduct: failed to create audit log", zap.Error(err), zap.Stringer("productID", p.ID))
	}
	return p, nil
}

func (l *productLogic) UpdateProduct(ctx context.Context, id primitive.ObjectID, d *dto.UpdateProductRequest) (*models.Product, error) {
	var sellingPrice, costPrice, gstPercentage *decimal.Decimal
	if d.SellingPrice.Valid {
		sellingPrice = &d.SellingPrice.Decimal
	}
	if d.CostPrice.Valid {
		costPrice = &d.CostPrice.Decimal
	}
	if d.GSTPercentage.Valid {
		gstPercentage = &d.GSTPercentage.Decimal
	}
	if err := validateProductNumbers(sellingPrice, costPrice, gstPercentage, d.Quantity); err != nil {
		return nil, err
	}

	var opts []repository.UpdateOption
	if d.Name != nil {
		name := strings.TrimSpace(*d.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: product name cannot be empty", ErrInvalidRequest)
		}
		opts = append(opts, repository.WithProductName(name))
	}
	if d.HSNCode != nil {
		opts = append(opts, repository.WithProductHSNCode(strings.TrimSpace(*d.HSNCode)))
	}
	if sellingPrice != nil {
		v, err := helper.MoneyToDecimal128(*sellingPrice)
		if err != nil {
			return nil, err
		}
		opts = append(opts, repository.WithProductSellingPrice(v))
	}
	if costPrice != nil {
		v, err := helper.MoneyToDecimal128(*costPrice)
		if err != nil {
			return nil, err
		}
		opts = append(opts, repository.WithProductCostPrice(v))
	}
	if d.Quantity != nil {
		opts = append(opts, repository.WithProductQuantity(*d.Quantity))
	}
	if gstPercentage != nil {
		v, err := helper.DecimalToDecimal128(*gstPercentage)
		if err != nil {
			return nil, err
		}
		opts = append(opts, repository.WithProductGSTPercentage(v))
	}
	if d.Barcode != nil {
		opts = append(opts, repository.WithProductBarcode(strings.TrimSpace(*d.Barcode)))
	}

	before, err := l.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return before, nil
	}

	after, err := l.productRepo.UpdateProduct(ctx, id, opts...)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildUpdateProductAuditLog(d.Actor, before, after)); err != nil {
		l.logger.Error("UpdateProduct: failed to create audit log", zap.Error(err), zap.Stringer("productID", id))
	}
	return after, nil
}

func (l *productLogic) DeleteProduct(ctx context.Context, id primitive.ObjectID, actor string) error {
	deleted, err := l.productRepo.DeleteProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if err := l.auditLogRepo.Create(ctx, buildDeleteProductAuditLog(actor, deleted)); err != nil {
		l.logger.Error("DeleteProduct: failed to create audit log", zap.Error(err), zap.Stringer("productID", id))
	}
	return nil
}

func validateProductNumbers(sellingPrice, costPrice, gstPercentage *decimal.Decimal, quantity *int) error {
	if sellingPrice != nil && sellingPrice.IsNegative() {
		return fmt.Errorf("%w: selling price cannot be negative", ErrInvalidRequest)
	}
	if costPrice != nil && costPrice.IsNegative() {
		return fmt.Errorf("%w: cost price cannot be negative", ErrInvalidRequest)
	}
	if gstPercentage != nil && (gstPercentage.IsNegative() || gstPercentage.GreaterThan(decimal.NewFromInt(100))) {
		return fmt.Errorf("%w: gst percentage must be between 0 and 100", ErrInvalidRequest)
	}
	if quantity != nil && *quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidRequest)
	}
	return nil
}
