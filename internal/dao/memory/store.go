// Package memory is a process-local stand-in for the MongoDB repositories,
// used when the deployment is unreachable and fallback is enabled, and in tests.
// Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gst_billing/internal/dao/fields"
	"gst_billing/internal/dao/repository"
	"gst_billing/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store implements the bill, mirror, sequence and product repositories.
// Audit logs and outbox messages are reached through AuditLogs and Outbox.
type Store struct {
	mu        sync.RWMutex
	bills     map[primitive.ObjectID]models.Bill
	invoices  map[string]primitive.ObjectID
	mirror    map[string]models.MirrorBill
	sequences map[string]int64
	products  map[primitive.ObjectID]models.Product
	auditLogs []models.AuditLog
	outbox    []models.OutboxMessage
}

func NewStore() *Store {
	return &Store{
		bills:     make(map[primitive.ObjectID]models.Bill),
		invoices:  make(map[string]primitive.ObjectID),
		mirror:    make(map[string]models.MirrorBill),
		sequences: make(map[string]int64),
		products:  make(map[primitive.ObjectID]models.Product),
	}
}

// --- bills ---

func (s *Store) CreateBill(_ context.Context, bill *models.Bill) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.invoices[bill.InvoiceNumber]; taken {
		return primitive.NilObjectID, fmt.Errorf("%w: invoice_number %s", repository.ErrDuplicate, bill.InvoiceNumber)
	}
	if bill.ID.IsZero() {
		bill.ID = primitive.NewObjectID()
	}
	if _, taken := s.bills[bill.ID]; taken {
		return primitive.NilObjectID, fmt.Errorf("%w: _id %s", repository.ErrDuplicate, bill.ID.Hex())
	}
	s.bills[bill.ID] = *bill
	s.invoices[bill.InvoiceNumber] = bill.ID
	return bill.ID, nil
}

func (s *Store) GetBillByID(_ context.Context, id primitive.ObjectID) (*models.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bills[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (s *Store) GetBillByInvoiceNumber(_ context.Context, invoiceNumber string) (*models.Bill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.invoices[invoiceNumber]
	if !ok {
		return nil, repository.ErrNotFound
	}
	b := s.bills[id]
	return &b, nil
}

func (s *Store) ListBills(_ context.Context, params *repository.ListBillsParams) ([]*models.Bill, error) {
	s.mu.RLock()
	all := make([]*models.Bill, 0, len(s.bills))
	for _, b := range s.bills {
		b := b
		all = append(all, &b)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if params == nil {
		return all, nil
	}
	return page(all, params.Offset, params.Limit), nil
}

func (s *Store) CountBills(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.bills)), nil
}

func (s *Store) UpdateBill(_ context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bills[id]
	if !ok {
		return repository.ErrNotFound
	}
	if err := applyUpdate(&b, repository.ApplyUpdateOptions(opts...)); err != nil {
		return err
	}
	s.bills[id] = b
	return nil
}

func (s *Store) ListMirrorPending(_ context.Context, params *repository.ListMirrorPendingParams) ([]*models.Bill, error) {
	s.mu.RLock()
	var pending []*models.Bill
	for _, b := range s.bills {
		if b.MirrorWriteFailed && b.CreatedAt.Before(params.CreatedBefore) {
			b := b
			pending = append(pending, &b)
		}
	}
	s.mu.RUnlock()

	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	return page(pending, 0, params.Limit), nil
}

// --- mirror ---

func (s *Store) UpsertMirrorBill(_ context.Context, bill *models.MirrorBill) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.mirror[bill.InvoiceNumber]; ok {
		bill.ID = existing.ID
	} else if bill.ID.IsZero() {
		bill.ID = primitive.NewObjectID()
	}
	s.mirror[bill.InvoiceNumber] = *bill
	return nil
}

func (s *Store) GetMirrorBillByInvoiceNumber(_ context.Context, invoiceNumber string) (*models.MirrorBill, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.mirror[invoiceNumber]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

// --- sequences ---

func (s *Store) NextValue(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequences[name]++
	return s.sequences[name], nil
}

func (s *Store) EnsureAtLeast(_ context.Context, name string, floor int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sequences[name] < floor {
		s.sequences[name] = floor
	}
	return nil
}

// --- products ---

func (s *Store) CreateProduct(_ context.Context, p *models.Product) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, taken := s.products[p.ID]; taken {
		return primitive.NilObjectID, fmt.Errorf("%w: _id %s", repository.ErrDuplicate, p.ID.Hex())
	}
	s.products[p.ID] = *p
	return p.ID, nil
}

func (s *Store) GetProductByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *Store) ListProducts(_ context.Context, params *repository.ListProductsParams) ([]*models.Product, error) {
	s.mu.RLock()
	all := make([]*models.Product, 0, len(s.products))
	for _, p := range s.products {
		p := p
		all = append(all, &p)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if params == nil {
		return all, nil
	}
	return page(all, params.Offset, params.Limit), nil
}

func (s *Store) UpdateProduct(_ context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if err := applyUpdate(&p, repository.ApplyUpdateOptions(opts...)); err != nil {
		return nil, err
	}
	s.products[id] = p
	return &p, nil
}

func (s *Store) DeleteProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(s.products, id)
	return &p, nil
}

// --- helpers ---

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// applyUpdate runs $set and $inc against the BSON form of target, the same
// document shape the MongoDB DAOs update.
func applyUpdate(target interface{}, u *repository.UpdateOptions) error {
	if len(u.SetFields) == 0 && len(u.IncFields) == 0 {
		return nil
	}

	raw, err := bson.Marshal(target)
	if err != nil {
		return err
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}

	for k, v := range u.SetFields {
		doc[k] = v
	}
	for k, v := range u.IncFields {
		cur, err := toInt64(doc[k])
		if err != nil {
			return fmt.Errorf("$inc %s: %w", k, err)
		}
		delta, err := toInt64(v)
		if err != nil {
			return fmt.Errorf("$inc %s: %w", k, err)
		}
		doc[k] = cur + delta
	}
	doc[fields.FieldUpdatedAt] = time.Now()

	raw, err = bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, target)
}

func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}
