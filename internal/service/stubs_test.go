package service_test

import (
	"context"
	"errors"
	"time"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Tx-suffixed methods accept a nil *gorm.DB:
// runTx falls back to direct invocation when the repository reports no DB.

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
	// failDecrement forces DecrementStockTx to error, for rollback paths.
	failDecrement bool
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func (r *stubProductRepo) seed(name, sku string, price float64, stock int) *model.Product {
	p := &model.Product{
		ID:       uuid.New(),
		SKU:      sku,
		Name:     name,
		Price:    decimal.NewFromFloat(price),
		Stock:    stock,
		IsActive: true,
	}
	r.products[p.ID] = p
	return p
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubProductRepo) FindBySKU(_ context.Context, sku string) (*model.Product, error) {
	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubProductRepo) List(_ context.Context, _ dto.ProductFilter) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) ListExpiring(_ context.Context, _ time.Duration) ([]model.Product, error) {
	return nil, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *stubProductRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := r.products[id]; ok {
		p.IsActive = false
	}
	return nil
}

func (r *stubProductRepo) SetStock(_ context.Context, id uuid.UUID, stock int) error {
	if p, ok := r.products[id]; ok {
		p.Stock = stock
	}
	return nil
}

func (r *stubProductRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	if r.failDecrement {
		return errors.New("forced decrement failure")
	}
	p, ok := r.products[id]
	if !ok {
		return errors.New("not found")
	}
	p.Stock -= qty
	if p.Stock < 0 {
		p.Stock = 0
	}
	return nil
}

func (r *stubProductRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) error {
	p, ok := r.products[id]
	if !ok {
		return errors.New("not found")
	}
	p.Stock += qty
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Customers ────────────────────────────────────────────────────────────────

type stubCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[uuid.UUID]*model.Customer)}
}

func (r *stubCustomerRepo) seed(name, phone string) *model.Customer {
	c := &model.Customer{ID: uuid.New(), Name: name, Phone: phone}
	r.customers[c.ID] = c
	return c
}

func (r *stubCustomerRepo) Create(_ context.Context, c *model.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[c.ID] = c
	return nil
}

func (r *stubCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubCustomerRepo) FindByPhone(_ context.Context, phone string) (*model.Customer, error) {
	for _, c := range r.customers {
		if c.Phone == phone {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	out := make([]model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) AddPointsTx(_ *gorm.DB, id uuid.UUID, points int) error {
	c, ok := r.customers[id]
	if !ok {
		return errors.New("not found")
	}
	c.Points += points
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// ── Shifts ───────────────────────────────────────────────────────────────────

type stubShiftRepo struct {
	shifts map[uuid.UUID]*model.Shift
	totals map[uuid.UUID]*repository.ShiftTotals
}

func newStubShiftRepo() *stubShiftRepo {
	return &stubShiftRepo{
		shifts: make(map[uuid.UUID]*model.Shift),
		totals: make(map[uuid.UUID]*repository.ShiftTotals),
	}
}

func (r *stubShiftRepo) seedOpen(userID uuid.UUID, startingCash float64) *model.Shift {
	s := &model.Shift{
		ID:           uuid.New(),
		UserID:       userID,
		StartTime:    time.Now(),
		StartingCash: decimal.NewFromFloat(startingCash),
		Status:       "open",
	}
	r.shifts[s.ID] = s
	return s
}

func (r *stubShiftRepo) Create(_ context.Context, s *model.Shift) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.shifts[s.ID] = s
	return nil
}

func (r *stubShiftRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return s, nil
}

func (r *stubShiftRepo) FindOpenByUser(_ context.Context, userID uuid.UUID) (*model.Shift, error) {
	for _, s := range r.shifts {
		if s.UserID == userID && s.Status == "open" {
			return s, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubShiftRepo) Update(_ context.Context, s *model.Shift) error {
	r.shifts[s.ID] = s
	return nil
}

func (r *stubShiftRepo) SumTransactions(_ context.Context, shiftID uuid.UUID) (*repository.ShiftTotals, error) {
	if t, ok := r.totals[shiftID]; ok {
		return t, nil
	}
	return &repository.ShiftTotals{
		TotalSales: decimal.Zero,
		CashSales:  decimal.Zero,
		CardSales:  decimal.Zero,
	}, nil
}

var _ repository.ShiftRepository = (*stubShiftRepo)(nil)

// ── Transactions ─────────────────────────────────────────────────────────────

type stubTransactionRepo struct {
	transactions map[uuid.UUID]*model.Transaction
	receipts     map[string]uuid.UUID
	// duplicatereceipts makes CreateTx fail that many times with
	// gorm.ErrDuplicatedKey before succeeding.
	duplicateReceipts int
	createAttempts    int
}

func newStubTransactionRepo() *stubTransactionRepo {
	return &stubTransactionRepo{
		transactions: make(map[uuid.UUID]*model.Transaction),
		receipts:     make(map[string]uuid.UUID),
	}
}

func (r *stubTransactionRepo) CreateTx(_ *gorm.DB, t *model.Transaction) error {
	r.createAttempts++
	if r.duplicateReceipts > 0 {
		r.duplicateReceipts--
		return gorm.ErrDuplicatedKey
	}
	if _, exists := r.receipts[t.ReceiptNumber]; exists {
		return gorm.ErrDuplicatedKey
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.transactions[t.ID] = t
	r.receipts[t.ReceiptNumber] = t.ID
	return nil
}

func (r *stubTransactionRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Transaction, error) {
	t, ok := r.transactions[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return t, nil
}

func (r *stubTransactionRepo) FindByReceiptNumber(_ context.Context, receipt string) (*model.Transaction, error) {
	id, ok := r.receipts[receipt]
	if !ok {
		return nil, errors.New("not found")
	}
	return r.transactions[id], nil
}

func (r *stubTransactionRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string) error {
	t, ok := r.transactions[id]
	if !ok {
		return errors.New("not found")
	}
	t.Status = status
	return nil
}

func (r *stubTransactionRepo) List(_ context.Context, _ dto.TransactionFilter) ([]model.Transaction, int64, error) {
	out := make([]model.Transaction, 0, len(r.transactions))
	for _, t := range r.transactions {
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *stubTransactionRepo) DB() *gorm.DB { return nil }

var _ repository.TransactionRepository = (*stubTransactionRepo)(nil)

// ── Returns ──────────────────────────────────────────────────────────────────

type stubReturnRepo struct {
	returns map[uuid.UUID]*model.Return
}

func newStubReturnRepo() *stubReturnRepo {
	return &stubReturnRepo{returns: make(map[uuid.UUID]*model.Return)}
}

func (r *stubReturnRepo) CreateTx(_ *gorm.DB, ret *model.Return) error {
	if ret.ID == uuid.Nil {
		ret.ID = uuid.New()
	}
	ret.CreatedAt = time.Now()
	r.returns[ret.ID] = ret
	return nil
}

func (r *stubReturnRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Return, error) {
	ret, ok := r.returns[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return ret, nil
}

func (r *stubReturnRepo) List(_ context.Context) ([]model.Return, error) {
	out := make([]model.Return, 0, len(r.returns))
	for _, ret := range r.returns {
		out = append(out, *ret)
	}
	return out, nil
}

func (r *stubReturnRepo) DB() *gorm.DB { return nil }

var _ repository.ReturnRepository = (*stubReturnRepo)(nil)
