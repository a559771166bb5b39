package service

import (
	"context"
	"errors"
	"fmt"

	"tillpos/internal/dto"
	"tillpos/internal/model"
	"tillpos/internal/pos"
	"tillpos/internal/repository"
	"tillpos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// receiptRetries bounds the regenerate-and-retry loop for receipt number
// collisions. The number is timestamp-based, so a second collision in a row
// is already vanishingly unlikely.
const receiptRetries = 3

// ErrReceiptConflict is returned when every retry hit a duplicate receipt
// number; the client may resubmit.
var ErrReceiptConflict = errors.New("could not allocate a unique receipt number")

type TransactionService interface {
	Commit(ctx context.Context, userID uuid.UUID, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error)
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*dto.TransactionResponse, error)
	List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error)
	Void(ctx context.Context, id uuid.UUID, reason string) error
}

type transactionService struct {
	repo         repository.TransactionRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	shiftRepo    repository.ShiftRepository
	taxRate      decimal.Decimal
	dispatcher   *worker.Dispatcher
}

func NewTransactionService(
	repo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	shiftRepo repository.ShiftRepository,
	taxRate decimal.Decimal,
	dispatcher *worker.Dispatcher,
) TransactionService {
	return &transactionService{
		repo:         repo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		shiftRepo:    shiftRepo,
		taxRate:      taxRate,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available, or calls
// fn(nil) directly when db is nil (unit test mode with stub repositories).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Commit settles a cart: resolves products, validates the payment, then
// inserts the transaction + items and decrements stock as ONE atomic unit.
// Any failure rolls the whole unit back, so an orphan transaction or a stock
// change without its items is never observable.
func (s *transactionService) Commit(ctx context.Context, userID uuid.UUID, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	shiftID, err := uuid.Parse(req.ShiftID)
	if err != nil {
		return nil, fmt.Errorf("invalid shift_id: %w", err)
	}
	if len(req.Items) == 0 {
		return nil, errors.New("a transaction must have at least one item")
	}

	// A transaction cannot exist without an open shift.
	shift, err := s.shiftRepo.FindByID(ctx, shiftID)
	if err != nil {
		return nil, errors.New("shift not found")
	}
	if shift.Status != "open" {
		return nil, errors.New("shift is not open")
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil {
		cid, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("invalid customer_id: %w", err)
		}
		if _, err := s.customerRepo.FindByID(ctx, cid); err != nil {
			return nil, errors.New("customer not found")
		}
		customerID = &cid
	}

	// Resolve products and rebuild the cart server-side (pre-flight, outside
	// the tx): prices come from the catalog, never from the client.
	cart := pos.Cart{}
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id: %w", err)
		}
		p, err := s.productRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("product %s not found", item.ProductID)
		}
		if !p.IsActive {
			return nil, fmt.Errorf("product %s is inactive", p.Name)
		}
		cart = append(cart, pos.CartItem{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Price:     p.Price,
			Stock:     p.Stock,
			Quantity:  item.Quantity,
		})
	}

	summary := pos.Summarize(cart, s.taxRate)

	payment := pos.PaymentRequest{Method: req.PaymentMethod, ReceivedAmount: req.ReceivedAmount}
	result := pos.ValidatePayment(payment, summary.Total)
	if !result.Success {
		switch result.Reason {
		case pos.ReasonInsufficientFunds:
			return nil, fmt.Errorf("received amount %s is less than total due %s",
				result.Received.StringFixed(2), summary.Total.StringFixed(2))
		default:
			return nil, fmt.Errorf("payment rejected: %s", result.Reason)
		}
	}

	draft := pos.BuildTransactionDraft(cart, summary, payment, result, pos.DraftContext{
		ShiftID:    shiftID,
		UserID:     userID,
		CustomerID: customerID,
	})

	txn, err := s.commitDraft(ctx, draft)
	if err != nil {
		return nil, err
	}

	// Receipt email is best effort. The sale is already committed.
	if s.dispatcher != nil && req.CustomerEmail != nil && *req.CustomerEmail != "" {
		_ = s.dispatcher.EnqueueReceipt(ctx, worker.ReceiptJob{
			TransactionID: txn.ID.String(),
			Email:         *req.CustomerEmail,
		})
	}

	// Re-fetch with product snapshots for the response; fall back to the
	// in-memory model when running against stub repositories.
	if stored, err := s.repo.FindByID(ctx, txn.ID); err == nil {
		txn = stored
	}
	return transactionToResponse(txn), nil
}

// commitDraft runs the atomic unit, regenerating the receipt number and
// retrying when the unique constraint trips.
func (s *transactionService) commitDraft(ctx context.Context, draft pos.TransactionDraft) (*model.Transaction, error) {
	// Write-time invariant: item totals must reconcile with the subtotal.
	sum := decimal.Zero
	for _, item := range draft.Items {
		sum = sum.Add(item.TotalPrice)
	}
	if !sum.Equal(draft.Subtotal) {
		return nil, fmt.Errorf("item totals %s do not match subtotal %s",
			sum.StringFixed(2), draft.Subtotal.StringFixed(2))
	}

	var lastErr error
	for attempt := 0; attempt < receiptRetries; attempt++ {
		txn := draftToModel(draft)
		lastErr = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.repo.CreateTx(tx, txn); err != nil {
				return err
			}
			for _, item := range draft.Items {
				if err := s.productRepo.DecrementStockTx(tx, item.ProductID, item.Quantity); err != nil {
					return fmt.Errorf("stock decrement for %s: %w", item.ProductID, err)
				}
			}
			if draft.CustomerID != nil {
				// Loyalty accrual hook: one point per whole currency unit.
				points := int(draft.Total.IntPart())
				if err := s.customerRepo.AddPointsTx(tx, *draft.CustomerID, points); err != nil {
					return err
				}
			}
			return nil
		})
		if lastErr == nil {
			return txn, nil
		}
		if !errors.Is(lastErr, gorm.ErrDuplicatedKey) {
			return nil, lastErr
		}
		draft.ReceiptNumber = pos.NewReceiptNumber()
	}
	return nil, fmt.Errorf("%w: %v", ErrReceiptConflict, lastErr)
}

func (s *transactionService) GetByID(ctx context.Context, id uuid.UUID) (*dto.TransactionResponse, error) {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("transaction not found")
	}
	return transactionToResponse(txn), nil
}

func (s *transactionService) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*dto.TransactionResponse, error) {
	txn, err := s.repo.FindByReceiptNumber(ctx, receiptNumber)
	if err != nil {
		return nil, errors.New("transaction not found")
	}
	return transactionToResponse(txn), nil
}

func (s *transactionService) List(ctx context.Context, filter dto.TransactionFilter) (*dto.TransactionListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	transactions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(transactions))
	for i := range transactions {
		items = append(items, *transactionToResponse(&transactions[i]))
	}
	return &dto.TransactionListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Void cancels a completed transaction: restores stock for every item and
// flips the status, as one atomic unit. Administrative override, not the
// customer-return path.
func (s *transactionService) Void(ctx context.Context, id uuid.UUID, reason string) error {
	txn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("transaction not found")
	}
	if txn.Status != "completed" {
		return fmt.Errorf("transaction is already %s", txn.Status)
	}
	if reason == "" {
		return errors.New("a void reason is required")
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range txn.Items {
			if err := s.productRepo.IncrementStockTx(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.repo.UpdateStatusTx(tx, id, "cancelled")
	})
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func draftToModel(draft pos.TransactionDraft) *model.Transaction {
	txn := &model.Transaction{
		ReceiptNumber:  draft.ReceiptNumber,
		ShiftID:        draft.ShiftID,
		CustomerID:     draft.CustomerID,
		UserID:         draft.UserID,
		Subtotal:       draft.Subtotal,
		Tax:            draft.Tax,
		Total:          draft.Total,
		PaymentMethod:  draft.PaymentMethod,
		ReceivedAmount: draft.ReceivedAmount,
		ChangeAmount:   draft.ChangeAmount,
		Status:         "completed",
	}
	for _, item := range draft.Items {
		txn.Items = append(txn.Items, model.TransactionItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	return txn
}

func transactionToResponse(t *model.Transaction) *dto.TransactionResponse {
	items := make([]dto.TransactionItemResponse, 0, len(t.Items))
	for _, item := range t.Items {
		name, sku := "", ""
		if item.Product != nil {
			name = item.Product.Name
			sku = item.Product.SKU
		}
		items = append(items, dto.TransactionItemResponse{
			ProductID:  item.ProductID.String(),
			Product:    name,
			SKU:        sku,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	var customerID *string
	if t.CustomerID != nil {
		cid := t.CustomerID.String()
		customerID = &cid
	}
	return &dto.TransactionResponse{
		ID:             t.ID.String(),
		ReceiptNumber:  t.ReceiptNumber,
		ShiftID:        t.ShiftID.String(),
		CustomerID:     customerID,
		UserID:         t.UserID.String(),
		Items:          items,
		Subtotal:       t.Subtotal,
		Tax:            t.Tax,
		Total:          t.Total,
		PaymentMethod:  t.PaymentMethod,
		ReceivedAmount: t.ReceivedAmount,
		ChangeAmount:   t.ChangeAmount,
		Status:         t.Status,
		IsOffline:      t.IsOffline,
		CreatedAt:      t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
