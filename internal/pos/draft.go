package pos

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DraftContext identifies who is selling, on which shift, and to whom.
type DraftContext struct {
	ShiftID    uuid.UUID
	UserID     uuid.UUID
	CustomerID *uuid.UUID
}

// DraftItem is one line of a TransactionDraft, keyed by product.
type DraftItem struct {
	ProductID  uuid.UUID
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

// TransactionDraft is the pure assembly of everything the persistence layer
// needs to commit a transaction. It carries no database identity yet.
type TransactionDraft struct {
	ReceiptNumber  string
	ShiftID        uuid.UUID
	UserID         uuid.UUID
	CustomerID     *uuid.UUID
	Subtotal       decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	PaymentMethod  string
	ReceivedAmount *decimal.Decimal
	ChangeAmount   *decimal.Decimal
	Items          []DraftItem
}

// NewReceiptNumber generates RCP-{epochMillis}-{3-digit random}.
// Uniqueness is probabilistic: the persistence layer treats a unique
// constraint violation as retriable and the settlement service regenerates.
func NewReceiptNumber() string {
	return fmt.Sprintf("RCP-%d-%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

// BuildTransactionDraft assembles a draft from a validated cart + payment.
// Received/Change are recorded for cash only; card drafts leave them nil.
func BuildTransactionDraft(cart Cart, sum Summary, pay PaymentRequest, res PaymentResult, dctx DraftContext) TransactionDraft {
	draft := TransactionDraft{
		ReceiptNumber: NewReceiptNumber(),
		ShiftID:       dctx.ShiftID,
		UserID:        dctx.UserID,
		CustomerID:    dctx.CustomerID,
		Subtotal:      sum.Subtotal,
		Tax:           sum.Tax,
		Total:         sum.Total,
		PaymentMethod: pay.Method,
	}
	if pay.Method == MethodCash {
		received := res.Received
		change := res.Change
		draft.ReceivedAmount = &received
		draft.ChangeAmount = &change
	}
	for _, item := range cart {
		line := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		draft.Items = append(draft.Items, DraftItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.Price,
			TotalPrice: line,
		})
	}
	return draft
}
