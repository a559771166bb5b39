package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type TransactionItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CreateTransactionRequest struct {
	ShiftID    string                   `json:"shift_id" validate:"required,uuid"`
	CustomerID *string                  `json:"customer_id" validate:"omitempty,uuid"`
	Items      []TransactionItemRequest `json:"items" validate:"required,min=1,dive"`
	// PaymentMethod: cash requires received_amount ≥ total (defaults to total).
	PaymentMethod  string           `json:"payment_method"  validate:"required,oneof=cash card"`
	ReceivedAmount *decimal.Decimal `json:"received_amount" validate:"omitempty,gt=0"`
	// CustomerEmail: when present, the receipt worker mails a PDF copy.
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email"`
}

type VoidTransactionRequest struct {
	Reason string `json:"reason" validate:"required,min=5"`
}

// TransactionFilter is bound from the query string of GET /api/transactions.
type TransactionFilter struct {
	ShiftID string `form:"shiftId" validate:"omitempty,uuid"`
	Status  string `form:"status"` // completed | refunded | cancelled | all
	Date    string `form:"date"`   // YYYY-MM-DD
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransactionItemResponse struct {
	ProductID  string          `json:"product_id"`
	Product    string          `json:"product"`
	SKU        string          `json:"sku"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type TransactionResponse struct {
	ID             string                    `json:"id"`
	ReceiptNumber  string                    `json:"receipt_number"`
	ShiftID        string                    `json:"shift_id"`
	CustomerID     *string                   `json:"customer_id"`
	UserID         string                    `json:"user_id"`
	Items          []TransactionItemResponse `json:"items"`
	Subtotal       decimal.Decimal           `json:"subtotal"`
	Tax            decimal.Decimal           `json:"tax"`
	Total          decimal.Decimal           `json:"total"`
	PaymentMethod  string                    `json:"payment_method"`
	ReceivedAmount *decimal.Decimal          `json:"received_amount"`
	ChangeAmount   *decimal.Decimal          `json:"change_amount"`
	Status         string                    `json:"status"`
	IsOffline      bool                      `json:"is_offline"`
	CreatedAt      string                    `json:"created_at"`
}

type TransactionListResponse struct {
	Data  []TransactionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}
