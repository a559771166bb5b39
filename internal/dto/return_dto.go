package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ReturnItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CreateReturnRequest struct {
	OriginalTransactionID string              `json:"original_transaction_id" validate:"required,uuid"`
	Reason                string              `json:"reason"        validate:"required,min=3"`
	RefundMethod          string              `json:"refund_method" validate:"required,oneof=cash card"`
	Items                 []ReturnItemRequest `json:"items"         validate:"required,min=1,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ReturnItemResponse struct {
	ProductID  string          `json:"product_id"`
	Product    string          `json:"product"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type ReturnResponse struct {
	ID                    string               `json:"id"`
	OriginalTransactionID string               `json:"original_transaction_id"`
	ReceiptNumber         string               `json:"receipt_number"`
	UserID                string               `json:"user_id"`
	Reason                string               `json:"reason"`
	RefundAmount          decimal.Decimal      `json:"refund_amount"`
	RefundMethod          string               `json:"refund_method"`
	Items                 []ReturnItemResponse `json:"items"`
	CreatedAt             string               `json:"created_at"`
}
