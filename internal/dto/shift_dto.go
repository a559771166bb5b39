package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OpenShiftRequest struct {
	UserID       string          `json:"user_id"       validate:"required,uuid"`
	StartingCash decimal.Decimal `json:"starting_cash" validate:"min=0"`
}

type CloseShiftRequest struct {
	EndingCash decimal.Decimal `json:"ending_cash" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ShiftResponse struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id"`
	StartTime    string           `json:"start_time"`
	EndTime      *string          `json:"end_time"`
	StartingCash decimal.Decimal  `json:"starting_cash"`
	EndingCash   *decimal.Decimal `json:"ending_cash"`
	Status       string           `json:"status"`
}

// ShiftSummaryResponse is always recomputed from the transactions table,
// never cached, so it stays consistent mid-shift. ExpectedCash is the
// reconciliation input (startingCash + cashSales); flagging a discrepancy
// against the counted drawer is the consumer's concern.
type ShiftSummaryResponse struct {
	ShiftID           string          `json:"shift_id"`
	TotalSales        decimal.Decimal `json:"total_sales"`
	CashSales         decimal.Decimal `json:"cash_sales"`
	CardSales         decimal.Decimal `json:"card_sales"`
	TotalTransactions int64           `json:"total_transactions"`
	StartingCash      decimal.Decimal `json:"starting_cash"`
	ExpectedCash      decimal.Decimal `json:"expected_cash"`
}
