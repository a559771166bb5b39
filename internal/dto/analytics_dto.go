package dto

import "github.com/shopspring/decimal"

// DailySalesResponse covers [startOfDay, endOfDay) for one date,
// completed transactions only.
type DailySalesResponse struct {
	Date         string          `json:"date"`
	Revenue      decimal.Decimal `json:"revenue"`
	Transactions int64           `json:"transactions"`
	AverageCheck decimal.Decimal `json:"average_check"`
}

type TopProductResponse struct {
	ProductID    string          `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}
