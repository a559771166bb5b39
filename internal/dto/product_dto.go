package dto

import "github.com/shopspring/decimal"

// ProductFilter is bound from the query string of GET /api/products.
type ProductFilter struct {
	Active     string `form:"active"` // "false" | "all" | default active-only
	SKU        string `form:"sku"`
	Name       string `form:"name"`
	CategoryID string `form:"category_id"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateProductRequest struct {
	SKU            string          `json:"sku"   validate:"required"`
	Name           string          `json:"name"  validate:"required"`
	Price          decimal.Decimal `json:"price" validate:"required,gt=0"`
	Stock          int             `json:"stock" validate:"min=0"`
	CategoryID     *string         `json:"category_id"     validate:"omitempty,uuid"`
	ExpirationDate *string         `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateProductRequest struct {
	Name           string           `json:"name"`
	Price          *decimal.Decimal `json:"price" validate:"omitempty,gt=0"`
	CategoryID     *string          `json:"category_id"     validate:"omitempty,uuid"`
	ExpirationDate *string          `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
}

// AdjustStockRequest sets an absolute stock quantity. Admin only.
type AdjustStockRequest struct {
	Stock int `json:"stock" validate:"min=0"`
}

type ProductResponse struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	CategoryID     *string         `json:"category_id"`
	IsActive       bool            `json:"is_active"`
	ExpirationDate *string         `json:"expiration_date"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
