package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock is mutated only inside a settlement or
// return transaction (and by the administrative stock-adjust endpoint, which
// is an override outside the settlement invariants).
type Product struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SKU   string    `gorm:"uniqueIndex;not null"`
	Name  string    `gorm:"index;not null"`
	Price decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Stock never goes below zero: decrements clamp at 0 in the repository.
	Stock          int        `gorm:"not null;default:0"`
	CategoryID     *uuid.UUID `gorm:"type:uuid;index"`
	IsActive       bool       `gorm:"not null;default:true"`
	ExpirationDate *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}
