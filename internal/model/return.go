package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Return reverses part or all of an original transaction. Committing a
// return flips the original transaction to "refunded" inside the same DB
// transaction that restores stock.
type Return struct {
	ID                    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OriginalTransactionID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID                uuid.UUID `gorm:"type:uuid;not null"`
	Reason                string    `gorm:"not null"`
	RefundAmount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// RefundMethod: "cash" | "card"
	RefundMethod string    `gorm:"type:varchar(10);not null"`
	CreatedAt    time.Time `gorm:"index"`

	Items               []ReturnItem `gorm:"foreignKey:ReturnID"`
	OriginalTransaction *Transaction `gorm:"foreignKey:OriginalTransactionID"`
}

// ReturnItem quantity is bounded by the matching original TransactionItem
// quantity; UnitPrice is copied from the original sale, not the live price.
type ReturnItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReturnID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity  int       `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
