package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is an immutable financial record of one checkout.
// Status: "completed" | "refunded" | "cancelled". The only legal mutation
// after creation is the status transition away from "completed".
// Invariant at write time: Subtotal == Σ(Items[i].TotalPrice).
type Transaction struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReceiptNumber string     `gorm:"uniqueIndex;not null"`
	ShiftID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tax           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// PaymentMethod: "cash" | "card". Received/Change are set for cash only.
	PaymentMethod  string           `gorm:"type:varchar(10);not null"`
	ReceivedAmount *decimal.Decimal `gorm:"type:decimal(12,2)"`
	ChangeAmount   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status         string           `gorm:"type:varchar(20);not null;default:'completed';index"`
	IsOffline      bool             `gorm:"not null;default:false"`
	CreatedAt      time.Time        `gorm:"index"`

	Items    []TransactionItem `gorm:"foreignKey:TransactionID"`
	Customer *Customer         `gorm:"foreignKey:CustomerID"`
	User     *User             `gorm:"foreignKey:UserID"`
}

// TransactionItem snapshots the unit price at sale time; it never tracks
// later catalog price changes. Created atomically with its parent, never
// updated.
type TransactionItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity      int       `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}
