package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shift is a cash-drawer session tied to one user.
// Status: "open" | "closed". Closing is terminal; a closed shift is immutable.
// A partial unique index (user_id WHERE status = 'open') guarantees at most
// one open shift per user even under concurrent open requests; see
// infra.applySchemaPatches.
type Shift struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	StartTime    time.Time       `gorm:"not null"`
	EndTime      *time.Time
	StartingCash decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	EndingCash   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Status       string           `gorm:"type:varchar(20);not null;default:'open';index"`

	User *User `gorm:"foreignKey:UserID"`
}
