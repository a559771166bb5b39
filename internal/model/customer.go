package model

import (
	"time"

	"github.com/google/uuid"
)

// Customer is an optional participant in a transaction. Points accrue via
// the settlement hook (1 point per whole currency unit of the total).
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	Phone     string    `gorm:"uniqueIndex;not null"`
	Email     *string
	Points    int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
