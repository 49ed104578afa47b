package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. CurrentAmount only moves through explicit
// contributions, it is not tied to account balances.
type Goal struct {
	ID            uint            `gorm:"primaryKey"`
	UserID        uint            `gorm:"index;not null"`
	Name          string          `gorm:"size:64;not null"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Deadline      *time.Time
	AchievedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
