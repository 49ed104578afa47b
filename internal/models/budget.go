package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget periods.
const (
	PeriodWeekly  = "weekly"
	PeriodMonthly = "monthly"
	PeriodYearly  = "yearly"
)

// Budget caps spending for a category over a rolling period. Spent amounts
// are derived from non-deleted expense transactions at read time, never
// stored.
type Budget struct {
	ID         uint            `gorm:"primaryKey"`
	UserID     uint            `gorm:"index;not null"`
	CategoryID uint            `gorm:"index;not null"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Period     string          `gorm:"size:16;not null;default:monthly"`
	StartDate  time.Time       `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category Category `gorm:"constraint:OnDelete:CASCADE"`
}
