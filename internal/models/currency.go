package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is one row of the seeded currency catalog. RateToBase is a
// snapshot rate against the configured base currency; conversion between two
// currencies goes through the base (cross rate).
type Currency struct {
	Code          string          `gorm:"primaryKey;size:8"`
	Name          string          `gorm:"size:64;not null"`
	Symbol        string          `gorm:"size:8"`
	DecimalPlaces int             `gorm:"not null;default:2"`
	RateToBase    decimal.Decimal `gorm:"type:decimal(20,8);not null"`
	IsBase        bool            `gorm:"not null;default:false"`
	UpdatedAt     time.Time
}
