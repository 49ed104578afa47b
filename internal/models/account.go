package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a running balance in a single currency.
//
// Invariant: CurrentBalance == InitialBalance + signed sum of all non-deleted
// transactions touching the account. The ledger service maintains this
// imperatively with atomic increments; nothing else may write the balance.
type Account struct {
	ID             uint            `gorm:"primaryKey"`
	UserID         uint            `gorm:"index;not null"`
	Name           string          `gorm:"size:64;not null"`
	CurrencyCode   string          `gorm:"size:8;not null;default:USD"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	// at most one default per user, enforced by the account handler
	IsDefault  bool `gorm:"not null;default:false"`
	ArchivedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User     User     `gorm:"constraint:OnDelete:CASCADE"`
	Currency Currency `gorm:"foreignKey:CurrencyCode;references:Code"`
}
