package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types.
const (
	TxIncome   = "income"
	TxExpense  = "expense"
	TxTransfer = "transfer"
)

// Transaction is a single ledger movement. Amount is always positive and
// always in the account's currency; when the submitted currency differed,
// OriginalAmount/OriginalCurrency/ExchangeRate keep the creation-time
// snapshot and Amount carries the converted value used for all balance
// arithmetic.
//
// Rows are never hard-deleted: IsDeleted+DeletedAt tombstone the row and
// every balance or reporting query filters is_deleted = false.
type Transaction struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index;not null"`
	AccountID   uint   `gorm:"index;not null"`
	ToAccountID *uint  `gorm:"index"` // transfers only
	CategoryID  *uint  `gorm:"index"`
	Type        string `gorm:"size:16;index;not null"`

	Amount           decimal.Decimal  `gorm:"type:decimal(20,4);not null"`
	OriginalAmount   *decimal.Decimal `gorm:"type:decimal(20,4)"`
	OriginalCurrency string           `gorm:"size:8"`
	ExchangeRate     *decimal.Decimal `gorm:"type:decimal(20,8)"`

	Description string    `gorm:"size:255"`
	Merchant    string    `gorm:"size:128"`
	OccurredAt  time.Time `gorm:"index;not null"`

	IsDeleted bool `gorm:"index;not null;default:false"`
	DeletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Account   Account   `gorm:"foreignKey:AccountID"`
	ToAccount *Account  `gorm:"foreignKey:ToAccountID"`
	Category  *Category `gorm:"foreignKey:CategoryID"`
}

// SignedAmount returns the delta this transaction applies to its source
// account: positive for income, negative for expense and transfer-out.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TxIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}
