package finance

import (
	"context"
	"time"

	"github.com/TeguiHD/Portafolio-sub005/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger keeps Account.CurrentBalance consistent with the set of non-deleted
// transactions referencing it. Every mutation validates before it writes,
// runs inside one database transaction, and applies balance deltas as
// DB-side atomic increments (UPDATE ... SET current_balance =
// current_balance + ?), never read-modify-write.
type Ledger struct {
	db        *gorm.DB
	converter *Converter
	log       *zap.Logger
}

func NewLedger(db *gorm.DB, converter *Converter, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{db: db, converter: converter, log: log}
}

// CreateInput describes a new transaction. Currency may name a currency
// different from the account's; the amount is then converted at a snapshot
// rate and both values are stored. Transfers are always submitted in the
// source account's currency.
type CreateInput struct {
	UserID      uint
	AccountID   uint
	ToAccountID *uint
	CategoryID  *uint
	Type        string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Merchant    string
	OccurredAt  time.Time
}

// UpdateInput carries the replacement fields for an edit. The ledger first
// fully reverses the prior delta, then applies the one computed from these
// values, in that order, inside one transaction.
type UpdateInput struct {
	AccountID   uint
	ToAccountID *uint
	CategoryID  *uint
	Type        string
	Amount      decimal.Decimal
	Description string
	Merchant    string
	OccurredAt  time.Time
}

func validType(t string) bool {
	return t == models.TxIncome || t == models.TxExpense || t == models.TxTransfer
}

// forUpdate adds a row lock on dialects that support it. SQLite has no
// SELECT ... FOR UPDATE; its single writer serializes these anyway.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// lockAccount loads an account scoped to the user inside tx. Missing and
// foreign accounts are indistinguishable to the caller.
func lockAccount(tx *gorm.DB, userID, accountID uint) (*models.Account, error) {
	var acct models.Account
	err := forUpdate(tx).
		Where("id = ? AND user_id = ?", accountID, userID).
		First(&acct).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// destinationAmount is the credit a transfer applies to its destination:
// the stored amount times the stored rate snapshot. Reversal recomputes the
// identical value from the row alone, so later rate-table changes cannot
// skew it.
func destinationAmount(t *models.Transaction) decimal.Decimal {
	if t.ExchangeRate != nil {
		return t.Amount.Mul(*t.ExchangeRate).Round(amountScale)
	}
	return t.Amount
}

// applyDeltas adjusts account balances for t. sign is +1 to apply the
// transaction and -1 to reverse it.
func applyDeltas(tx *gorm.DB, t *models.Transaction, sign int64) error {
	s := decimal.NewFromInt(sign)

	adjust := func(accountID uint, delta decimal.Decimal) error {
		return tx.Model(&models.Account{}).
			Where("id = ?", accountID).
			UpdateColumn("current_balance", gorm.Expr("current_balance + ?", delta)).Error
	}

	switch t.Type {
	case models.TxIncome:
		return adjust(t.AccountID, t.Amount.Mul(s))
	case models.TxExpense:
		return adjust(t.AccountID, t.Amount.Neg().Mul(s))
	case models.TxTransfer:
		if err := adjust(t.AccountID, t.Amount.Neg().Mul(s)); err != nil {
			return err
		}
		return adjust(*t.ToAccountID, destinationAmount(t).Mul(s))
	}
	return ErrInvalidType
}

// Create inserts a transaction and applies exactly one balance delta per
// leg, atomically with the row insert.
func (l *Ledger) Create(ctx context.Context, in CreateInput) (*models.Transaction, error) {
	if !validType(in.Type) {
		return nil, ErrInvalidType
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if in.Type == models.TxTransfer {
		if in.ToAccountID == nil {
			return nil, ErrMissingDestination
		}
		if *in.ToAccountID == in.AccountID {
			return nil, ErrSameAccountTransfer
		}
	}
	if in.OccurredAt.IsZero() {
		in.OccurredAt = time.Now()
	}

	var created *models.Transaction
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		acct, err := lockAccount(tx, in.UserID, in.AccountID)
		if err != nil {
			return err
		}

		t := models.Transaction{
			UserID:      in.UserID,
			AccountID:   in.AccountID,
			CategoryID:  in.CategoryID,
			Type:        in.Type,
			Amount:      in.Amount.Round(amountScale),
			Description: in.Description,
			Merchant:    in.Merchant,
			OccurredAt:  in.OccurredAt,
		}

		switch in.Type {
		case models.TxTransfer:
			dest, err := lockAccount(tx, in.UserID, *in.ToAccountID)
			if err != nil {
				return err
			}
			t.ToAccountID = in.ToAccountID
			// cross-currency transfer: snapshot the source->destination rate
			if dest.CurrencyCode != acct.CurrencyCode {
				rate, err := l.converter.withTx(tx).Rate(acct.CurrencyCode, dest.CurrencyCode)
				if err != nil {
					return err
				}
				t.ExchangeRate = &rate
			}
		default:
			// submitted currency differs from the account's: store the
			// original and let the converted amount drive all balance math
			if in.Currency != "" && in.Currency != acct.CurrencyCode {
				converted, rate, err := l.converter.withTx(tx).Convert(in.Amount, in.Currency, acct.CurrencyCode)
				if err != nil {
					return err
				}
				orig := in.Amount.Round(amountScale)
				t.OriginalAmount = &orig
				t.OriginalCurrency = in.Currency
				t.ExchangeRate = &rate
				t.Amount = converted
			}
		}

		if err := tx.Create(&t).Error; err != nil {
			return err
		}
		if err := applyDeltas(tx, &t, +1); err != nil {
			return err
		}
		created = &t
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.log.Info("transaction created",
		zap.Uint("user_id", in.UserID),
		zap.Uint("transaction_id", created.ID),
		zap.String("type", created.Type))
	return created, nil
}

// lockTransaction loads a live (non-deleted) transaction row for update,
// scoped to the user.
func lockTransaction(tx *gorm.DB, userID, txID uint) (*models.Transaction, error) {
	var t models.Transaction
	err := forUpdate(tx).
		Where("id = ? AND user_id = ? AND is_deleted = ?", txID, userID, false).
		First(&t).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update edits a transaction: the prior delta is fully reversed using the
// prior type/amount/accounts, then the new delta is applied, in that order,
// within one atomic unit.
func (l *Ledger) Update(ctx context.Context, userID, txID uint, in UpdateInput) (*models.Transaction, error) {
	if !validType(in.Type) {
		return nil, ErrInvalidType
	}
	if in.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if in.Type == models.TxTransfer {
		if in.ToAccountID == nil {
			return nil, ErrMissingDestination
		}
		if *in.ToAccountID == in.AccountID {
			return nil, ErrSameAccountTransfer
		}
	}

	var updated *models.Transaction
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := lockTransaction(tx, userID, txID)
		if err != nil {
			return err
		}

		// validate every referenced account before any balance write
		acct, err := lockAccount(tx, userID, in.AccountID)
		if err != nil {
			return err
		}
		var dest *models.Account
		if in.Type == models.TxTransfer {
			if dest, err = lockAccount(tx, userID, *in.ToAccountID); err != nil {
				return err
			}
		}

		if err := applyDeltas(tx, t, -1); err != nil {
			return err
		}

		t.AccountID = in.AccountID
		t.CategoryID = in.CategoryID
		t.Type = in.Type
		t.Amount = in.Amount.Round(amountScale)
		t.Description = in.Description
		t.Merchant = in.Merchant
		if !in.OccurredAt.IsZero() {
			t.OccurredAt = in.OccurredAt
		}
		t.ToAccountID = nil
		t.ExchangeRate = nil
		t.OriginalAmount = nil
		t.OriginalCurrency = ""
		if in.Type == models.TxTransfer {
			t.ToAccountID = in.ToAccountID
			if dest.CurrencyCode != acct.CurrencyCode {
				rate, err := l.converter.withTx(tx).Rate(acct.CurrencyCode, dest.CurrencyCode)
				if err != nil {
					return err
				}
				t.ExchangeRate = &rate
			}
		}

		if err := applyDeltas(tx, t, +1); err != nil {
			return err
		}
		if err := tx.Save(t).Error; err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SoftDelete reverses the transaction's original delta exactly once and
// tombstones the row. The row is retained for audit/history; subsequent
// reads and a second delete see it as gone.
func (l *Ledger) SoftDelete(ctx context.Context, userID, txID uint) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := lockTransaction(tx, userID, txID)
		if err != nil {
			return err
		}
		if err := applyDeltas(tx, t, -1); err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(t).Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": now,
		}).Error
	})
}

// RecomputeBalance derives an account's balance from first principles:
// initial balance plus the signed sum of all non-deleted transactions
// touching it. Used to verify the imperative bookkeeping.
func (l *Ledger) RecomputeBalance(ctx context.Context, accountID uint) (decimal.Decimal, error) {
	var acct models.Account
	if err := l.db.WithContext(ctx).First(&acct, accountID).Error; err != nil {
		return decimal.Zero, err
	}

	var txs []models.Transaction
	err := l.db.WithContext(ctx).
		Where("(account_id = ? OR to_account_id = ?) AND is_deleted = ?", accountID, accountID, false).
		Find(&txs).Error
	if err != nil {
		return decimal.Zero, err
	}

	balance := acct.InitialBalance
	for i := range txs {
		t := &txs[i]
		switch {
		case t.Type == models.TxTransfer && t.ToAccountID != nil && *t.ToAccountID == accountID:
			balance = balance.Add(destinationAmount(t))
		case t.AccountID == accountID:
			balance = balance.Add(t.SignedAmount())
		}
	}
	return balance, nil
}
