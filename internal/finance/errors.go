package finance

import "errors"

// Sentinel errors returned by the finance services. Handlers map these to
// HTTP statuses; anything else is treated as an unexpected failure.
var (
	// ErrAccountNotFound covers both a missing account and an account owned
	// by another user, so the API never reveals foreign resources.
	ErrAccountNotFound = errors.New("account not found")
	// ErrTransactionNotFound also covers already soft-deleted rows.
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrCurrencyNotFound    = errors.New("currency not found")
	ErrMissingDestination  = errors.New("transfer requires a destination account")
	ErrSameAccountTransfer = errors.New("transfer source and destination must differ")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidAmount       = errors.New("amount must be positive")
)
