package finance

import (
	"fmt"
	"strings"

	"github.com/TeguiHD/Portafolio-sub005/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ratePrecision is the scale used for intermediate cross-rate division.
const ratePrecision = 8

// amountScale matches the decimal(20,4) amount columns; every converted
// amount is rounded to it so reversal arithmetic is exact.
const amountScale = 4

// Converter turns amounts between currencies using the seeded snapshot
// table. Rates go through the base currency (cross rate).
type Converter struct {
	db *gorm.DB
}

func NewConverter(db *gorm.DB) *Converter {
	return &Converter{db: db}
}

// withTx binds the converter to an open transaction so rate lookups join
// the caller's atomic unit instead of grabbing a second pool connection.
func (cv *Converter) withTx(tx *gorm.DB) *Converter {
	return &Converter{db: tx}
}

func (cv *Converter) lookup(code string) (*models.Currency, error) {
	var cur models.Currency
	err := cv.db.Where("code = ?", strings.ToUpper(code)).First(&cur).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrCurrencyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load currency %s: %w", code, err)
	}
	return &cur, nil
}

// Rate returns the snapshot rate converting one unit of from into to.
func (cv *Converter) Rate(from, to string) (decimal.Decimal, error) {
	if strings.EqualFold(from, to) {
		return decimal.NewFromInt(1), nil
	}
	src, err := cv.lookup(from)
	if err != nil {
		return decimal.Zero, err
	}
	dst, err := cv.lookup(to)
	if err != nil {
		return decimal.Zero, err
	}
	if dst.RateToBase.IsZero() {
		return decimal.Zero, fmt.Errorf("currency %s has zero base rate", to)
	}
	return src.RateToBase.DivRound(dst.RateToBase, ratePrecision), nil
}

// Convert converts amount from one currency to another and returns both the
// converted amount (rounded to the amount scale) and the rate snapshot used.
func (cv *Converter) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, decimal.Decimal, error) {
	rate, err := cv.Rate(from, to)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return amount.Mul(rate).Round(amountScale), rate, nil
}
