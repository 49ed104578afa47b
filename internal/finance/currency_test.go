package finance

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRateIdentity(t *testing.T) {
	db := newTestDB(t)
	cv := NewConverter(db)

	rate, err := cv.Rate("USD", "usd")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("rate = %s, want 1", rate)
	}
}

func TestRateCross(t *testing.T) {
	db := newTestDB(t)
	seedCurrencies(t, db)
	cv := NewConverter(db)

	rate, err := cv.Rate("EUR", "USD")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("EUR->USD = %s, want 2", rate)
	}

	rate, err = cv.Rate("USD", "EUR")
	if err != nil {
		t.Fatalf("rate: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("USD->EUR = %s, want 0.5", rate)
	}
}

func TestRateUnknownCurrency(t *testing.T) {
	db := newTestDB(t)
	seedCurrencies(t, db)
	cv := NewConverter(db)

	_, err := cv.Rate("USD", "XXX")
	if !errors.Is(err, ErrCurrencyNotFound) {
		t.Fatalf("err = %v, want ErrCurrencyNotFound", err)
	}
}

func TestConvertRoundsToAmountScale(t *testing.T) {
	db := newTestDB(t)
	seedCurrencies(t, db)
	cv := NewConverter(db)

	// 10.12345 EUR * 2 = 20.2469 exactly at four decimals
	converted, rate, err := cv.Convert(decimal.RequireFromString("10.12345"), "EUR", "USD")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !converted.Equal(decimal.RequireFromString("20.2469")) {
		t.Fatalf("converted = %s, want 20.2469", converted)
	}
	if !rate.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("rate = %s, want 2", rate)
	}
}
