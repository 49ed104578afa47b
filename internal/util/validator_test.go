package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("123.45")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("123.45")) {
		t.Fatalf("got %s", got)
	}

	for _, bad := range []string{"", "abc", "0", "-5", "10000000"} {
		if _, err := ParseAmount(bad); err == nil {
			t.Fatalf("ParseAmount(%q) accepted", bad)
		}
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-08-30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	for _, bad := range []string{"", "30/08/2026", "2026-13-01"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("ParseDate(%q) accepted", bad)
		}
	}
}

func TestValidateCurrencyCode(t *testing.T) {
	if err := ValidateCurrencyCode("USD"); err != nil {
		t.Fatalf("USD rejected: %v", err)
	}
	for _, bad := range []string{"", "ZZZ"} {
		if err := ValidateCurrencyCode(bad); err == nil {
			t.Fatalf("ValidateCurrencyCode(%q) accepted", bad)
		}
	}
}

func TestCurrencyDecimals(t *testing.T) {
	if got := CurrencyDecimals("USD"); got != 2 {
		t.Fatalf("USD decimals = %d, want 2", got)
	}
	if got := CurrencyDecimals("JPY"); got != 0 {
		t.Fatalf("JPY decimals = %d, want 0", got)
	}
	if got := CurrencyDecimals("???"); got != 2 {
		t.Fatalf("unknown decimals = %d, want 2", got)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken("secret", "portfolio", 42, "admin", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseToken("secret", tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id = %d, want 42", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Fatalf("role = %q, want admin", claims.Role)
	}
	if claims.Issuer != "portfolio" {
		t.Fatalf("issuer = %q, want portfolio", claims.Issuer)
	}

	if _, err := ParseToken("wrong", tok); err == nil {
		t.Fatal("token accepted with wrong secret")
	}
}

func TestParseTokenRejectsForeignAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 42})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ParseToken("secret", tok); err == nil {
		t.Fatal("alg=none token accepted")
	}
}
