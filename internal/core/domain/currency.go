package domain

import (
	"fmt"
	"strings"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
)

// CurrencyKind tags a currency as government-issued or crypto.
type CurrencyKind string

const (
	KindFiat   CurrencyKind = "FIAT"
	KindCrypto CurrencyKind = "CRYPTO"
)

// Currency represents a supported currency. It is immutable reference data: the
// fiat-specific and crypto-specific fields are populated according to Kind.
type Currency struct {
	Code string       `json:"currencyCode"` // Primary Key (e.g., "USD")
	Name string       `json:"name"`         // e.g., "US Dollar"
	Kind CurrencyKind `json:"kind"`

	// Fiat only.
	IssuingCountry string `json:"issuingCountry,omitempty"`

	// Crypto only.
	Algorithm string  `json:"algorithm,omitempty"`
	MarketCap float64 `json:"marketCap,omitempty"`
}

// DisplayInfo renders the one-line description for a currency, dispatching on Kind.
func (c Currency) DisplayInfo() string {
	switch c.Kind {
	case KindCrypto:
		return fmt.Sprintf("[CRYPTO] %s - %s (Algo: %s, MCAP: %.2e)", c.Code, c.Name, c.Algorithm, c.MarketCap)
	default:
		return fmt.Sprintf("[FIAT] %s - %s (Issuing: %s)", c.Code, c.Name, c.IssuingCountry)
	}
}

// NormalizeCurrencyCode trims, uppercases and validates a currency code.
// Valid codes are 2-5 uppercase characters with no embedded whitespace.
func NormalizeCurrencyCode(code string) (string, error) {
	value := strings.ToUpper(strings.TrimSpace(code))
	if value == "" {
		return "", fmt.Errorf("%w: currency code must not be empty", apperrors.ErrValidation)
	}
	if strings.ContainsAny(value, " \t") || len(value) < 2 || len(value) > 5 {
		return "", fmt.Errorf("%w: invalid currency code '%s'", apperrors.ErrValidation, value)
	}
	return value, nil
}
