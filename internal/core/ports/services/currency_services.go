package services

import (
	"context"

	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
)

// CurrencySvcFacade defines the operations for resolving currency reference data.
type CurrencySvcFacade interface {
	// GetCurrencyByCode resolves a (possibly unnormalized) currency code against the
	// registry. Unknown codes yield apperrors.ErrNotFound.
	GetCurrencyByCode(ctx context.Context, code string) (domain.Currency, error)

	// ListCurrencies returns every supported currency, sorted by code.
	ListCurrencies(ctx context.Context) []domain.Currency
}
