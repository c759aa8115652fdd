package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
	portssvc "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/services"
)

// defaultRegistry is the fixed set of supported currencies. Reference data only;
// balances and rates are not restricted beyond membership here.
var defaultRegistry = map[string]domain.Currency{
	"USD": {Code: "USD", Name: "US Dollar", Kind: domain.KindFiat, IssuingCountry: "United States"},
	"EUR": {Code: "EUR", Name: "Euro", Kind: domain.KindFiat, IssuingCountry: "Eurozone"},
	"RUB": {Code: "RUB", Name: "Russian Ruble", Kind: domain.KindFiat, IssuingCountry: "Russia"},
	"BTC": {Code: "BTC", Name: "Bitcoin", Kind: domain.KindCrypto, Algorithm: "SHA-256", MarketCap: 1.12e12},
	"ETH": {Code: "ETH", Name: "Ethereum", Kind: domain.KindCrypto, Algorithm: "Ethash", MarketCap: 4.50e11},
}

// CurrencyService resolves currency codes against the fixed registry.
type CurrencyService struct {
	registry map[string]domain.Currency
}

// NewCurrencyService creates a CurrencyService backed by the default registry.
func NewCurrencyService() *CurrencyService {
	return &CurrencyService{registry: defaultRegistry}
}

// Ensure CurrencyService implements the portssvc.CurrencySvcFacade interface
var _ portssvc.CurrencySvcFacade = (*CurrencyService)(nil)

// GetCurrencyByCode normalizes a code and resolves it against the registry.
func (s *CurrencyService) GetCurrencyByCode(ctx context.Context, code string) (domain.Currency, error) {
	normalized, err := domain.NormalizeCurrencyCode(code)
	if err != nil {
		return domain.Currency{}, err
	}
	currency, ok := s.registry[normalized]
	if !ok {
		return domain.Currency{}, fmt.Errorf("%w: unknown currency '%s' (supported: %s)",
			apperrors.ErrNotFound, normalized, strings.Join(s.supportedCodes(), ", "))
	}
	return currency, nil
}

// ListCurrencies returns every supported currency, sorted by code.
func (s *CurrencyService) ListCurrencies(ctx context.Context) []domain.Currency {
	currencies := make([]domain.Currency, 0, len(s.registry))
	for _, code := range s.supportedCodes() {
		currencies = append(currencies, s.registry[code])
	}
	return currencies
}

func (s *CurrencyService) supportedCodes() []string {
	codes := make([]string, 0, len(s.registry))
	for code := range s.registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
