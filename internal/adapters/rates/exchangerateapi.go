package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
	portssvc "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/services"
)

// ExchangeRateAPISource fetches fiat conversion rates for one base currency.
// The provider quotes BASE->X, while the cache stores X->BASE, so every rate
// is inverted during normalization.
type ExchangeRateAPISource struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	baseCurrency string
	currencies   []string
}

// NewExchangeRateAPISource creates an ExchangeRateAPISource for the given fiat codes.
func NewExchangeRateAPISource(httpClient *http.Client, baseURL, apiKey, baseCurrency string, currencies []string) *ExchangeRateAPISource {
	return &ExchangeRateAPISource{
		httpClient:   httpClient,
		baseURL:      baseURL,
		apiKey:       apiKey,
		baseCurrency: strings.ToUpper(baseCurrency),
		currencies:   currencies,
	}
}

// Ensure ExchangeRateAPISource implements the RateSource interface.
var _ portssvc.RateSource = (*ExchangeRateAPISource)(nil)

// Name identifies the provider.
func (s *ExchangeRateAPISource) Name() string { return "ExchangeRate-API" }

// FetchRates requests the latest conversion table for the base currency and emits
// one inverted RatePoint per configured fiat code. Zero raw rates are skipped
// (division guard), as are codes absent from the response.
func (s *ExchangeRateAPISource) FetchRates(ctx context.Context) (map[string]domain.RatePoint, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%w: ExchangeRate API key is missing", apperrors.ErrExternal)
	}

	endpoint := fmt.Sprintf("%s/%s/latest/%s", s.baseURL, s.apiKey, s.baseCurrency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: ExchangeRate request: %v", apperrors.ErrExternal, err)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: ExchangeRate network error: %v", apperrors.ErrExternal, err)
	}
	defer resp.Body.Close()
	elapsedMS := time.Since(start).Milliseconds()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ExchangeRate API error %d: %s",
			apperrors.ErrExternal, resp.StatusCode, errorDetail(resp.Body))
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var payload struct {
		Result          string         `json:"result"`
		BaseCode        string         `json:"base_code"`
		ConversionRates map[string]any `json:"conversion_rates"`
	}
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: ExchangeRate response decode: %v", apperrors.ErrExternal, err)
	}
	if payload.Result != "success" {
		return nil, fmt.Errorf("%w: ExchangeRate API returned failure", apperrors.ErrExternal)
	}

	timestamp := time.Now().UTC().Truncate(time.Second)

	result := make(map[string]domain.RatePoint)
	for _, code := range s.currencies {
		raw, ok := numericValue(payload.ConversionRates[code])
		if !ok || raw.IsZero() {
			continue
		}

		pair := domain.PairKey(code, s.baseCurrency)
		result[pair] = domain.RatePoint{
			Pair:      pair,
			Rate:      decimal.NewFromInt(1).Div(raw),
			UpdatedAt: timestamp,
			Source:    s.Name(),
			Meta: map[string]any{
				"request_ms":  elapsedMS,
				"status_code": resp.StatusCode,
				"base_code":   payload.BaseCode,
			},
		}
	}

	return result, nil
}

// errorDetail extracts a short human-readable reason from a provider error body.
func errorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "unknown error"
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		for _, key := range []string{"error-type", "error", "message"} {
			if detail, ok := parsed[key].(string); ok && detail != "" {
				return detail
			}
		}
	}

	detail := strings.TrimSpace(string(raw))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	if detail == "" {
		return "unknown error"
	}
	return detail
}
