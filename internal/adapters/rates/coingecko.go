package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
	portssvc "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/services"
)

// coinGeckoIDs maps supported crypto currency codes to CoinGecko asset identifiers.
var coinGeckoIDs = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
	"SOL": "solana",
	"XRP": "ripple",
}

// CoinGeckoSource fetches crypto spot prices against one base currency.
type CoinGeckoSource struct {
	httpClient   *http.Client
	baseURL      string
	baseCurrency string
	assets       []string
}

// NewCoinGeckoSource creates a CoinGeckoSource for the given crypto codes.
func NewCoinGeckoSource(httpClient *http.Client, baseURL, baseCurrency string, assets []string) *CoinGeckoSource {
	return &CoinGeckoSource{
		httpClient:   httpClient,
		baseURL:      baseURL,
		baseCurrency: strings.ToUpper(baseCurrency),
		assets:       assets,
	}
}

// Ensure CoinGeckoSource implements the RateSource interface.
var _ portssvc.RateSource = (*CoinGeckoSource)(nil)

// Name identifies the provider.
func (s *CoinGeckoSource) Name() string { return "CoinGecko" }

// FetchRates requests spot prices for the configured assets and normalizes each
// numeric price into a RatePoint priced as ASSET_BASE. Assets missing from the
// response or carrying a non-numeric price are skipped.
func (s *CoinGeckoSource) FetchRates(ctx context.Context) (map[string]domain.RatePoint, error) {
	ids := make([]string, 0, len(s.assets))
	for _, code := range s.assets {
		if id, ok := coinGeckoIDs[code]; ok {
			ids = append(ids, id)
		}
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", strings.ToLower(s.baseCurrency))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: CoinGecko request: %v", apperrors.ErrExternal, err)
	}

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: CoinGecko network error: %v", apperrors.ErrExternal, err)
	}
	defer resp.Body.Close()
	elapsedMS := time.Since(start).Milliseconds()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: CoinGecko API error: status %d", apperrors.ErrExternal, resp.StatusCode)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	var payload map[string]map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: CoinGecko response decode: %v", apperrors.ErrExternal, err)
	}

	timestamp := time.Now().UTC().Truncate(time.Second)
	priceKey := strings.ToLower(s.baseCurrency)

	result := make(map[string]domain.RatePoint)
	for _, code := range s.assets {
		rawID, ok := coinGeckoIDs[code]
		if !ok {
			continue
		}
		prices, ok := payload[rawID]
		if !ok {
			continue
		}
		rate, ok := numericValue(prices[priceKey])
		if !ok {
			continue
		}

		pair := domain.PairKey(code, s.baseCurrency)
		result[pair] = domain.RatePoint{
			Pair:      pair,
			Rate:      rate,
			UpdatedAt: timestamp,
			Source:    s.Name(),
			Meta: map[string]any{
				"raw_id":      rawID,
				"request_ms":  elapsedMS,
				"status_code": resp.StatusCode,
				"etag":        resp.Header.Get("ETag"),
			},
		}
	}

	return result, nil
}

// numericValue converts a decoded JSON value to decimal, reporting false for
// anything that is not a number.
func numericValue(value any) (decimal.Decimal, bool) {
	number, ok := value.(json.Number)
	if !ok {
		return decimal.Decimal{}, false
	}
	rate, err := decimal.NewFromString(number.String())
	if err != nil {
		return decimal.Decimal{}, false
	}
	return rate, true
}
