package jsonfile

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
	portsrepo "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/repositories"
)

// PortfolioRepository stores portfolios in a single JSON array file:
// [{"user_id": ..., "wallets": {"CODE": {"balance": ...}}}].
type PortfolioRepository struct {
	path string
}

// NewPortfolioRepository creates a PortfolioRepository writing to the given file path.
func NewPortfolioRepository(path string) *PortfolioRepository {
	return &PortfolioRepository{path: path}
}

// Ensure PortfolioRepository implements the repository facade.
var _ portsrepo.PortfolioRepositoryFacade = (*PortfolioRepository)(nil)

type walletRecord struct {
	Balance decimal.Decimal `json:"balance"`
}

type portfolioRecord struct {
	UserID  string                  `json:"user_id"`
	Wallets map[string]walletRecord `json:"wallets"`
}

func toPortfolioRecord(portfolio domain.Portfolio) portfolioRecord {
	wallets := make(map[string]walletRecord, len(portfolio.Wallets))
	for code, wallet := range portfolio.Wallets {
		wallets[code] = walletRecord{Balance: wallet.Balance}
	}
	return portfolioRecord{UserID: portfolio.UserID, Wallets: wallets}
}

func (rec portfolioRecord) toDomain() *domain.Portfolio {
	portfolio := domain.NewPortfolio(rec.UserID)
	for code, wallet := range rec.Wallets {
		normalized := strings.ToUpper(code)
		portfolio.Wallets[normalized] = &domain.Wallet{
			CurrencyCode: normalized,
			Balance:      wallet.Balance,
		}
	}
	return portfolio
}

// FindPortfolioByUserID retrieves the portfolio owned by a user.
func (r *PortfolioRepository) FindPortfolioByUserID(ctx context.Context, userID string) (*domain.Portfolio, error) {
	portfolios, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for _, rec := range portfolios {
		if rec.UserID == userID {
			return rec.toDomain(), nil
		}
	}
	return nil, fmt.Errorf("%w: portfolio for user %s", apperrors.ErrNotFound, userID)
}

// SavePortfolio persists the full portfolio, replacing any stored version.
func (r *PortfolioRepository) SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	portfolios, err := r.readAll()
	if err != nil {
		return err
	}

	record := toPortfolioRecord(portfolio)
	replaced := false
	for i, rec := range portfolios {
		if rec.UserID == portfolio.UserID {
			portfolios[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		portfolios = append(portfolios, record)
	}

	return writeJSONFileAtomic(r.path, portfolios)
}

func (r *PortfolioRepository) readAll() ([]portfolioRecord, error) {
	var portfolios []portfolioRecord
	if err := readJSONFile(r.path, &portfolios); err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, err
	}
	return portfolios, nil
}
