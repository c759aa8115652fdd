package repositories

import (
	"context"

	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
)

// PortfolioReader defines read operations for portfolio data.
type PortfolioReader interface {
	// FindPortfolioByUserID retrieves the portfolio owned by a user.
	FindPortfolioByUserID(ctx context.Context, userID string) (*domain.Portfolio, error)
}

// PortfolioWriter defines write operations for portfolio data.
type PortfolioWriter interface {
	// SavePortfolio persists the full portfolio, replacing any stored version.
	SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error
}

// PortfolioRepositoryFacade combines all portfolio-related repository interfaces.
type PortfolioRepositoryFacade interface {
	PortfolioReader
	PortfolioWriter
}
