package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
	portsrepo "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/repositories"
	portssvc "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/services"
	"github.com/Crook1Boss35/valutatrade-hub/internal/dto"
	"github.com/Crook1Boss35/valutatrade-hub/internal/middleware"
)

// ledgerService implements the buy/sell operations and the portfolio view.
//
// A cross-currency trade touches two wallets. The withdrawal side runs first and
// validates funds before mutating anything, and the portfolio is persisted only
// after both mutations succeed, so a trade either applies in full or not at all.
type ledgerService struct {
	portfolioRepo portsrepo.PortfolioRepositoryFacade
	currencySvc   portssvc.CurrencySvcFacade
	rateLookup    portssvc.RateLookupSvcFacade
	baseCurrency  string
}

// NewLedgerService creates a new ledger service with the given default base currency.
func NewLedgerService(portfolioRepo portsrepo.PortfolioRepositoryFacade, currencySvc portssvc.CurrencySvcFacade, rateLookup portssvc.RateLookupSvcFacade, baseCurrency string) portssvc.LedgerSvcFacade {
	return &ledgerService{
		portfolioRepo: portfolioRepo,
		currencySvc:   currencySvc,
		rateLookup:    rateLookup,
		baseCurrency:  baseCurrency,
	}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// prepareTrade validates a trade request and loads the user's portfolio.
func (s *ledgerService) prepareTrade(ctx context.Context, userID string, req dto.TradeRequest) (currency, base string, portfolio *domain.Portfolio, err error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return "", "", nil, fmt.Errorf("%w: amount must be a positive number", apperrors.ErrValidation)
	}

	tradedCurrency, err := s.currencySvc.GetCurrencyByCode(ctx, req.Currency)
	if err != nil {
		return "", "", nil, err
	}

	baseCode := req.Base
	if baseCode == "" {
		baseCode = s.baseCurrency
	}
	baseCurrency, err := s.currencySvc.GetCurrencyByCode(ctx, baseCode)
	if err != nil {
		return "", "", nil, err
	}

	portfolio, err = s.portfolioRepo.FindPortfolioByUserID(ctx, userID)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	return tradedCurrency.Code, baseCurrency.Code, portfolio, nil
}

// Buy acquires req.Amount of req.Currency. A same-currency buy is a plain deposit;
// a cross-currency buy pays rate*amount from the base wallet at the cached rate.
func (s *ledgerService) Buy(ctx context.Context, userID string, req dto.TradeRequest) (*dto.TradeSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Buy started",
		slog.String("user_id", userID),
		slog.String("currency", req.Currency),
		slog.String("amount", req.Amount.String()),
		slog.String("base", req.Base),
	)

	summary, err := s.buy(ctx, userID, req)
	if err != nil {
		logger.Warn("Buy failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Buy completed",
		slog.String("user_id", userID),
		slog.String("currency", summary.Currency),
		slog.String("amount", summary.Amount.String()),
		slog.String("base", summary.Base),
	)
	return summary, nil
}

func (s *ledgerService) buy(ctx context.Context, userID string, req dto.TradeRequest) (*dto.TradeSummary, error) {
	currency, base, portfolio, err := s.prepareTrade(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	amount := req.Amount

	// Same-currency buy is a pure deposit; no rate is involved.
	if currency == base {
		wallet := portfolio.EnsureWallet(currency)
		before := wallet.Balance
		if err := wallet.Deposit(amount); err != nil {
			return nil, err
		}
		if err := s.portfolioRepo.SavePortfolio(ctx, *portfolio); err != nil {
			return nil, fmt.Errorf("failed to save portfolio: %w", err)
		}
		return &dto.TradeSummary{
			Currency:       currency,
			Amount:         amount,
			CurrencyBefore: before,
			CurrencyAfter:  wallet.Balance,
			Base:           base,
		}, nil
	}

	point, err := s.rateLookup.GetRate(ctx, currency, base, nil)
	if err != nil {
		return nil, err
	}
	cost := point.Rate.Mul(amount)

	currencyWallet := portfolio.EnsureWallet(currency)
	baseWallet := portfolio.EnsureWallet(base)
	currencyBefore := currencyWallet.Balance
	baseBefore := baseWallet.Balance

	// Withdraw validates funds first; on failure neither wallet has changed.
	if err := baseWallet.Withdraw(cost); err != nil {
		return nil, err
	}
	if err := currencyWallet.Deposit(amount); err != nil {
		return nil, err
	}

	if err := s.portfolioRepo.SavePortfolio(ctx, *portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	baseAfter := baseWallet.Balance
	return &dto.TradeSummary{
		Currency:       currency,
		Amount:         amount,
		CurrencyBefore: currencyBefore,
		CurrencyAfter:  currencyWallet.Balance,
		Base:           base,
		BaseBefore:     &baseBefore,
		BaseAfter:      &baseAfter,
		RatePair:       point.Pair,
		Rate:           &point.Rate,
		ConvertedValue: &cost,
	}, nil
}

// Sell disposes req.Amount of req.Currency. The traded-currency wallet must
// already exist: a currency never held cannot be sold.
func (s *ledgerService) Sell(ctx context.Context, userID string, req dto.TradeRequest) (*dto.TradeSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	logger.Info("Sell started",
		slog.String("user_id", userID),
		slog.String("currency", req.Currency),
		slog.String("amount", req.Amount.String()),
		slog.String("base", req.Base),
	)

	summary, err := s.sell(ctx, userID, req)
	if err != nil {
		logger.Warn("Sell failed", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Sell completed",
		slog.String("user_id", userID),
		slog.String("currency", summary.Currency),
		slog.String("amount", summary.Amount.String()),
		slog.String("base", summary.Base),
	)
	return summary, nil
}

func (s *ledgerService) sell(ctx context.Context, userID string, req dto.TradeRequest) (*dto.TradeSummary, error) {
	currency, base, portfolio, err := s.prepareTrade(ctx, userID, req)
	if err != nil {
		return nil, err
	}
	amount := req.Amount

	currencyWallet := portfolio.Wallet(currency)
	if currencyWallet == nil {
		return nil, fmt.Errorf("%w: no %s wallet to sell from", apperrors.ErrNotFound, currency)
	}

	// Same-currency sell is a pure withdrawal; no rate is involved.
	if currency == base {
		before := currencyWallet.Balance
		if err := currencyWallet.Withdraw(amount); err != nil {
			return nil, err
		}
		if err := s.portfolioRepo.SavePortfolio(ctx, *portfolio); err != nil {
			return nil, fmt.Errorf("failed to save portfolio: %w", err)
		}
		return &dto.TradeSummary{
			Currency:       currency,
			Amount:         amount,
			CurrencyBefore: before,
			CurrencyAfter:  currencyWallet.Balance,
			Base:           base,
		}, nil
	}

	point, err := s.rateLookup.GetRate(ctx, currency, base, nil)
	if err != nil {
		return nil, err
	}
	revenue := point.Rate.Mul(amount)

	baseWallet := portfolio.EnsureWallet(base)
	currencyBefore := currencyWallet.Balance
	baseBefore := baseWallet.Balance

	if err := currencyWallet.Withdraw(amount); err != nil {
		return nil, err
	}
	if err := baseWallet.Deposit(revenue); err != nil {
		return nil, err
	}

	if err := s.portfolioRepo.SavePortfolio(ctx, *portfolio); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	baseAfter := baseWallet.Balance
	return &dto.TradeSummary{
		Currency:       currency,
		Amount:         amount,
		CurrencyBefore: currencyBefore,
		CurrencyAfter:  currencyWallet.Balance,
		Base:           base,
		BaseBefore:     &baseBefore,
		BaseAfter:      &baseAfter,
		RatePair:       point.Pair,
		Rate:           &point.Rate,
		ConvertedValue: &revenue,
	}, nil
}

// ShowPortfolio values every held balance in the requested base currency. Any
// held currency without a fresh rate fails the whole view; there are no partial
// totals.
func (s *ledgerService) ShowPortfolio(ctx context.Context, userID, baseCode string) (*dto.PortfolioSummary, error) {
	if baseCode == "" {
		baseCode = s.baseCurrency
	}
	baseCurrency, err := s.currencySvc.GetCurrencyByCode(ctx, baseCode)
	if err != nil {
		return nil, err
	}
	base := baseCurrency.Code

	portfolio, err := s.portfolioRepo.FindPortfolioByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}

	codes := make([]string, 0, len(portfolio.Wallets))
	for code := range portfolio.Wallets {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	summary := &dto.PortfolioSummary{Base: base, Rows: []dto.PortfolioRow{}, Total: decimal.Zero}
	for _, code := range codes {
		balance := portfolio.Wallets[code].Balance

		value := balance
		if code != base {
			point, err := s.rateLookup.GetRate(ctx, code, base, nil)
			if err != nil {
				return nil, fmt.Errorf("cannot value %s in %s: %w", code, base, err)
			}
			value = balance.Mul(point.Rate)
		}

		summary.Rows = append(summary.Rows, dto.PortfolioRow{
			Currency:    code,
			Balance:     balance,
			ValueInBase: value,
		})
		summary.Total = summary.Total.Add(value)
	}

	return summary, nil
}
