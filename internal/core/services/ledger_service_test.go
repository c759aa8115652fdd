package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
	"github.com/Crook1Boss35/valutatrade-hub/internal/core/domain"
	portssvc "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/services"
	"github.com/Crook1Boss35/valutatrade-hub/internal/core/services"
	"github.com/Crook1Boss35/valutatrade-hub/internal/dto"
)

// --- Mock PortfolioRepository ---
type MockPortfolioRepository struct {
	mock.Mock
}

func (m *MockPortfolioRepository) FindPortfolioByUserID(ctx context.Context, userID string) (*domain.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Portfolio), args.Error(1)
}

func (m *MockPortfolioRepository) SavePortfolio(ctx context.Context, portfolio domain.Portfolio) error {
	args := m.Called(ctx, portfolio)
	return args.Error(0)
}

// --- Mock RateLookupService ---
type MockRateLookupService struct {
	mock.Mock
}

func (m *MockRateLookupService) GetRate(ctx context.Context, fromCode, toCode string, maxAge *time.Duration) (*domain.RatePoint, error) {
	args := m.Called(ctx, fromCode, toCode, maxAge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatePoint), args.Error(1)
}

// --- Test Suite ---
type LedgerServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockPortfolioRepository
	mockLookup *MockRateLookupService
	service    portssvc.LedgerSvcFacade
	userID     string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockPortfolioRepository)
	suite.mockLookup = new(MockRateLookupService)
	suite.service = services.NewLedgerService(suite.mockRepo, services.NewCurrencyService(), suite.mockLookup, "USD")
	suite.userID = "user-1"
}

func (suite *LedgerServiceTestSuite) portfolioWith(balances map[string]decimal.Decimal) *domain.Portfolio {
	p := domain.NewPortfolio(suite.userID)
	for code, balance := range balances {
		w := p.EnsureWallet(code)
		w.Balance = balance
	}
	return p
}

func (suite *LedgerServiceTestSuite) expectRate(from, to string, rate decimal.Decimal) {
	point := &domain.RatePoint{
		Pair:      domain.PairKey(from, to),
		Rate:      rate,
		UpdatedAt: time.Now().UTC(),
		Source:    "coingecko",
	}
	suite.mockLookup.On("GetRate", mock.Anything, from, to, (*time.Duration)(nil)).Return(point, nil).Once()
}

// --- Buy ---

func (suite *LedgerServiceTestSuite) TestBuy_CrossCurrency() {
	ctx := context.Background()
	portfolio := suite.portfolioWith(map[string]decimal.Decimal{"USD": decimal.NewFromInt(100000)})

	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()
	suite.expectRate("BTC", "USD", decimal.NewFromInt(59337))
	suite.mockRepo.On("SavePortfolio", ctx, mock.MatchedBy(func(p domain.Portfolio) bool {
		return p.Wallets["BTC"].Balance.Equal(decimal.NewFromInt(1)) &&
			p.Wallets["USD"].Balance.Equal(decimal.NewFromInt(40663))
	})).Return(nil).Once()

	summary, err := suite.service.Buy(ctx, suite.userID, dto.TradeRequest{Currency: "BTC", Amount: decimal.NewFromInt(1)})

	suite.Require().NoError(err)
	suite.Equal("BTC", summary.Currency)
	suite.Equal("USD", summary.Base)
	suite.True(summary.CurrencyBefore.IsZero())
	suite.True(summary.CurrencyAfter.Equal(decimal.NewFromInt(1)))
	suite.Require().NotNil(summary.BaseAfter)
	suite.True(summary.BaseAfter.Equal(decimal.NewFromInt(40663)))
	suite.Require().NotNil(summary.ConvertedValue)
	suite.True(summary.ConvertedValue.Equal(decimal.NewFromInt(59337)))
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockLookup.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestBuy_InsufficientFundsLeavesPortfolioUntouched() {
	ctx := context.Background()
	portfolio := suite.portfolioWith(map[string]decimal.Decimal{"USD": decimal.NewFromInt(100)})

	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()
	suite.expectRate("BTC", "USD", decimal.NewFromInt(59337))

	_, err := suite.service.Buy(ctx, suite.userID, dto.TradeRequest{Currency: "BTC", Amount: decimal.NewFromInt(1)})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	// Neither wallet changed and nothing was persisted.
	suite.True(portfolio.Wallets["USD"].Balance.Equal(decimal.NewFromInt(100)))
	suite.True(portfolio.Wallets["BTC"].Balance.IsZero())
	suite.mockRepo.AssertNotCalled(suite.T(), "SavePortfolio", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestBuy_SameCurrencyIsDeposit() {
	ctx := context.Background()
	portfolio := suite.portfolioWith(map[string]decimal.Decimal{"USD": decimal.NewFromInt(50)})

	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()
	suite.mockRepo.On("SavePortfolio", ctx, mock.MatchedBy(func(p domain.Portfolio) bool {
		return p.Wallets["USD"].Balance.Equal(decimal.NewFromInt(150))
	})).Return(nil).Once()

	summary, err := suite.service.Buy(ctx, suite.userID, dto.TradeRequest{Currency: "USD", Amount: decimal.NewFromInt(100)})

	suite.Require().NoError(err)
	suite.True(summary.CurrencyAfter.Equal(decimal.NewFromInt(150)))
	suite.Nil(summary.Rate)
	suite.Empty(summary.RatePair)
	// No rate is involved in a same-currency trade.
	suite.mockLookup.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestBuy_NonPositiveAmount() {
	ctx := context.Background()

	_, err := suite.service.Buy(ctx, suite.userID, dto.TradeRequest{Currency: "BTC", Amount: decimal.Zero})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindPortfolioByUserID", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestBuy_UnknownCurrency() {
	ctx := context.Background()

	_, err := suite.service.Buy(ctx, suite.userID, dto.TradeRequest{Currency: "XYZ", Amount: decimal.NewFromInt(1)})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestBuy_StaleRatePropagates() {
	ctx := context.Background()
	portfolio := suite.portfolioWith(map[string]decimal.Decimal{"USD": decimal.NewFromInt(100000)})

	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()
	suite.mockLookup.On("GetRate", mock.Anything, "BTC", "USD", (*time.Duration)(nil)).Return(nil, apperrors.ErrStaleRate).Once()

	_, err := suite.service.Buy(ctx, suite.userID, dto.TradeRequest{Currency: "BTC", Amount: decimal.NewFromInt(1)})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStaleRate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SavePortfolio", mock.Anything, mock.Anything)
}

// --- Sell ---

func (suite *LedgerServiceTestSuite) TestSell_CrossCurrency() {
	ctx := context.Background()
	portfolio := suite.portfolioWith(map[string]decimal.Decimal{"BTC": decimal.NewFromInt(2)})

	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()
	suite.expectRate("BTC", "USD", decimal.NewFromInt(60000))
	suite.mockRepo.On("SavePortfolio", ctx, mock.MatchedBy(func(p domain.Portfolio) bool {
		return p.Wallets["BTC"].Balance.Equal(decimal.NewFromInt(1)) &&
			p.Wallets["USD"].Balance.Equal(decimal.NewFromInt(60000))
	})).Return(nil).Once()

	summary, err := suite.service.Sell(ctx, suite.userID, dto.TradeRequest{Currency: "BTC", Amount: decimal.NewFromInt(1)})

	suite.Require().NoError(err)
	suite.True(summary.CurrencyAfter.Equal(decimal.NewFromInt(1)))
	suite.Require().NotNil(summary.BaseAfter)
	suite.True(summary.BaseAfter.Equal(decimal.NewFromInt(60000)))
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestSell_NoWalletForCurrency() {
	ctx := context.Background()
	portfolio := suite.portfolioWith(map[string]decimal.Decimal{"USD": decimal.NewFromInt(100)})

	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()

	_, err := suite.service.Sell(ctx, suite.userID, dto.TradeRequest{Currency: "BTC", Amount: decimal.NewFromInt(1)})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), "no BTC wallet")
}

func (suite *LedgerServiceTestSuite) TestSell_InsufficientHoldings() {
	ctx := context.Background()
	portfolio := suite.portfolioWith(map[string]decimal.Decimal{"BTC": decimal.NewFromFloat(0.5)})

	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()
	suite.expectRate("BTC", "USD", decimal.NewFromInt(60000))

	_, err := suite.service.Sell(ctx, suite.userID, dto.TradeRequest{Currency: "BTC", Amount: decimal.NewFromInt(1)})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.True(portfolio.Wallets["BTC"].Balance.Equal(decimal.NewFromFloat(0.5)))
	suite.mockRepo.AssertNotCalled(suite.T(), "SavePortfolio", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestSell_SameCurrencyIsWithdrawal() {
	ctx := context.Background()
	portfolio := suite.portfolioWith(map[string]decimal.Decimal{"USD": decimal.NewFromInt(150)})

	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()
	suite.mockRepo.On("SavePortfolio", ctx, mock.MatchedBy(func(p domain.Portfolio) bool {
		return p.Wallets["USD"].Balance.Equal(decimal.NewFromInt(50))
	})).Return(nil).Once()

	summary, err := suite.service.Sell(ctx, suite.userID, dto.TradeRequest{Currency: "USD", Amount: decimal.NewFromInt(100)})

	suite.Require().NoError(err)
	suite.True(summary.CurrencyAfter.Equal(decimal.NewFromInt(50)))
	suite.mockLookup.AssertNotCalled(suite.T(), "GetRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestSell_ExplicitBaseOverridesDefault() {
	ctx := context.Background()
	portfolio := suite.portfolioWith(map[string]decimal.Decimal{"BTC": decimal.NewFromInt(1)})

	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()
	suite.expectRate("BTC", "EUR", decimal.NewFromInt(55000))
	suite.mockRepo.On("SavePortfolio", ctx, mock.AnythingOfType("domain.Portfolio")).Return(nil).Once()

	summary, err := suite.service.Sell(ctx, suite.userID, dto.TradeRequest{Currency: "BTC", Amount: decimal.NewFromInt(1), Base: "eur"})

	suite.Require().NoError(err)
	suite.Equal("EUR", summary.Base)
	suite.Equal("BTC_EUR", summary.RatePair)
	suite.mockLookup.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestSameCurrencyBuyThenSellRoundTrips() {
	ctx := context.Background()
	portfolio := suite.portfolioWith(map[string]decimal.Decimal{"USD": decimal.NewFromFloat(123.45)})

	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Twice()
	suite.mockRepo.On("SavePortfolio", ctx, mock.AnythingOfType("domain.Portfolio")).Return(nil).Twice()

	amount := decimal.NewFromFloat(23.45)
	_, err := suite.service.Buy(ctx, suite.userID, dto.TradeRequest{Currency: "USD", Amount: amount})
	suite.Require().NoError(err)
	_, err = suite.service.Sell(ctx, suite.userID, dto.TradeRequest{Currency: "USD", Amount: amount})
	suite.Require().NoError(err)

	suite.True(portfolio.Wallets["USD"].Balance.Equal(decimal.NewFromFloat(123.45)))
}

// --- ShowPortfolio ---

func (suite *LedgerServiceTestSuite) TestShowPortfolio_ValuesAllWallets() {
	ctx := context.Background()
	portfolio := suite.portfolioWith(map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1000),
		"BTC": decimal.NewFromInt(2),
		"EUR": decimal.NewFromInt(100),
	})

	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()
	suite.expectRate("BTC", "USD", decimal.NewFromInt(60000))
	suite.expectRate("EUR", "USD", decimal.NewFromFloat(1.1))

	summary, err := suite.service.ShowPortfolio(ctx, suite.userID, "")

	suite.Require().NoError(err)
	suite.Equal("USD", summary.Base)
	suite.Require().Len(summary.Rows, 3)
	// Rows come back sorted by currency code.
	suite.Equal("BTC", summary.Rows[0].Currency)
	suite.Equal("EUR", summary.Rows[1].Currency)
	suite.Equal("USD", summary.Rows[2].Currency)
	suite.True(summary.Rows[0].ValueInBase.Equal(decimal.NewFromInt(120000)))
	suite.True(summary.Rows[1].ValueInBase.Equal(decimal.NewFromInt(110)))
	// The base wallet is valued at its own balance, no rate lookup involved.
	suite.True(summary.Rows[2].ValueInBase.Equal(decimal.NewFromInt(1000)))
	suite.True(summary.Total.Equal(decimal.NewFromInt(121110)))
	suite.mockLookup.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestShowPortfolio_FailsWhenAnyRateMissing() {
	ctx := context.Background()
	portfolio := suite.portfolioWith(map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1000),
		"BTC": decimal.NewFromInt(2),
	})

	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(portfolio, nil).Once()
	suite.mockLookup.On("GetRate", mock.Anything, "BTC", "USD", (*time.Duration)(nil)).Return(nil, apperrors.ErrStaleRate).Once()

	summary, err := suite.service.ShowPortfolio(ctx, suite.userID, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrStaleRate)
	suite.Contains(err.Error(), "cannot value BTC in USD")
	suite.Nil(summary)
}

func (suite *LedgerServiceTestSuite) TestShowPortfolio_EmptyPortfolio() {
	ctx := context.Background()

	suite.mockRepo.On("FindPortfolioByUserID", ctx, suite.userID).Return(domain.NewPortfolio(suite.userID), nil).Once()

	summary, err := suite.service.ShowPortfolio(ctx, suite.userID, "")

	suite.Require().NoError(err)
	suite.Empty(summary.Rows)
	suite.True(summary.Total.IsZero())
}

// --- Run Suite ---
func TestLedgerService(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
