package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
	portssvc "github.com/Crook1Boss35/valutatrade-hub/internal/core/ports/services"
	"github.com/Crook1Boss35/valutatrade-hub/internal/dto"
	"github.com/Crook1Boss35/valutatrade-hub/internal/middleware"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Buy(ctx context.Context, userID string, req dto.TradeRequest) (*dto.TradeSummary, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TradeSummary), args.Error(1)
}

func (m *MockLedgerService) Sell(ctx context.Context, userID string, req dto.TradeRequest) (*dto.TradeSummary, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TradeSummary), args.Error(1)
}

func (m *MockLedgerService) ShowPortfolio(ctx context.Context, userID, baseCode string) (*dto.PortfolioSummary, error) {
	args := m.Called(ctx, userID, baseCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PortfolioSummary), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Test Suite ---
type TradingHandlerTestSuite struct {
	suite.Suite
	router     *gin.Engine
	mockLedger *MockLedgerService
	jwtSecret  string
	userID     string
}

// generateTestToken creates a signed JWT for the test user.
func (suite *TradingHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *TradingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = "user-1"

	suite.mockLedger = new(MockLedgerService)

	v1 := suite.router.Group("/api/v1", middleware.AuthMiddleware(suite.jwtSecret))
	registerTradingRoutes(v1, suite.mockLedger)
}

func (suite *TradingHandlerTestSuite) doRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *TradingHandlerTestSuite) TestBuy_Success() {
	reqBody := dto.TradeRequest{Currency: "BTC", Amount: decimal.NewFromInt(1)}
	summary := &dto.TradeSummary{
		Currency:      "BTC",
		Amount:        decimal.NewFromInt(1),
		CurrencyAfter: decimal.NewFromInt(1),
		Base:          "USD",
	}
	suite.mockLedger.On("Buy", mock.Anything, suite.userID, mock.MatchedBy(func(r dto.TradeRequest) bool {
		return r.Currency == "BTC" && r.Amount.Equal(decimal.NewFromInt(1))
	})).Return(summary, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/trade/buy", reqBody, suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusOK, w.Code)
	var got dto.TradeSummary
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal("BTC", got.Currency)
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *TradingHandlerTestSuite) TestBuy_NoToken() {
	reqBody := dto.TradeRequest{Currency: "BTC", Amount: decimal.NewFromInt(1)}

	w := suite.doRequest(http.MethodPost, "/api/v1/trade/buy", reqBody, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockLedger.AssertNotCalled(suite.T(), "Buy", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TradingHandlerTestSuite) TestBuy_InvalidBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/trade/buy", bytes.NewBufferString(`{"currency":`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	w := httptest.NewRecorder()

	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TradingHandlerTestSuite) TestBuy_InsufficientFunds() {
	reqBody := dto.TradeRequest{Currency: "BTC", Amount: decimal.NewFromInt(100)}
	suite.mockLedger.On("Buy", mock.Anything, suite.userID, mock.AnythingOfType("dto.TradeRequest")).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/trade/buy", reqBody, suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *TradingHandlerTestSuite) TestSell_StaleRate() {
	reqBody := dto.TradeRequest{Currency: "BTC", Amount: decimal.NewFromInt(1)}
	suite.mockLedger.On("Sell", mock.Anything, suite.userID, mock.AnythingOfType("dto.TradeRequest")).
		Return(nil, apperrors.ErrStaleRate).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/trade/sell", reqBody, suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

func (suite *TradingHandlerTestSuite) TestSell_UnknownCurrency() {
	reqBody := dto.TradeRequest{Currency: "XYZ", Amount: decimal.NewFromInt(1)}
	suite.mockLedger.On("Sell", mock.Anything, suite.userID, mock.AnythingOfType("dto.TradeRequest")).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/trade/sell", reqBody, suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TradingHandlerTestSuite) TestShowPortfolio_Success() {
	summary := &dto.PortfolioSummary{
		Base: "EUR",
		Rows: []dto.PortfolioRow{
			{Currency: "BTC", Balance: decimal.NewFromInt(1), ValueInBase: decimal.NewFromInt(55000)},
		},
		Total: decimal.NewFromInt(55000),
	}
	suite.mockLedger.On("ShowPortfolio", mock.Anything, suite.userID, "EUR").Return(summary, nil).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/portfolio?base=EUR", nil, suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusOK, w.Code)
	var got dto.PortfolioSummary
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal("EUR", got.Base)
	suite.Require().Len(got.Rows, 1)
	suite.True(got.Total.Equal(decimal.NewFromInt(55000)))
	suite.mockLedger.AssertExpectations(suite.T())
}

func (suite *TradingHandlerTestSuite) TestShowPortfolio_StaleRate() {
	suite.mockLedger.On("ShowPortfolio", mock.Anything, suite.userID, "").
		Return(nil, apperrors.ErrStaleRate).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/portfolio", nil, suite.generateTestToken(suite.userID))

	suite.Equal(http.StatusServiceUnavailable, w.Code)
}

// --- Run Suite ---
func TestTradingHandler(t *testing.T) {
	suite.Run(t, new(TradingHandlerTestSuite))
}
