package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Crook1Boss35/valutatrade-hub/internal/apperrors"
)

// Wallet holds one currency balance. The balance never goes negative; mutation
// happens only through Deposit and Withdraw.
type Wallet struct {
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

// NewWallet creates an empty wallet for a currency.
func NewWallet(currencyCode string) *Wallet {
	return &Wallet{CurrencyCode: currencyCode, Balance: decimal.Zero}
}

// Deposit adds a strictly positive amount to the balance.
func (w *Wallet) Deposit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: deposit amount must be positive", apperrors.ErrValidation)
	}
	w.Balance = w.Balance.Add(amount)
	return nil
}

// Withdraw removes a strictly positive amount from the balance. It fails before
// mutating anything when the wallet does not hold enough.
func (w *Wallet) Withdraw(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: withdrawal amount must be positive", apperrors.ErrValidation)
	}
	if amount.GreaterThan(w.Balance) {
		return fmt.Errorf("%w: have %s %s, need %s %s",
			apperrors.ErrInsufficientFunds,
			w.Balance.String(), w.CurrencyCode, amount.String(), w.CurrencyCode)
	}
	w.Balance = w.Balance.Sub(amount)
	return nil
}

// Portfolio owns the wallets of exactly one user, at most one wallet per currency.
// It is created empty at registration and lazily extended on first use of a currency.
type Portfolio struct {
	UserID  string             `json:"userID"`
	Wallets map[string]*Wallet `json:"wallets"`
}

// NewPortfolio creates an empty portfolio for a user.
func NewPortfolio(userID string) *Portfolio {
	return &Portfolio{UserID: userID, Wallets: map[string]*Wallet{}}
}

// Wallet returns the wallet for a currency code, or nil when none exists.
func (p *Portfolio) Wallet(currencyCode string) *Wallet {
	return p.Wallets[currencyCode]
}

// EnsureWallet returns the wallet for a currency code, creating an empty one first
// when the portfolio has never held that currency.
func (p *Portfolio) EnsureWallet(currencyCode string) *Wallet {
	if w, ok := p.Wallets[currencyCode]; ok {
		return w
	}
	w := NewWallet(currencyCode)
	p.Wallets[currencyCode] = w
	return w
}
