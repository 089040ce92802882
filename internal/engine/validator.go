package engine

import (
	"github.com/shopspring/decimal"

	"tranche_go/internal/domain"
)

// ParseAmount converts raw user input into a unit count. Rejects
// anything that is not a strictly positive integer.
func ParseAmount(raw string) (int64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, domain.ErrInvalidAmount
	}
	if !d.IsPositive() || !d.IsInteger() {
		return 0, domain.ErrInvalidAmount
	}
	return d.IntPart(), nil
}

// Validate is a pure predicate over a proposed trade, the selected
// tranche and the account. Rules run in order; the first failure wins.
// No partial fills: a trade is entirely accepted or entirely rejected.
func Validate(amount int64, isBuy bool, tranche domain.Tranche, account *domain.Account) error {
	if amount <= 0 {
		return domain.ErrInvalidAmount
	}

	totalPrice := tranche.UnitPrice.Mul(decimal.NewFromInt(amount))

	if isBuy {
		if totalPrice.GreaterThan(account.Cash()) {
			return domain.ErrInsufficientFunds
		}
		if totalPrice.GreaterThan(tranche.RemainingLiquidity) {
			return domain.ErrInsufficientLiquidity
		}
		return nil
	}

	if amount > account.Holding(tranche.Name) {
		return domain.ErrInsufficientHoldings
	}
	return nil
}
