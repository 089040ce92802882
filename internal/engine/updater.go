package engine

import (
	"tranche_go/internal/domain"
)

// ApplyTrade applies an accepted transaction's effects to the account
// and the tranche registry: cash and liquidity move by totalPrice,
// holdings by unitAmount, all in the trade's direction. Callers must
// hold the session lock so a reader never observes cash debited without
// the matching holdings credit.
func ApplyTrade(tx domain.Transaction, account *domain.Account, registry *domain.Registry) error {
	switch tx.Kind {
	case domain.TradeBuy:
		account.ApplyCashDelta(tx.TotalPrice.Neg())
		account.ApplyHoldingsDelta(tx.TrancheName, tx.UnitAmount)
	case domain.TradeSell:
		account.ApplyCashDelta(tx.TotalPrice)
		account.ApplyHoldingsDelta(tx.TrancheName, -tx.UnitAmount)
	}
	return registry.SetLiquidity(tx.TrancheName, tx.LiquidityAfter)
}
