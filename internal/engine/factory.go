package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tranche_go/internal/domain"
)

// Clock yields timestamps for transactions and blocks. Injected so
// tests can pin time.
type Clock func() time.Time

// NewTransaction assembles an immutable trade record. liquidityAfter is
// the tranche's remaining liquidity once this trade settles:
// remainingLiquidity minus totalPrice for buys, plus for sells.
func NewTransaction(kind domain.TradeKind, source domain.TradeSource, tranche domain.Tranche, amount int64, now Clock) domain.Transaction {
	totalPrice := tranche.UnitPrice.Mul(decimal.NewFromInt(amount))

	liquidityAfter := tranche.RemainingLiquidity.Sub(totalPrice)
	if kind == domain.TradeSell {
		liquidityAfter = tranche.RemainingLiquidity.Add(totalPrice)
	}

	return domain.Transaction{
		ID:             uuid.New(),
		Timestamp:      now(),
		Kind:           kind,
		Source:         source,
		TrancheName:    tranche.Name,
		UnitAmount:     amount,
		TotalPrice:     totalPrice,
		LiquidityAfter: liquidityAfter,
	}
}

// BuildBlock derives a ledger entry from an accepted transaction. Pure:
// never mutates its inputs. sequenceNumber must be the current ledger
// length plus one to keep the sequence gap-free.
func BuildBlock(tx domain.Transaction, sequenceNumber int64, tranche domain.Tranche) domain.Block {
	return domain.Block{
		SequenceNumber: sequenceNumber,
		TxID:           tx.ID,
		Timestamp:      tx.Timestamp,
		TrancheName:    tx.TrancheName,
		UnitAmount:     tx.UnitAmount,
		TotalPrice:     tx.TotalPrice,
		Kind:           tx.Kind,
		LiquidityAfter: tx.LiquidityAfter,
		YieldRate:      tranche.YieldRate,
		CashFlowShare:  tranche.CashFlowShare(tx.UnitAmount),
	}
}
