package engine

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tranche_go/internal/domain"
)

func fixedClock() Clock {
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

func TestNewTransaction(t *testing.T) {
	tranche := domain.Tranche{
		Name:               "Test",
		UnitPrice:          domain.UnitPrice,
		RemainingLiquidity: decimal.NewFromInt(1_000_000),
	}

	t.Run("Buy Debits Liquidity", func(t *testing.T) {
		tx := NewTransaction(domain.TradeBuy, domain.SourceUser, tranche, 100, fixedClock())

		if !tx.TotalPrice.Equal(decimal.NewFromInt(100_000)) {
			t.Errorf("expected total price 100000, got %s", tx.TotalPrice)
		}
		if !tx.LiquidityAfter.Equal(decimal.NewFromInt(900_000)) {
			t.Errorf("expected liquidity 900000, got %s", tx.LiquidityAfter)
		}
		if tx.ID == uuid.Nil {
			t.Error("transaction should carry an id")
		}
	})

	t.Run("Sell Credits Liquidity", func(t *testing.T) {
		tx := NewTransaction(domain.TradeSell, domain.SourceUser, tranche, 100, fixedClock())

		if !tx.LiquidityAfter.Equal(decimal.NewFromInt(1_100_000)) {
			t.Errorf("expected liquidity 1100000, got %s", tx.LiquidityAfter)
		}
	})

	t.Run("Injected Clock", func(t *testing.T) {
		tx := NewTransaction(domain.TradeBuy, domain.SourceBackground, tranche, 1, fixedClock())
		if !tx.Timestamp.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
			t.Errorf("expected pinned timestamp, got %s", tx.Timestamp)
		}
	})
}

func TestBuildBlock(t *testing.T) {
	tranche := domain.Tranche{
		Name:               "Test",
		UnitPrice:          domain.UnitPrice,
		YieldRate:          decimal.RequireFromString("0.4"),
		CashFlowTotal:      decimal.NewFromInt(1000),
		TotalUnits:         100,
		RemainingLiquidity: decimal.NewFromInt(1_000_000),
	}
	tx := NewTransaction(domain.TradeBuy, domain.SourceUser, tranche, 10, fixedClock())

	block := BuildBlock(tx, 1, tranche)

	if block.SequenceNumber != 1 {
		t.Errorf("expected sequence 1, got %d", block.SequenceNumber)
	}
	if block.TxID != tx.ID {
		t.Error("block should reference its transaction")
	}
	if !block.YieldRate.Equal(tranche.YieldRate) {
		t.Errorf("expected yield 0.4, got %s", block.YieldRate)
	}
	// (1000 / 100) * 10 = 100
	if !block.CashFlowShare.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected cash flow share 100, got %s", block.CashFlowShare)
	}
	if !block.TotalPrice.Equal(tx.TotalPrice) || block.UnitAmount != tx.UnitAmount {
		t.Error("block should copy the transaction's amount fields")
	}
	if !block.LiquidityAfter.Equal(tx.LiquidityAfter) {
		t.Error("block should copy the post-trade liquidity")
	}
}
