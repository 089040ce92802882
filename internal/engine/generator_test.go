package engine

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tranche_go/internal/domain"
)

func TestGenerator_TickAppendsExactlyOne(t *testing.T) {
	s := newTestSession(nil)
	gen := NewGenerator(s, time.Hour)
	gen.SeedRand(42)

	for i := 1; i <= 10; i++ {
		gen.Tick()
		if got := len(s.Ledger()); got != i {
			t.Fatalf("tick %d: expected %d blocks, got %d", i, i, got)
		}
		if got := len(s.Transactions()); got != i {
			t.Fatalf("tick %d: expected %d transactions, got %d", i, i, got)
		}
	}

	for _, tx := range s.Transactions() {
		if tx.Source != domain.SourceBackground {
			t.Error("generator trades must be marked as background")
		}
		if tx.UnitAmount < 1 || tx.UnitAmount > 100 {
			t.Errorf("unit amount %d outside [1, 100]", tx.UnitAmount)
		}
	}
}

func TestGenerator_BypassesValidation(t *testing.T) {
	// A tranche with no liquidity left: a user buy would be rejected,
	// a synthetic buy still lands and drives liquidity negative.
	registry := domain.NewRegistry([]domain.Tranche{{
		Name:               "Thin",
		Volume:             decimal.NewFromInt(1_000),
		UnitPrice:          domain.UnitPrice,
		TotalUnits:         1,
		RemainingLiquidity: decimal.NewFromInt(500),
	}})
	account := domain.NewAccount(decimal.NewFromInt(0), []string{"Thin"})
	s := NewSession(registry, account, time.Hour, nil, fixedClock())

	s.submitBackground("Thin", 3, true)

	if len(s.Ledger()) != 1 {
		t.Fatalf("expected 1 block, got %d", len(s.Ledger()))
	}
	thin, _ := registry.Get("Thin")
	if !thin.RemainingLiquidity.Equal(decimal.NewFromInt(-2_500)) {
		t.Errorf("expected liquidity -2500, got %s", thin.RemainingLiquidity)
	}
}

func TestGenerator_StopPreventsFurtherAppends(t *testing.T) {
	s := newTestSession(nil)
	gen := NewGenerator(s, 10*time.Millisecond)
	gen.SeedRand(7)

	gen.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	gen.Stop()

	count := len(s.Ledger())
	if count == 0 {
		t.Fatal("generator should have produced at least one trade")
	}

	time.Sleep(40 * time.Millisecond)
	if got := len(s.Ledger()); got != count {
		t.Errorf("appends after Stop: had %d, now %d", count, got)
	}

	t.Run("Stop Is Idempotent", func(t *testing.T) {
		gen.Stop()
	})
}

func TestGenerator_StartIsIdempotent(t *testing.T) {
	s := newTestSession(nil)
	gen := NewGenerator(s, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gen.Start(ctx)
	gen.Start(ctx)
	gen.Stop()
}
