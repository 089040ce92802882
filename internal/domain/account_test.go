package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_Deltas(t *testing.T) {
	a := NewAccount(decimal.NewFromInt(10_000_000), []string{TrancheSenior, TrancheMezzanine, TrancheEquity})

	a.ApplyCashDelta(decimal.NewFromInt(-100_000))
	a.ApplyHoldingsDelta(TrancheSenior, 100)

	if !a.Cash().Equal(decimal.NewFromInt(9_900_000)) {
		t.Errorf("expected cash 9900000, got %s", a.Cash())
	}
	if a.Holding(TrancheSenior) != 100 {
		t.Errorf("expected 100 units, got %d", a.Holding(TrancheSenior))
	}

	a.ApplyCashDelta(decimal.NewFromInt(100_000))
	a.ApplyHoldingsDelta(TrancheSenior, -100)

	if !a.Cash().Equal(decimal.NewFromInt(10_000_000)) {
		t.Errorf("cash should round-trip, got %s", a.Cash())
	}
	if a.Holding(TrancheSenior) != 0 {
		t.Errorf("holdings should round-trip, got %d", a.Holding(TrancheSenior))
	}
}

func TestAccount_Snapshot(t *testing.T) {
	a := NewAccount(decimal.NewFromInt(5_000), []string{TrancheSenior, TrancheEquity})
	a.ApplyHoldingsDelta(TrancheSenior, 3)
	a.ApplyHoldingsDelta(TrancheEquity, 2)

	snap := a.Snapshot(UnitPrice)

	if !snap.Cash.Equal(decimal.NewFromInt(5_000)) {
		t.Errorf("expected cash 5000, got %s", snap.Cash)
	}
	if !snap.HoldingsValue.Equal(decimal.NewFromInt(5_000)) {
		t.Errorf("expected holdings value 5000, got %s", snap.HoldingsValue)
	}

	t.Run("No Aliasing", func(t *testing.T) {
		snap.Holdings[TrancheSenior] = 999
		if a.Holding(TrancheSenior) != 3 {
			t.Error("mutating a snapshot must not touch the account")
		}
	})
}
