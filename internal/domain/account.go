package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account holds the synthetic user's cash balance and per-tranche unit
// holdings. Invariants for user-initiated trades: cash >= 0 and every
// holding >= 0. Callers validate before applying deltas; background
// trades deliberately skip that gate (see engine.Generator).
type Account struct {
	cash     decimal.Decimal
	holdings map[string]int64
}

// NewAccount creates an account with the given opening cash and zero
// holdings for every listed tranche name.
func NewAccount(cash decimal.Decimal, trancheNames []string) *Account {
	holdings := make(map[string]int64, len(trancheNames))
	for _, name := range trancheNames {
		holdings[name] = 0
	}
	return &Account{cash: cash, holdings: holdings}
}

// Cash returns the current cash balance.
func (a *Account) Cash() decimal.Decimal {
	return a.cash
}

// Holding returns the unit count held for a tranche.
func (a *Account) Holding(trancheName string) int64 {
	return a.holdings[trancheName]
}

// ApplyCashDelta adds delta (which may be negative) to the cash balance.
func (a *Account) ApplyCashDelta(delta decimal.Decimal) {
	a.cash = a.cash.Add(delta)
}

// ApplyHoldingsDelta adds delta units (which may be negative) to the
// holding for a tranche.
func (a *Account) ApplyHoldingsDelta(trancheName string, delta int64) {
	a.holdings[trancheName] += delta
}

// Snapshot returns a copy of the account suitable for display. No
// aliasing: mutating the snapshot never touches the live account.
func (a *Account) Snapshot(unitPrice decimal.Decimal) AccountSnapshot {
	holdings := make(map[string]int64, len(a.holdings))
	var totalUnits int64
	for name, units := range a.holdings {
		holdings[name] = units
		totalUnits += units
	}
	return AccountSnapshot{
		Cash:          a.cash,
		Holdings:      holdings,
		HoldingsValue: unitPrice.Mul(decimal.NewFromInt(totalUnits)),
	}
}

// AccountSnapshot is a point-in-time copy of the account state.
type AccountSnapshot struct {
	Cash          decimal.Decimal  `json:"cash"`
	Holdings      map[string]int64 `json:"holdings"`
	HoldingsValue decimal.Decimal  `json:"holdings_value"`
}

func (s AccountSnapshot) String() string {
	return fmt.Sprintf("cash=%s holdings_value=%s", s.Cash.StringFixed(2), s.HoldingsValue.StringFixed(2))
}
