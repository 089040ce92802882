package domain

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Tranche names form a closed set of three instrument classes.
const (
	TrancheSenior    = "Senior"
	TrancheMezzanine = "Mezzanine"
	TrancheEquity    = "Equity"
)

// UnitPrice is the fixed price of a single tranche unit, in currency units.
var UnitPrice = decimal.NewFromInt(1000)

// Tranche describes one instrument class. All fields except
// RemainingLiquidity are immutable after construction.
type Tranche struct {
	Name          string          `json:"name"`
	Percentage    int             `json:"percentage"`
	Volume        decimal.Decimal `json:"volume"`
	YieldRate     decimal.Decimal `json:"yield_rate"`
	Reserve       decimal.Decimal `json:"reserve"`
	CashFlowTotal decimal.Decimal `json:"cash_flow_total"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalUnits    int64           `json:"total_units"`

	// RemainingLiquidity is the currency capacity left to buy into this
	// tranche. Lives here but is only mutated through Registry.SetLiquidity.
	RemainingLiquidity decimal.Decimal `json:"remaining_liquidity"`
}

// CashFlowShare returns the proportional cash flow attributable to a
// trade of the given unit count: (CashFlowTotal / TotalUnits) * units.
func (t *Tranche) CashFlowShare(units int64) decimal.Decimal {
	return t.CashFlowTotal.
		Div(decimal.NewFromInt(t.TotalUnits)).
		Mul(decimal.NewFromInt(units))
}

// Registry is the sole owner of mutable tranche state. It performs no
// validation; bounds are the caller's concern.
type Registry struct {
	mu       sync.RWMutex
	tranches map[string]*Tranche
	order    []string
}

// NewRegistry builds a registry from seed tranches, preserving the given
// display order. RemainingLiquidity is initialized to Volume when the
// seed leaves it zero.
func NewRegistry(seed []Tranche) *Registry {
	r := &Registry{
		tranches: make(map[string]*Tranche, len(seed)),
		order:    make([]string, 0, len(seed)),
	}
	for i := range seed {
		t := seed[i]
		if t.RemainingLiquidity.IsZero() {
			t.RemainingLiquidity = t.Volume
		}
		r.tranches[t.Name] = &t
		r.order = append(r.order, t.Name)
	}
	return r
}

// Get returns a snapshot of the named tranche.
func (r *Registry) Get(name string) (Tranche, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tranches[name]
	if !ok {
		return Tranche{}, ErrTrancheNotFound
	}
	return *t, nil
}

// SetLiquidity overwrites the remaining liquidity of the named tranche.
func (r *Registry) SetLiquidity(name string, value decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tranches[name]
	if !ok {
		return ErrTrancheNotFound
	}
	t.RemainingLiquidity = value
	return nil
}

// List returns snapshots of all tranches in display order.
func (r *Registry) List() []Tranche {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Tranche, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, *r.tranches[name])
	}
	return result
}
