package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeKind is the direction of a trade.
type TradeKind string

const (
	TradeBuy  TradeKind = "BUY"
	TradeSell TradeKind = "SELL"
)

// TradeSource records which path produced a trade.
type TradeSource string

const (
	SourceUser       TradeSource = "USER"
	SourceBackground TradeSource = "BACKGROUND"
)

// Transaction is one accepted (or synthesized) trade. Never mutated
// after creation.
type Transaction struct {
	ID             uuid.UUID       `json:"id"`
	Timestamp      time.Time       `json:"timestamp"`
	Kind           TradeKind       `json:"kind"`
	Source         TradeSource     `json:"source"`
	TrancheName    string          `json:"tranche_name"`
	UnitAmount     int64           `json:"unit_amount"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	LiquidityAfter decimal.Decimal `json:"liquidity_after"`
}

// Block is one ledger entry, derived 1:1 from an accepted transaction.
// The ledger is append-only; blocks are plain audit records, not a
// tamper-evident chain.
type Block struct {
	SequenceNumber int64           `json:"sequence_number"`
	TxID           uuid.UUID       `json:"tx_id"`
	Timestamp      time.Time       `json:"timestamp"`
	TrancheName    string          `json:"tranche_name"`
	UnitAmount     int64           `json:"unit_amount"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	Kind           TradeKind       `json:"kind"`
	LiquidityAfter decimal.Decimal `json:"liquidity_after"`
	YieldRate      decimal.Decimal `json:"yield_rate"`
	CashFlowShare  decimal.Decimal `json:"cash_flow_share"`
}
