package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"tranche_go/internal/domain"
	"tranche_go/internal/infra"
)

// AuditSink mirrors accepted trades into an external store. Appends are
// best-effort: a sink failure never blocks or rolls back a trade.
type AuditSink interface {
	RecordBlock(block domain.Block) error
	RecordTransaction(tx domain.Transaction) error
}

// Session is the trade orchestrator. It owns the registry, the account,
// the ledger and the transaction log for one trading session, and is
// the single entry point for the presentation layer.
//
// Two states: Idle (no tranche selected) and TrancheSelected. There is
// no terminal state; the session runs until Stop.
//
// All mutations serialize on mu so every trade applies as one atomic
// unit, whether it came from Submit or from the background generator.
type Session struct {
	mu       sync.RWMutex
	registry *domain.Registry
	account  *domain.Account
	ledger   []domain.Block
	txLog    []domain.Transaction

	selected string // empty means Idle
	lastErr  string

	now  Clock
	sink AuditSink
	gen  *Generator

	boundsWarned bool
}

// NewSession seeds a session from config-derived parts. sink may be nil.
func NewSession(registry *domain.Registry, account *domain.Account, interval time.Duration, sink AuditSink, now Clock) *Session {
	if now == nil {
		now = time.Now
	}
	s := &Session{
		registry: registry,
		account:  account,
		now:      now,
		sink:     sink,
	}
	s.gen = NewGenerator(s, interval)
	return s
}

// Start launches the background trade generator. Idempotent.
func (s *Session) Start(ctx context.Context) {
	s.gen.Start(ctx)
	slog.Info("Trading session started")
}

// Stop cancels the background generator and waits for any in-flight
// tick, guaranteeing no further ledger appends. Idempotent.
func (s *Session) Stop() {
	s.gen.Stop()
	slog.Info("Trading session stopped",
		slog.Int("blocks", len(s.Ledger())),
		slog.Int("transactions", len(s.Transactions())))
}

// SelectTranche moves the session to TrancheSelected and clears any
// prior error.
func (s *Session) SelectTranche(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.registry.Get(name); err != nil {
		return err
	}
	s.selected = name
	s.lastErr = ""
	return nil
}

// Submit validates and applies a user trade against the selected
// tranche. On rejection it records and returns the collapsed user
// message and leaves all state unchanged; on success it clears the
// error. The session stays in TrancheSelected either way.
func (s *Session) Submit(rawAmount string, isBuy bool) (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kind := domain.TradeSell
	if isBuy {
		kind = domain.TradeBuy
	}

	if s.selected == "" {
		return false, s.reject(domain.ErrNoTrancheSelected, isBuy, kind)
	}
	tranche, err := s.registry.Get(s.selected)
	if err != nil {
		return false, s.reject(err, isBuy, kind)
	}

	amount, err := ParseAmount(rawAmount)
	if err != nil {
		return false, s.reject(err, isBuy, kind)
	}
	if err := Validate(amount, isBuy, tranche, s.account); err != nil {
		return false, s.reject(err, isBuy, kind)
	}

	tx := NewTransaction(kind, domain.SourceUser, tranche, amount, s.now)
	s.apply(tx, tranche)
	s.lastErr = ""

	infra.GlobalMetrics.RecordUserAccepted()
	slog.Info("Trade accepted",
		slog.String("tranche", tx.TrancheName),
		slog.String("kind", string(tx.Kind)),
		slog.Int64("units", tx.UnitAmount),
		slog.String("total_price", tx.TotalPrice.String()))
	return true, ""
}

func (s *Session) reject(reason error, isBuy bool, kind domain.TradeKind) string {
	rej := domain.NewRejection(reason, isBuy)
	s.lastErr = rej.Message

	infra.GlobalMetrics.RecordUserRejected()
	slog.Info("Trade rejected",
		slog.String("tranche", s.selected),
		slog.String("kind", string(kind)),
		slog.String("reason", rej.Reason.Error()))
	return rej.Message
}

// submitBackground applies a synthetic trade, bypassing validation.
// Background trades may push liquidity or holdings past their bounds;
// that is preserved as observed simulator behavior, surfaced once via a
// warning rather than clamped.
func (s *Session) submitBackground(trancheName string, amount int64, isBuy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tranche, err := s.registry.Get(trancheName)
	if err != nil {
		slog.Error("Background trade on unknown tranche", slog.String("tranche", trancheName))
		return
	}

	kind := domain.TradeSell
	if isBuy {
		kind = domain.TradeBuy
	}

	tx := NewTransaction(kind, domain.SourceBackground, tranche, amount, s.now)
	s.apply(tx, tranche)

	if !s.boundsWarned && (tx.LiquidityAfter.IsNegative() || tx.LiquidityAfter.GreaterThan(tranche.Volume)) {
		s.boundsWarned = true
		slog.Warn("Background trading pushed liquidity out of bounds",
			slog.String("tranche", tx.TrancheName),
			slog.String("liquidity", tx.LiquidityAfter.String()))
	}

	infra.GlobalMetrics.RecordBackgroundTrade()
	slog.Debug("Background trade applied",
		slog.String("tranche", tx.TrancheName),
		slog.String("kind", string(tx.Kind)),
		slog.Int64("units", tx.UnitAmount))
}

// apply appends the block and transaction and updates balances. Caller
// holds mu. Sequence number is the ledger length plus one, so the
// ledger stays gap-free and 1-indexed.
func (s *Session) apply(tx domain.Transaction, tranche domain.Tranche) {
	block := BuildBlock(tx, int64(len(s.ledger))+1, tranche)

	s.ledger = append(s.ledger, block)
	s.txLog = append(s.txLog, tx)

	if err := ApplyTrade(tx, s.account, s.registry); err != nil {
		// Unreachable for the closed tranche set; log and keep going.
		slog.Error("Balance update failed", slog.Any("error", err))
	}

	if s.sink != nil {
		if err := s.sink.RecordBlock(block); err != nil {
			slog.Warn("Audit block append failed", slog.Any("error", err))
		}
		if err := s.sink.RecordTransaction(tx); err != nil {
			slog.Warn("Audit transaction append failed", slog.Any("error", err))
		}
	}
}

// Tranches returns snapshots of all tranches in display order.
func (s *Session) Tranches() []domain.Tranche {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.List()
}

// Account returns a snapshot of the account state.
func (s *Session) Account() domain.AccountSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account.Snapshot(domain.UnitPrice)
}

// Ledger returns a copy of the full block sequence.
func (s *Session) Ledger() []domain.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Block(nil), s.ledger...)
}

// Transactions returns a copy of the full transaction log.
func (s *Session) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Transaction(nil), s.txLog...)
}

// LastBlocks returns the newest n blocks, oldest first.
func (s *Session) LastBlocks(n int) []domain.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > len(s.ledger) {
		n = len(s.ledger)
	}
	return append([]domain.Block(nil), s.ledger[len(s.ledger)-n:]...)
}

// LastTransactions returns the newest n transactions, oldest first.
func (s *Session) LastTransactions(n int) []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n > len(s.txLog) {
		n = len(s.txLog)
	}
	return append([]domain.Transaction(nil), s.txLog[len(s.txLog)-n:]...)
}

// SelectedTranche returns the currently selected tranche name, empty
// when Idle.
func (s *Session) SelectedTranche() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// LastError returns the most recent rejection message, empty when the
// last submit succeeded or a tranche was just selected.
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
