package app

import (
	"log/slog"
	"time"

	"tranche_go/internal/domain"
	"tranche_go/internal/engine"
	"tranche_go/internal/infra"
	"tranche_go/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Audit   *storage.AuditStore
	Session *engine.Session
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads config, wires the logger, opens the audit store and
// seeds a fresh trading session.
func (b *Bootstrap) Initialize() error {
	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)
	slog.Info("Bootstrapping",
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version))

	// 3. Audit store (in-memory sqlite by default)
	audit, err := storage.NewAuditStore(cfg.Audit.DSN)
	if err != nil {
		return err
	}
	b.Audit = audit
	slog.Info("Audit store ready", slog.String("dsn", cfg.Audit.DSN))

	// 4. Seed session state
	b.Session = NewSessionFromConfig(cfg, audit)
	slog.Info("Session seeded",
		slog.Int("tranches", len(cfg.Tranches)),
		slog.String("initial_cash", cfg.Trading.InitialCash.String()))

	return nil
}

// NewSessionFromConfig builds a session from configuration: registry
// seeded with the configured tranches, account at the configured
// opening cash, generator at the configured interval.
func NewSessionFromConfig(cfg *infra.Config, sink engine.AuditSink) *engine.Session {
	seed := make([]domain.Tranche, 0, len(cfg.Tranches))
	names := make([]string, 0, len(cfg.Tranches))
	for _, tc := range cfg.Tranches {
		seed = append(seed, domain.Tranche{
			Name:          tc.Name,
			Percentage:    tc.Percentage,
			Volume:        tc.Volume.Decimal,
			YieldRate:     tc.YieldRate.Decimal,
			Reserve:       tc.Reserve.Decimal,
			CashFlowTotal: tc.CashFlowTotal.Decimal,
			UnitPrice:     domain.UnitPrice,
			TotalUnits:    tc.TotalUnits,
		})
		names = append(names, tc.Name)
	}

	registry := domain.NewRegistry(seed)
	account := domain.NewAccount(cfg.Trading.InitialCash.Decimal, names)
	interval := time.Duration(cfg.Trading.TickIntervalSec) * time.Second

	return engine.NewSession(registry, account, interval, sink, nil)
}
