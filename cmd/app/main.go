package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tranche_go/internal/app"
	"tranche_go/internal/infra"
)

func main() {
	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Run the trading session (background market activity starts here)
	session := bootstrap.Session
	session.Start(ctx)
	defer session.Stop()

	// 4. Periodic snapshot logging, standing in for the balance/chart panels
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down")
			logSummary(bootstrap)
			return
		case <-ticker.C:
			logSummary(bootstrap)
		}
	}
}

func logSummary(b *app.Bootstrap) {
	account := b.Session.Account()
	slog.Info("Account snapshot",
		slog.String("cash", account.Cash.StringFixed(2)),
		slog.String("holdings_value", account.HoldingsValue.StringFixed(2)))

	for _, t := range b.Session.Tranches() {
		slog.Info("Tranche liquidity",
			slog.String("tranche", t.Name),
			slog.String("remaining", t.RemainingLiquidity.StringFixed(2)),
			slog.Int64("held_units", account.Holdings[t.Name]))
	}

	for _, block := range b.Session.LastBlocks(5) {
		slog.Info("Recent block",
			slog.Int64("seq", block.SequenceNumber),
			slog.String("tranche", block.TrancheName),
			slog.String("kind", string(block.Kind)),
			slog.Int64("units", block.UnitAmount),
			slog.String("total_price", block.TotalPrice.String()))
	}

	counts, err := b.Audit.BlockCountByTranche()
	if err != nil {
		slog.Warn("Audit query failed", slog.Any("error", err))
	} else {
		for tranche, n := range counts {
			slog.Info("Audit block count", slog.String("tranche", tranche), slog.Int64("blocks", n))
		}
	}

	m := infra.GlobalMetrics.Snapshot()
	slog.Info("Metrics",
		slog.Uint64("user_accepted", m.UserAccepted),
		slog.Uint64("user_rejected", m.UserRejected),
		slog.Uint64("background_trades", m.BackgroundTrades))
}
