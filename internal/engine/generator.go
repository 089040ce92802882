package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"tranche_go/internal/infra"
)

const (
	// DefaultTickInterval is how often the simulated market trades.
	DefaultTickInterval = 5 * time.Second

	// maxBackgroundUnits bounds the uniform [1, maxBackgroundUnits]
	// draw for synthetic trade sizes.
	maxBackgroundUnits = 100
)

// Generator synthesizes one random trade per tick: uniform tranche,
// uniform unit amount in [1, 100], fair-coin direction. Trades bypass
// the validator and flow through the same factory/updater path as
// accepted user trades.
type Generator struct {
	session  *Session
	interval time.Duration
	rng      *rand.Rand

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewGenerator creates a generator bound to a session. The RNG is
// seeded from wall-clock time; tests reseed via SeedRand.
func NewGenerator(session *Session, interval time.Duration) *Generator {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Generator{
		session:  session,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SeedRand reseeds the generator for deterministic tests.
func (g *Generator) SeedRand(seed int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rng = rand.New(rand.NewSource(seed))
}

// Start begins ticking. Idempotent: a running generator is left alone.
func (g *Generator) Start(ctx context.Context) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		return
	}
	ctx, g.cancel = context.WithCancel(ctx)

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Background generator panic recovered", slog.Any("panic", r))
			}
		}()

		ticker := time.NewTicker(g.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Background generator stopped")
				return
			case <-ticker.C:
				g.Tick()
			}
		}
	}()

	slog.Info("Background generator started", slog.Duration("interval", g.interval))
}

// Stop cancels the ticker and waits for any in-flight trade to finish
// applying, so teardown never leaves a trade half-applied and no
// appends happen afterwards. Idempotent.
func (g *Generator) Stop() {
	g.mu.Lock()
	cancel := g.cancel
	g.cancel = nil
	g.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	g.wg.Wait()
}

// Tick applies exactly one synthetic trade. Exported so tests can fire
// ticks without waiting on the wall clock.
func (g *Generator) Tick() {
	tranches := g.session.Tranches()
	if len(tranches) == 0 {
		return
	}

	g.mu.Lock()
	tranche := tranches[g.rng.Intn(len(tranches))]
	amount := int64(g.rng.Intn(maxBackgroundUnits)) + 1
	isBuy := g.rng.Intn(2) == 0
	g.mu.Unlock()

	g.session.submitBackground(tranche.Name, amount, isBuy)
	infra.GlobalMetrics.RecordGeneratorTick()
}
