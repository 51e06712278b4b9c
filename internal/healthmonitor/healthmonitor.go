// Package healthmonitor implements the periodic recomputation of every
// backend's health: a single recurring task per pool that sweeps the
// healthy then the unhealthy partition, sequentially, reclassifying each
// backend as its probe completes.
package healthmonitor

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/SamuelGauthier/load-balancer/internal/backend"
	"github.com/SamuelGauthier/load-balancer/internal/pool"
)

// Monitor runs one probe cycle per interval against every backend in a
// BackendPool. At most one cycle runs at a time: Start spawns exactly one
// background task, and calling it again while already running is a no-op.
type Monitor struct {
	pool     *pool.BackendPool
	interval time.Duration
	logger   *slog.Logger

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New builds a Monitor that probes every backend in p every interval.
func New(p *pool.BackendPool, interval time.Duration, logger *slog.Logger) *Monitor {
	return &Monitor{pool: p, interval: interval, logger: logger}
}

// Start spawns the recurring probe task. The first cycle runs immediately;
// subsequent cycles run every interval thereafter.
func (m *Monitor) Start(ctx context.Context) {
	if !m.running.CompareAndSwap(false, true) {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.run(runCtx)
}

// Stop cancels the recurring task and waits for it to exit before
// returning. A probe already in flight is allowed to finish; the rest of
// that cycle's backends are skipped and no further cycle starts.
func (m *Monitor) Stop() {
	if !m.running.CompareAndSwap(true, false) {
		return
	}
	m.cancel()
	<-m.done
}

func (m *Monitor) run(ctx context.Context) {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.cycle(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// cycle probes every backend currently in the healthy partition, then
// every backend currently in the unhealthy partition, reclassifying each
// as its probe completes. It snapshots membership under the pool's
// mutation region but never holds that region across a probe's network
// I/O, so a slow backend only delays itself, not the whole pool. ctx is
// checked only at the boundary between backends, so a probe already
// in flight when Stop is called is always allowed to finish.
func (m *Monitor) cycle(ctx context.Context) {
	for _, b := range m.pool.HealthySnapshot() {
		if ctx.Err() != nil {
			return
		}
		m.probeAndReclassify(b, backend.Healthy)
	}

	for _, b := range m.pool.UnhealthySnapshot() {
		if ctx.Err() != nil {
			return
		}
		m.probeAndReclassify(b, backend.Unhealthy)
	}
}

// probeAndReclassify runs b.Probe against a context detached from the
// monitor's cooperative-stop signal. Start/Stop cancellation must only ever
// decide whether the next probe starts, never abort one already underway;
// Probe's own per-call timeout is what bounds it.
func (m *Monitor) probeAndReclassify(b *backend.Backend, previous backend.Health) {
	newHealth := backend.Healthy
	if err := b.Probe(context.Background()); err != nil {
		newHealth = backend.Unhealthy
		m.logger.Warn("probe failed",
			slog.String("backend", b.String()),
			slog.Any("err", err))
	}

	if newHealth != previous {
		if newHealth == backend.Healthy {
			m.logger.Info("backend recovered", slog.String("backend", b.String()))
		} else {
			m.logger.Warn("backend is down", slog.String("backend", b.String()))
		}
	}

	m.pool.Reclassify(b, newHealth)
}
