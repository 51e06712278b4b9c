// Package pool implements BackendPool, the shared mutable collection of
// backends partitioned into healthy and unhealthy sets. BackendPool is the
// only place selection and health-check mutations meet; it owns the single
// mutual-exclusion region that keeps partition membership consistent
// across concurrent dispatcher and health-monitor activity.
package pool

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/SamuelGauthier/load-balancer/internal/backend"
	"github.com/SamuelGauthier/load-balancer/internal/selector"
)

// ErrPoolEmpty is returned by AcquireSelection when the healthy partition
// has no candidates. The pool is left unchanged.
var ErrPoolEmpty = errors.New("pool: no healthy backends available")

// Outcome classifies the result of forwarding a request to the backend
// named by a SelectionTicket.
type Outcome int

const (
	Ok Outcome = iota
	Failure
)

// Algorithm selects which Selector implementation backs a pool's healthy
// partition.
type Algorithm int

const (
	RoundRobin Algorithm = iota
	LeastResponseTime
)

// SelectionTicket ties one outgoing request to the backend AcquireSelection
// chose for it, so ReportOutcome can be applied without a race. A ticket
// may be reported exactly once; reporting it twice is a programmer error.
type SelectionTicket struct {
	backend  *backend.Backend
	reported atomic.Bool
}

// Backend returns the backend this ticket was issued for.
func (t *SelectionTicket) Backend() *backend.Backend {
	return t.backend
}

// BackendPool owns the partitioning of a fixed set of backends into
// healthy and unhealthy, and the selection policy over the healthy
// partition.
type BackendPool struct {
	mu        sync.Mutex
	healthy   selector.Selector
	unhealthy []*backend.Backend
	total     int
}

// New builds a BackendPool over backends, all of which start in the
// healthy partition (matching Backend's own starting state), selecting
// among them per algo.
func New(backends []*backend.Backend, algo Algorithm) *BackendPool {
	var s selector.Selector
	switch algo {
	case LeastResponseTime:
		s = selector.NewLeastResponseTime(backends)
	default:
		s = selector.NewRoundRobin(backends)
	}
	return &BackendPool{healthy: s, total: len(backends)}
}

// AcquireSelection atomically chooses the next backend from the healthy
// partition per the pool's selection policy and returns a ticket
// identifying it. Fails with ErrPoolEmpty if the healthy partition is
// empty; the pool is left unchanged in that case.
func (p *BackendPool) AcquireSelection() (*SelectionTicket, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	b, ok := p.healthy.Acquire()
	if !ok {
		return nil, ErrPoolEmpty
	}
	return &SelectionTicket{backend: b}, nil
}

// ReportOutcome applies the result of the request issued against
// ticket.Backend(). On Failure the backend moves to the unhealthy
// partition. On Ok it is kept (or, for LeastResponseTime, reinserted so its
// priority reflects the freshly updated response time). Reporting the same
// ticket twice panics.
func (p *BackendPool) ReportOutcome(ticket *SelectionTicket, outcome Outcome) {
	if !ticket.reported.CompareAndSwap(false, true) {
		panic("pool: selection ticket already reported")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if outcome == Ok {
		p.healthy.Succeed(ticket.backend)
		return
	}
	p.healthy.Remove(ticket.backend)
	p.unhealthy = appendUnique(p.unhealthy, ticket.backend)
}

// Reclassify moves b to the partition matching health. It is idempotent:
// reclassifying an already-correctly-classified backend is a no-op. Under
// LeastResponseTime a backend that is currently mid-flight (acquired by a
// dispatcher but not yet reported) is in neither partition; reclassifying
// it is a no-op too — the eventual ReportOutcome determines where it
// lands. Under RoundRobin a mid-flight backend stays in the healthy
// partition and is moved like any other.
func (p *BackendPool) Reclassify(b *backend.Backend, health backend.Health) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reclassifyLocked(b, health)
}

func (p *BackendPool) reclassifyLocked(b *backend.Backend, health backend.Health) {
	switch health {
	case backend.Healthy:
		if p.removeUnhealthyLocked(b) {
			p.healthy.Add(b)
		}
	case backend.Unhealthy:
		if p.healthy.Remove(b) {
			p.unhealthy = appendUnique(p.unhealthy, b)
		}
	}
}

func (p *BackendPool) removeUnhealthyLocked(b *backend.Backend) bool {
	for i, candidate := range p.unhealthy {
		if candidate != b {
			continue
		}
		p.unhealthy = append(p.unhealthy[:i:i], p.unhealthy[i+1:]...)
		return true
	}
	return false
}

// HealthySnapshot returns every backend currently in the healthy
// partition, for the health monitor's probe sweep.
func (p *BackendPool) HealthySnapshot() []*backend.Backend {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.healthy.Snapshot()
}

// UnhealthySnapshot returns every backend currently in the unhealthy
// partition, for the health monitor's probe sweep.
func (p *BackendPool) UnhealthySnapshot() []*backend.Backend {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*backend.Backend, len(p.unhealthy))
	copy(out, p.unhealthy)
	return out
}

// Counts reports the current size of each partition, for invariant checks
// and logging.
func (p *BackendPool) Counts() (healthyCount, unhealthyCount int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.healthy.Len(), len(p.unhealthy)
}

// Total returns the number of backends the pool was constructed with.
func (p *BackendPool) Total() int {
	return p.total
}

func appendUnique(list []*backend.Backend, b *backend.Backend) []*backend.Backend {
	for _, candidate := range list {
		if candidate == b {
			return list
		}
	}
	return append(list, b)
}
