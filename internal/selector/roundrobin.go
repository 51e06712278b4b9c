package selector

import "github.com/SamuelGauthier/load-balancer/internal/backend"

// RoundRobin selects backends by advancing a cursor modulo the current
// size of the partition. Unlike LeastResponseTime, Acquire never removes
// the backend from the partition — overlapping requests land on the same
// backend whenever more requests are in flight than the partition holds.
type RoundRobin struct {
	backends []*backend.Backend
	cursor   int
}

// NewRoundRobin builds a RoundRobin selector seeded with the given
// backends, in order.
func NewRoundRobin(initial []*backend.Backend) *RoundRobin {
	return &RoundRobin{backends: append([]*backend.Backend(nil), initial...)}
}

func (r *RoundRobin) Len() int {
	return len(r.backends)
}

// Acquire returns the backend at cursor and advances cursor modulo the
// partition size.
func (r *RoundRobin) Acquire() (*backend.Backend, bool) {
	if len(r.backends) == 0 {
		return nil, false
	}
	if r.cursor >= len(r.backends) {
		r.cursor = 0
	}
	b := r.backends[r.cursor]
	r.cursor = (r.cursor + 1) % len(r.backends)
	return b, true
}

// Succeed is a no-op: a successful round-robin selection never left the
// partition.
func (r *RoundRobin) Succeed(*backend.Backend) {}

// Remove deletes b by identity and clamps cursor into the shrunk
// partition's valid range.
func (r *RoundRobin) Remove(b *backend.Backend) bool {
	for i, candidate := range r.backends {
		if candidate != b {
			continue
		}
		r.backends = append(r.backends[:i:i], r.backends[i+1:]...)
		if len(r.backends) > 0 {
			r.cursor %= len(r.backends)
		} else {
			r.cursor = 0
		}
		return true
	}
	return false
}

// Add appends a newly promoted backend to the rotation.
func (r *RoundRobin) Add(b *backend.Backend) {
	r.backends = append(r.backends, b)
}

func (r *RoundRobin) Snapshot() []*backend.Backend {
	out := make([]*backend.Backend, len(r.backends))
	copy(out, r.backends)
	return out
}
