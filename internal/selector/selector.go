// Package selector implements the two backend-selection policies named by
// the load balancer: RoundRobin and LeastResponseTime. A Selector owns the
// data structure backing the BackendPool's healthy partition; it is not
// safe for concurrent use on its own — the owning BackendPool serializes
// every call behind its single mutation region, per the pool's atomicity
// contract.
package selector

import "github.com/SamuelGauthier/load-balancer/internal/backend"

// Selector is the capability set a BackendPool needs from its healthy
// partition's backing structure.
type Selector interface {
	// Len reports the number of backends currently in the structure. A
	// LeastResponseTime backend that Acquire popped and that has not been
	// reinserted yet is not counted.
	Len() int

	// Acquire returns the next candidate backend per the policy. For
	// RoundRobin this only advances a cursor; the backend remains in the
	// structure. For LeastResponseTime this pops the minimum out of the
	// heap so a concurrent Acquire cannot select the same in-flight
	// backend. Returns false if the partition is empty.
	Acquire() (*backend.Backend, bool)

	// Succeed reinserts a backend that Acquire removed, reflecting its
	// freshly updated response time. A no-op for policies (RoundRobin)
	// that never remove on Acquire.
	Succeed(b *backend.Backend)

	// Remove deletes a backend by identity. Used both when a request
	// fails (demotion) and when the health monitor reclassifies a backend
	// that happens to be sitting idle in the healthy partition. Reports
	// whether the backend was found; a LeastResponseTime backend that is
	// mid-flight is not in the structure and is reported as not found.
	Remove(b *backend.Backend) bool

	// Add inserts a newly promoted backend into the healthy partition.
	Add(b *backend.Backend)

	// Snapshot returns every backend currently in the structure, for
	// iteration by the health monitor or for invariant checks. A
	// mid-flight RoundRobin backend is included; a mid-flight
	// LeastResponseTime backend is not. The returned slice is a copy.
	Snapshot() []*backend.Backend
}
