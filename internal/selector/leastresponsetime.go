package selector

import (
	"container/heap"

	"github.com/SamuelGauthier/load-balancer/internal/backend"
)

// LeastResponseTime selects the backend with the smallest last measured
// response time, via a min-heap keyed on Backend.LastResponseTime. Acquire
// pops the minimum out of the heap so two overlapping selections never
// choose the same nominally-fastest backend; Succeed reinserts it with its
// freshly measured time once the request completes.
type LeastResponseTime struct {
	h   lrtHeap
	seq uint64
}

// NewLeastResponseTime builds a LeastResponseTime selector seeded with the
// given backends, in insertion order (the tie-break for equal response
// times).
func NewLeastResponseTime(initial []*backend.Backend) *LeastResponseTime {
	lrt := &LeastResponseTime{h: lrtHeap{index: make(map[*backend.Backend]int)}}
	for _, b := range initial {
		lrt.Add(b)
	}
	return lrt
}

func (l *LeastResponseTime) Len() int {
	return len(l.h.entries)
}

// Acquire pops the backend with the smallest LastResponseTime. The heap is
// rebuilt first, since probes and forwards update the response time of
// backends while they sit in it.
func (l *LeastResponseTime) Acquire() (*backend.Backend, bool) {
	if len(l.h.entries) == 0 {
		return nil, false
	}
	heap.Init(&l.h)
	e := heap.Pop(&l.h).(*lrtEntry)
	return e.backend, true
}

// Succeed reinserts b, keyed by its current LastResponseTime.
func (l *LeastResponseTime) Succeed(b *backend.Backend) {
	l.seq++
	heap.Push(&l.h, &lrtEntry{backend: b, seq: l.seq})
}

// Remove deletes b by identity, whether it is sitting idle in the heap or
// was never reinserted after being acquired (in which case it is simply
// not found).
func (l *LeastResponseTime) Remove(b *backend.Backend) bool {
	idx, ok := l.h.index[b]
	if !ok {
		return false
	}
	heap.Remove(&l.h, idx)
	return true
}

// Add inserts a newly promoted backend, keyed by its current
// LastResponseTime.
func (l *LeastResponseTime) Add(b *backend.Backend) {
	l.seq++
	heap.Push(&l.h, &lrtEntry{backend: b, seq: l.seq})
}

func (l *LeastResponseTime) Snapshot() []*backend.Backend {
	out := make([]*backend.Backend, len(l.h.entries))
	for i, e := range l.h.entries {
		out[i] = e.backend
	}
	return out
}

// lrtEntry pairs a backend with its insertion sequence, used only to break
// ties between backends with an identical LastResponseTime.
type lrtEntry struct {
	backend *backend.Backend
	seq     uint64
}

// lrtHeap implements container/heap.Interface over lrtEntry, maintaining an
// identity index so Remove can delete a specific backend in O(log n)
// without a linear scan.
type lrtHeap struct {
	entries []*lrtEntry
	index   map[*backend.Backend]int
}

func (h *lrtHeap) Len() int { return len(h.entries) }

func (h *lrtHeap) Less(i, j int) bool {
	ti, tj := h.entries[i].backend.LastResponseTime(), h.entries[j].backend.LastResponseTime()
	if ti != tj {
		return ti < tj
	}
	return h.entries[i].seq < h.entries[j].seq
}

func (h *lrtHeap) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
	h.index[h.entries[i].backend] = i
	h.index[h.entries[j].backend] = j
}

func (h *lrtHeap) Push(x any) {
	e := x.(*lrtEntry)
	h.index[e.backend] = len(h.entries)
	h.entries = append(h.entries, e)
}

func (h *lrtHeap) Pop() any {
	n := len(h.entries)
	e := h.entries[n-1]
	h.entries = h.entries[:n-1]
	delete(h.index, e.backend)
	return e
}
