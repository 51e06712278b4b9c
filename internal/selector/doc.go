// Package selector implements the load balancer's two backend-selection
// policies:
//
//   - RoundRobin: sequential distribution via a cursor modulo the
//     partition size.
//   - LeastResponseTime: the healthy backend with the smallest last
//     measured response time, via a min-heap with pop-on-select and
//     reinsert-on-success semantics.
package selector
