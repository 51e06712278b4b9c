// Package pool implements the shared, mutable BackendPool: the
// healthy/unhealthy partitioning of a load balancer's configured backends,
// the single mutual-exclusion region guarding it, and the
// AcquireSelection/ReportOutcome/Reclassify primitives the dispatcher and
// health monitor use to read and mutate it without corrupting membership
// or double-dispatching.
package pool
