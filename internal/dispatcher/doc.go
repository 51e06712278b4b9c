// Package dispatcher wires a BackendPool into net/http: one handler per
// pool, acquiring, forwarding, and reporting a selection ticket for every
// request it receives.
package dispatcher
