// Package backend implements the upstream server entity used by the pool,
// selector, health monitor, and dispatcher: a fixed address, an atomically
// updated health state and last response time, and the reverse-proxy
// transport used both to forward client requests and to probe /health.
package backend
