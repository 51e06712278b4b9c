// Package dispatcher implements the HTTP entry point that ties a
// BackendPool to the network: for every inbound request it acquires a
// selection ticket, forwards the request to that backend, and reports the
// outcome back to the pool.
package dispatcher

import (
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/SamuelGauthier/load-balancer/internal/pool"
)

// noHealthyBackends is the literal body written to the client when the pool
// has no healthy backend to offer.
const noHealthyBackends = "No healthy backends available"

// Dispatcher is an http.Handler that load balances every request it
// receives across pool's healthy backends.
type Dispatcher struct {
	pool   *pool.BackendPool
	logger *slog.Logger
}

// New builds a Dispatcher serving requests against pool.
func New(p *pool.BackendPool, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{pool: p, logger: logger}
}

// ServeHTTP acquires a backend from the pool, forwards the request to it,
// and reports the outcome. If the pool has no healthy backend it writes a
// 503 with a fixed body and never touches the pool's selection state.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientIP := extractClientIP(r)

	ticket, err := d.pool.AcquireSelection()
	if err != nil {
		d.logger.Warn("no healthy backends available", slog.String("client", clientIP))
		http.Error(w, noHealthyBackends, http.StatusServiceUnavailable)
		return
	}

	target := ticket.Backend()
	d.logger.Info("forwarding request",
		slog.String("client", clientIP),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("backend", target.String()))

	w.Header().Set("X-Backend-Server", target.String())
	status := target.Forward(w, r)

	outcome := pool.Ok
	if !isSuccessStatus(status) {
		outcome = pool.Failure
	}
	d.pool.ReportOutcome(ticket, outcome)
}

func isSuccessStatus(code int) bool {
	return code >= http.StatusOK && code <= http.StatusPartialContent
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
