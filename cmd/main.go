package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/SamuelGauthier/load-balancer/config"
	"github.com/SamuelGauthier/load-balancer/internal/backend"
	"github.com/SamuelGauthier/load-balancer/internal/dispatcher"
	"github.com/SamuelGauthier/load-balancer/internal/healthmonitor"
	"github.com/SamuelGauthier/load-balancer/internal/httpserver"
	"github.com/SamuelGauthier/load-balancer/internal/pool"
	"github.com/SamuelGauthier/load-balancer/pkg/logger"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New("info", false, "prod")

	backends, err := buildBackends(cfg, log)
	if err != nil {
		log.Error("failed to build backends", slog.Any("err", err))
		os.Exit(1)
	}

	algo := pool.RoundRobin
	if cfg.Algorithm == config.LeastResponseTime {
		algo = pool.LeastResponseTime
	}
	p := pool.New(backends, algo)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	monitor := healthmonitor.New(p, cfg.HealthCheckPeriod, log)
	monitor.Start(ctx)
	defer monitor.Stop()

	d := dispatcher.New(p, log)
	srv := httpserver.New(cfg.ListenAddress, setupRouter(d))

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down gracefully")
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("error during shutdown", slog.Any("err", err))
			os.Exit(1)
		}
	case err := <-srvErrCh:
		if err != nil {
			log.Error("error starting load balancer", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func buildBackends(cfg *config.Config, log *slog.Logger) ([]*backend.Backend, error) {
	backends := make([]*backend.Backend, 0, len(cfg.Backends))
	for _, raw := range cfg.Backends {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, err
		}
		backends = append(backends, backend.New(u))
		log.Info("registered backend", slog.String("address", u.String()))
	}
	return backends, nil
}
