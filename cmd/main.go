package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/heatcast/internal/adapters/eventlog"
	"github.com/okian/heatcast/internal/adapters/http/api"
	"github.com/okian/heatcast/internal/adapters/riderdir"
	app "github.com/okian/heatcast/internal/app"
	"github.com/okian/heatcast/internal/broadcast"
	"github.com/okian/heatcast/internal/config"
	"github.com/okian/heatcast/internal/domain/view"
	"github.com/okian/heatcast/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Disable default Go metrics collection; the custom registry carries
	// only domain metrics.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since the logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Rider directory, optionally seeded from a YAML roster.
	var dirOpts []riderdir.Option
	if cfg.RosterPath != "" {
		profiles, err := riderdir.LoadRoster(cfg.RosterPath)
		if err != nil {
			os.Stderr.WriteString("failed to load roster: " + err.Error() + "\n")
			return
		}
		loggerInstance.Info(ctx, "roster loaded", logger.String("path", cfg.RosterPath), logger.Int("riders", len(profiles)))
		dirOpts = append(dirOpts, riderdir.WithProfiles(profiles))
	}
	dir := riderdir.New(dirOpts...)

	// Event log, viewer state builder, and the aggregate service.
	log := eventlog.NewMemoryLog(eventlog.WithStreamCapacity(cfg.StreamCapacity))
	defer log.Close()

	builder := view.NewBuilder(dir)

	svc := app.New(log, builder,
		app.WithMailboxSize(cfg.CommandMailboxSize),
		app.WithLogger(loggerInstance),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Broadcast hub; the service doubles as its snapshot source, and the
	// hub feeds back in as the service's broadcaster.
	hub := broadcast.NewHub(svc,
		broadcast.WithHeartbeatInterval(time.Duration(cfg.HeartbeatIntervalMS)*time.Millisecond),
		broadcast.WithLogger(loggerInstance),
	)
	defer hub.Close()
	svc.SetBroadcaster(hub)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	apiServer := api.NewServer(svc, hub, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}
