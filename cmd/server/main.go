// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Navot-Ram/starwards/pkg/config"
	"github.com/Navot-Ram/starwards/pkg/engine"
	"github.com/Navot-Ram/starwards/pkg/event"
	"github.com/Navot-Ram/starwards/pkg/health"
	"github.com/Navot-Ram/starwards/pkg/logging"
	"github.com/Navot-Ram/starwards/pkg/metrics"
	"github.com/Navot-Ram/starwards/pkg/statesync"
)

// memoryLimitMB is the heap size above which readiness fails.
const memoryLimitMB = 500

func main() {
	ctx := logging.WithCorrelationID(context.Background(), "")
	logger := logging.NewLoggerWithWriter(os.Stderr, os.Getenv(logging.LevelEnv))

	configPath := flag.String("config", "", "Path to a JSON configuration file")
	createDefault := flag.Bool("default", false, "Write the default configuration to -config and exit")
	flag.Parse()

	if *createDefault {
		if *configPath == "" {
			logger.Error(ctx, "-default needs -config", nil)
			os.Exit(2)
		}
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err, "config_path", *configPath)
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file", "config_path", *configPath)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		os.Exit(1)
	}
	logger = logging.NewLoggerWithWriter(os.Stderr, cfg.LogLevel)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "Server failed", err)
		os.Exit(1)
	}
}

// run hosts the simulation until SIGINT or SIGTERM.
func run(ctx context.Context, cfg *config.SimConfig, logger *logging.Logger) error {
	bus := event.NewEventBus()
	recorder, err := metrics.New(bus)
	if err != nil {
		return err
	}
	defer recorder.Close()

	opts := []engine.Option{engine.WithEventBus(bus), engine.WithLogger(logger)}
	healthChecker := health.NewHealthChecker()

	if cfg.Telemetry.Enabled {
		sink, err := statesync.NewSink(cfg.Telemetry)
		if err != nil {
			return err
		}
		publisher := statesync.NewPublisher(sink, cfg.Telemetry, logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn(ctx, "Telemetry sink close failed", "error", err)
			}
		}()
		opts = append(opts, engine.WithPublisher(publisher))
		healthChecker.AddCheck(health.NewTelemetryHealthCheck(publisher.State))
	}

	sim, err := engine.New(cfg, opts...)
	if err != nil {
		return err
	}

	stallAfter := time.Duration(10 * cfg.TickSeconds() * float64(time.Second))
	healthChecker.AddCheck(health.NewSimulationHealthCheck(sim.Running, sim.LastTick, stallAfter))
	healthChecker.AddCheck(health.NewMemoryHealthCheck(memoryLimitMB, health.CurrentMemoryMB))

	healthServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Health.Port),
		Handler:      healthChecker.Mux(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info(ctx, "Starting health check server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Health check server failed", err)
		}
	}()

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting simulation",
		"ships", len(cfg.Ships),
		"tick_rate", cfg.TickRate,
		"telemetry", cfg.Telemetry.Enabled,
	)
	runErr := sim.Run(runCtx)

	logger.Info(ctx, "Shutting down server", "ticks", sim.Ticks())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Health check server shutdown failed", err)
	}

	totals := recorder.Totals()
	logger.Info(ctx, "Simulation summary",
		"ticks", totals.Ticks,
		"shots_fired", totals.ShotsFired,
		"ships_destroyed", totals.ShipsDestroyed,
	)
	return runErr
}
