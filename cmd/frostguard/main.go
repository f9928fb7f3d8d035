// Command frostguard fetches weather for the configured plot, evaluates frost
// risk, and dispatches the drone decision. It runs a single cycle by default
// and exits 0 on success or 1 on failure; with RUN_INTERVAL set it keeps
// running cycles on that schedule and serves health, readiness, metrics, and
// status endpoints until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/frost-guard/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/frost-guard/internal/adapter/kafka"
	"github.com/couchcryptid/frost-guard/internal/adapter/weatherapi"
	"github.com/couchcryptid/frost-guard/internal/config"
	"github.com/couchcryptid/frost-guard/internal/domain"
	"github.com/couchcryptid/frost-guard/internal/observability"
	"github.com/couchcryptid/frost-guard/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	evaluator, err := domain.NewEvaluator(domain.Thresholds{
		Frost:        cfg.FrostThreshold,
		Humidity:     cfg.HumidityThreshold,
		CalmWind:     cfg.CalmWind,
		ColdForecast: cfg.ColdForecast,
		MinSignals:   cfg.MinRiskSignals,
	})
	if err != nil {
		logger.Error("invalid thresholds", "error", err)
		return 1
	}

	source := weatherapi.NewClient(cfg.WeatherAPIKey, cfg.WeatherAPIBaseURL, cfg.WeatherAPITimeout,
		cfg.ForecastLeadHours, metrics, logger)

	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("dispatch publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("dispatch publishing disabled")
	}

	location := domain.Geo{Lat: cfg.Latitude, Lon: cfg.Longitude}
	dispatcher := pipeline.NewDispatcher(publisher, domain.SlogRecorder{Logger: logger}, metrics, location)
	p := pipeline.New(source, evaluator, dispatcher, location, logger, metrics)

	logStartup(logger, cfg, domain.Clock().Now())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RunInterval == 0 {
		if _, err := p.RunCycle(ctx); err != nil {
			return 1
		}
		return 0
	}

	return runScheduled(ctx, cfg, p, dispatcher, logger)
}

// logStartup records where and when the service is assessing frost risk.
func logStartup(logger *slog.Logger, cfg *config.Config, now time.Time) {
	mode := "one-shot"
	if cfg.RunInterval > 0 {
		mode = "scheduled"
	}
	logger.Info("frostguard starting",
		"lat", cfg.Latitude,
		"lon", cfg.Longitude,
		"time", now.Format(time.RFC3339),
		"mode", mode,
		"run_interval", cfg.RunInterval.String(),
	)
}

func runScheduled(ctx context.Context, cfg *config.Config, p *pipeline.Pipeline, status httpadapter.StatusProvider, logger *slog.Logger) int {
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, status, logger)
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return p.Run(gCtx, cfg.RunInterval, clockwork.NewRealClock())
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("scheduled run failed", "error", err)
		return 1
	}
	logger.Info("shutdown complete")
	return 0
}
