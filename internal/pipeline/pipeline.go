package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/frost-guard/internal/domain"
	"github.com/couchcryptid/frost-guard/internal/observability"
	"github.com/jonboulle/clockwork"
)

// Cycle outcome labels.
const (
	outcomeSuccess            = "success"
	outcomeInvalidObservation = "invalid_observation"
	outcomeExternalFailure    = "external_failure"
	outcomeDispatchError      = "dispatch_error"
)

// Evaluator decides frost risk for one observation.
type Evaluator interface {
	Evaluate(obs domain.Observation) (domain.Assessment, error)
}

// ResponseDispatcher acts on an assessment.
type ResponseDispatcher interface {
	Dispatch(ctx context.Context, a domain.Assessment) (domain.Action, error)
}

// Pipeline orchestrates the fetch-derive-evaluate-dispatch cycle.
type Pipeline struct {
	source     domain.WeatherSource
	camera     domain.CameraSource
	estimator  domain.SoilEstimator
	evaluator  Evaluator
	dispatcher ResponseDispatcher
	location   domain.Geo
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithCamera replaces the default no-camera source.
func WithCamera(c domain.CameraSource) Option {
	return func(p *Pipeline) { p.camera = c }
}

// WithSoilEstimator replaces the default air-derived soil estimate.
func WithSoilEstimator(e domain.SoilEstimator) Option {
	return func(p *Pipeline) { p.estimator = e }
}

// New creates a Pipeline for the plot at location.
func New(source domain.WeatherSource, evaluator Evaluator, dispatcher ResponseDispatcher, location domain.Geo, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:     source,
		camera:     domain.NoCamera{},
		estimator:  domain.AirDerivedSoil{},
		evaluator:  evaluator,
		dispatcher: dispatcher,
		location:   location,
		logger:     logger,
		metrics:    metrics,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once at least one cycle has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no frost-risk cycle has completed yet")
	}
	return nil
}

// RunCycle performs one full cycle. Nothing is dispatched when fetching or
// evaluation fails.
func (p *Pipeline) RunCycle(ctx context.Context) (domain.Action, error) {
	start := time.Now()
	action, outcome, err := p.runCycle(ctx)
	p.metrics.Cycles.WithLabelValues(outcome).Inc()
	p.metrics.CycleDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		p.logger.Error("frost-risk cycle failed", "outcome", outcome, "error", err)
		return action, err
	}

	p.metrics.LastCycleTime.SetToCurrentTime()
	p.ready.Store(true)
	p.logger.Info("frost-risk cycle complete", "action", action, "duration", time.Since(start))
	return action, nil
}

func (p *Pipeline) runCycle(ctx context.Context) (domain.Action, string, error) {
	reading, err := p.source.Fetch(ctx, p.location.Lat, p.location.Lon)
	if err != nil {
		return domain.ActionNone, outcomeExternalFailure, err
	}

	cam, err := p.camera.FrostReading(ctx)
	if err != nil {
		return domain.ActionNone, outcomeExternalFailure, err
	}

	obs := domain.DeriveObservation(reading, cam, p.estimator)
	assessment, err := p.evaluator.Evaluate(obs)
	if err != nil {
		return domain.ActionNone, outcomeInvalidObservation, err
	}
	p.recordVerdict(assessment)

	p.logger.Info("frost risk evaluated",
		"at_risk", assessment.AtRisk,
		"signal_count", assessment.SignalCount,
		"freezing_air", assessment.Signals.FreezingAir,
		"humid_air", assessment.Signals.HumidAir,
		"calm_wind", assessment.Signals.CalmWind,
		"cold_forecast", assessment.Signals.ColdForecast,
		"camera_override", assessment.CameraOverride,
		"forecast_hour", reading.Forecast.Hour,
	)

	action, err := p.dispatcher.Dispatch(ctx, assessment)
	if err != nil {
		return action, outcomeDispatchError, err
	}
	return action, outcomeSuccess, nil
}

func (p *Pipeline) recordVerdict(a domain.Assessment) {
	verdict := "clear"
	if a.AtRisk {
		verdict = "at_risk"
	}
	p.metrics.Verdicts.WithLabelValues(verdict).Inc()
	p.metrics.RiskSignals.Set(float64(a.SignalCount))
}

// Run executes a cycle immediately and then on every interval tick until the
// context is cancelled. Cycles run sequentially and never overlap; a failed
// cycle is logged and the schedule continues.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration, clk clockwork.Clock) error {
	if interval <= 0 {
		return errors.New("run interval must be positive")
	}
	p.logger.Info("scheduler started", "interval", interval)
	p.metrics.SchedulerActive.Set(1)
	defer p.metrics.SchedulerActive.Set(0)

	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			p.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		}
		_, _ = p.RunCycle(ctx)

		select {
		case <-ctx.Done():
			p.logger.Info("scheduler stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
		}
	}
}
