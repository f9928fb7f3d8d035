package pipeline_test

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/couchcryptid/frost-guard/internal/domain"
	"github.com/couchcryptid/frost-guard/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSource struct {
	reading domain.WeatherReading
	err     error
	calls   atomic.Int32
}

func (m *mockSource) Fetch(_ context.Context, _, _ float64) (domain.WeatherReading, error) {
	m.calls.Add(1)
	if m.err != nil {
		return domain.WeatherReading{}, m.err
	}
	return m.reading, nil
}

type mockCamera struct {
	frost bool
	err   error
}

func (m mockCamera) FrostReading(context.Context) (domain.CameraReading, error) {
	return domain.CameraReading{FrostDetected: m.frost}, m.err
}

type fixedSoil struct {
	soil domain.SoilConditions
}

func (f fixedSoil) EstimateSoil(domain.AirConditions) domain.SoilConditions { return f.soil }

type mockPublisher struct {
	mu     sync.Mutex
	events []domain.DispatchEvent
	err    error
}

func (m *mockPublisher) Publish(_ context.Context, e domain.DispatchEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockPublisher) published() []domain.DispatchEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.DispatchEvent(nil), m.events...)
}

type record struct {
	level   slog.Level
	message string
}

type mockRecorder struct {
	mu      sync.Mutex
	records []record
}

func (m *mockRecorder) Record(level slog.Level, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record{level: level, message: message})
}

func (m *mockRecorder) all() []record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]record(nil), m.records...)
}

// --- fixtures ---

var testLocation = domain.Geo{Lat: 48.8566, Lon: 2.3522}

// frostyReading holds all four signals: freezing humid calm air, cold forecast.
func frostyReading() domain.WeatherReading {
	return domain.WeatherReading{
		Location: "Paris",
		TimeZone: "Europe/Paris",
		Air:      domain.AirConditions{Temperature: -1, Humidity: 90, WindSpeed: 2},
		Forecast: domain.ForecastConditions{Temperature: 1, Humidity: 88, Hour: 7},
	}
}

// mildReading holds no signals.
func mildReading() domain.WeatherReading {
	return domain.WeatherReading{
		Location: "Paris",
		Air:      domain.AirConditions{Temperature: 12, Humidity: 55, WindSpeed: 18},
		Forecast: domain.ForecastConditions{Temperature: 14, Humidity: 50, Hour: 15},
	}
}

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func newTestEvaluator(t *testing.T) *domain.Evaluator {
	t.Helper()
	e, err := domain.NewEvaluator(domain.DefaultThresholds())
	require.NoError(t, err)
	return e
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}
