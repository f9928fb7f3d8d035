package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	e, err := NewEvaluator(DefaultThresholds())
	require.NoError(t, err)
	return e
}

// mildObservation holds no risk signal at all.
func mildObservation() Observation {
	return Observation{
		SoilTemperature:     4,
		SoilHumidity:        55,
		AirTemperature:      5,
		AirHumidity:         50,
		WindSpeed:           20,
		ForecastTemperature: 10,
		ForecastHumidity:    60,
	}
}

func TestEvaluate_Scenarios(t *testing.T) {
	e := testEvaluator(t)

	tests := []struct {
		name        string
		obs         Observation
		wantRisk    bool
		wantSignals int
	}{
		{
			name: "A: all four signals",
			obs: Observation{
				SoilTemperature: -2, SoilHumidity: 95,
				AirTemperature: -1, AirHumidity: 90, WindSpeed: 3,
				ForecastTemperature: 1, ForecastHumidity: 90,
			},
			wantRisk:    true,
			wantSignals: 4,
		},
		{
			name:        "B: no signals",
			obs:         mildObservation(),
			wantRisk:    false,
			wantSignals: 0,
		},
		{
			name: "C: camera override",
			obs: func() Observation {
				o := mildObservation()
				o.FrostVisuallyDetected = true
				return o
			}(),
			wantRisk:    true,
			wantSignals: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := e.Evaluate(tt.obs)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRisk, a.AtRisk)
			assert.Equal(t, tt.wantSignals, a.SignalCount)
			assert.Equal(t, tt.obs, a.Observation)
		})
	}
}

func TestEvaluate_ThresholdCount(t *testing.T) {
	e := testEvaluator(t)

	// Each bit switches one signal on.
	for mask := 0; mask < 16; mask++ {
		obs := mildObservation()
		want := 0
		if mask&1 != 0 {
			obs.AirTemperature = -3
			want++
		}
		if mask&2 != 0 {
			obs.AirHumidity = 92
			want++
		}
		if mask&4 != 0 {
			obs.WindSpeed = 1
			want++
		}
		if mask&8 != 0 {
			obs.ForecastTemperature = 0.5
			want++
		}

		a, err := e.Evaluate(obs)
		require.NoError(t, err)
		assert.Equal(t, want, a.SignalCount, "mask %04b", mask)
		assert.Equal(t, want >= 3, a.AtRisk, "mask %04b", mask)

		obs.FrostVisuallyDetected = true
		a, err = e.Evaluate(obs)
		require.NoError(t, err)
		assert.True(t, a.AtRisk, "camera must override, mask %04b", mask)
	}
}

func TestEvaluate_Boundaries(t *testing.T) {
	e := testEvaluator(t)

	tests := []struct {
		name   string
		mutate func(*Observation)
		signal func(Signals) bool
		want   bool
	}{
		{"air temp at 0 counts", func(o *Observation) { o.AirTemperature = 0.0 }, func(s Signals) bool { return s.FreezingAir }, true},
		{"air temp just above 0", func(o *Observation) { o.AirTemperature = 0.0001 }, func(s Signals) bool { return s.FreezingAir }, false},
		{"humidity at 85 counts", func(o *Observation) { o.AirHumidity = 85.0 }, func(s Signals) bool { return s.HumidAir }, true},
		{"humidity just below 85", func(o *Observation) { o.AirHumidity = 84.9999 }, func(s Signals) bool { return s.HumidAir }, false},
		{"wind at 5 does not count", func(o *Observation) { o.WindSpeed = 5 }, func(s Signals) bool { return s.CalmWind }, false},
		{"wind just below 5", func(o *Observation) { o.WindSpeed = 4.9999 }, func(s Signals) bool { return s.CalmWind }, true},
		{"forecast at 2 does not count", func(o *Observation) { o.ForecastTemperature = 2 }, func(s Signals) bool { return s.ColdForecast }, false},
		{"forecast just below 2", func(o *Observation) { o.ForecastTemperature = 1.9999 }, func(s Signals) bool { return s.ColdForecast }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := mildObservation()
			tt.mutate(&obs)
			a, err := e.Evaluate(obs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.signal(a.Signals))
		})
	}
}

func TestEvaluate_BoundaryDecidesVerdict(t *testing.T) {
	e := testEvaluator(t)

	// Two signals hold; the air temperature boundary decides the third.
	obs := Observation{
		AirTemperature: 0.0, AirHumidity: 90, WindSpeed: 20,
		ForecastTemperature: 1, ForecastHumidity: 80, SoilHumidity: 95, SoilTemperature: -1,
	}
	a, err := e.Evaluate(obs)
	require.NoError(t, err)
	assert.True(t, a.AtRisk)

	obs.AirTemperature = 0.0001
	a, err = e.Evaluate(obs)
	require.NoError(t, err)
	assert.False(t, a.AtRisk)
}

func TestEvaluate_InvalidObservation(t *testing.T) {
	e := testEvaluator(t)

	tests := []struct {
		name   string
		mutate func(*Observation)
		field  string
	}{
		{"humidity above 100", func(o *Observation) { o.AirHumidity = 101 }, "air_humidity"},
		{"negative soil humidity", func(o *Observation) { o.SoilHumidity = -1 }, "soil_humidity"},
		{"negative wind", func(o *Observation) { o.WindSpeed = -0.5 }, "wind_speed"},
		{"NaN temperature", func(o *Observation) { o.AirTemperature = math.NaN() }, "air_temperature"},
		{"infinite forecast", func(o *Observation) { o.ForecastTemperature = math.Inf(-1) }, "forecast_temperature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := mildObservation()
			tt.mutate(&obs)
			_, err := e.Evaluate(obs)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidObservation)

			var invalid *InvalidObservationError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestNewEvaluator_RejectsBadThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.MinSignals = 5
	_, err := NewEvaluator(th)
	require.Error(t, err)

	th = DefaultThresholds()
	th.Humidity = 120
	_, err = NewEvaluator(th)
	require.Error(t, err)

	th = DefaultThresholds()
	th.CalmWind = -1
	_, err = NewEvaluator(th)
	require.Error(t, err)
}

func TestNewEvaluator_RejectsNonFiniteThresholds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Thresholds)
		want   string
	}{
		{"NaN frost", func(th *Thresholds) { th.Frost = math.NaN() }, "frost threshold"},
		{"infinite cold forecast", func(th *Thresholds) { th.ColdForecast = math.Inf(1) }, "cold forecast threshold"},
		{"NaN humidity", func(th *Thresholds) { th.Humidity = math.NaN() }, "humidity threshold"},
		{"negative infinite calm wind", func(th *Thresholds) { th.CalmWind = math.Inf(-1) }, "calm wind threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := DefaultThresholds()
			tt.mutate(&th)
			_, err := NewEvaluator(th)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEvaluate_CustomThresholds(t *testing.T) {
	th := DefaultThresholds()
	th.Frost = 2
	e, err := NewEvaluator(th)
	require.NoError(t, err)

	obs := mildObservation()
	obs.AirTemperature = 1.5
	a, err := e.Evaluate(obs)
	require.NoError(t, err)
	assert.True(t, a.Signals.FreezingAir)
	assert.Equal(t, th, e.Thresholds())
}
