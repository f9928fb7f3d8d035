package domain

import (
	"errors"
	"fmt"
	"math"
)

// Default thresholds for the frost-risk rule.
const (
	DefaultFrostThreshold    = 0.0  // °C, air temperature at or below
	DefaultHumidityThreshold = 85.0 // %, air humidity at or above
	DefaultCalmWind          = 5.0  // km/h, wind strictly below
	DefaultColdForecast      = 2.0  // °C, forecast strictly below
	DefaultMinSignals        = 3
)

// Thresholds parameterize the four risk signals. They are fixed once an
// Evaluator is built.
type Thresholds struct {
	Frost        float64 `json:"frost_c"`
	Humidity     float64 `json:"humidity_pct"`
	CalmWind     float64 `json:"calm_wind_kph"`
	ColdForecast float64 `json:"cold_forecast_c"`
	MinSignals   int     `json:"min_signals"`
}

// DefaultThresholds returns the standard frost-risk thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Frost:        DefaultFrostThreshold,
		Humidity:     DefaultHumidityThreshold,
		CalmWind:     DefaultCalmWind,
		ColdForecast: DefaultColdForecast,
		MinSignals:   DefaultMinSignals,
	}
}

// Signals holds the outcome of each threshold comparison.
type Signals struct {
	FreezingAir  bool `json:"freezing_air"`
	HumidAir     bool `json:"humid_air"`
	CalmWind     bool `json:"calm_wind"`
	ColdForecast bool `json:"cold_forecast"`
}

// Count returns how many signals hold.
func (s Signals) Count() int {
	n := 0
	for _, v := range [...]bool{s.FreezingAir, s.HumidAir, s.CalmWind, s.ColdForecast} {
		if v {
			n++
		}
	}
	return n
}

// Assessment is the evaluator's output for one observation.
type Assessment struct {
	AtRisk         bool        `json:"at_risk"`
	Signals        Signals     `json:"signals"`
	SignalCount    int         `json:"signal_count"`
	CameraOverride bool        `json:"camera_override"`
	Observation    Observation `json:"observation"`
}

// Evaluator applies the rule-based frost-risk decision.
type Evaluator struct {
	thresholds Thresholds
}

// NewEvaluator returns an Evaluator with the given thresholds.
func NewEvaluator(t Thresholds) (*Evaluator, error) {
	for name, v := range map[string]float64{
		"frost":         t.Frost,
		"humidity":      t.Humidity,
		"calm wind":     t.CalmWind,
		"cold forecast": t.ColdForecast,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s threshold must be a finite number", name)
		}
	}
	if t.MinSignals < 1 || t.MinSignals > 4 {
		return nil, fmt.Errorf("min signals must be between 1 and 4, got %d", t.MinSignals)
	}
	if t.Humidity < 0 || t.Humidity > 100 {
		return nil, errors.New("humidity threshold must be between 0 and 100")
	}
	if t.CalmWind < 0 {
		return nil, errors.New("calm wind threshold must not be negative")
	}
	return &Evaluator{thresholds: t}, nil
}

// Thresholds returns the evaluator's thresholds.
func (e *Evaluator) Thresholds() Thresholds {
	return e.thresholds
}

// Evaluate validates obs and returns the frost-risk assessment.
func (e *Evaluator) Evaluate(obs Observation) (Assessment, error) {
	if err := ValidateObservation(obs); err != nil {
		return Assessment{}, err
	}

	t := e.thresholds
	signals := Signals{
		FreezingAir:  obs.AirTemperature <= t.Frost,
		HumidAir:     obs.AirHumidity >= t.Humidity,
		CalmWind:     obs.WindSpeed < t.CalmWind,
		ColdForecast: obs.ForecastTemperature < t.ColdForecast,
	}
	count := signals.Count()

	return Assessment{
		AtRisk:         obs.FrostVisuallyDetected || count >= t.MinSignals,
		Signals:        signals,
		SignalCount:    count,
		CameraOverride: obs.FrostVisuallyDetected,
		Observation:    obs,
	}, nil
}
