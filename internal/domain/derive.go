package domain

import (
	"context"
	"math"
)

// WeatherSource fetches current conditions and a short-range forecast.
type WeatherSource interface {
	Fetch(ctx context.Context, lat, lon float64) (WeatherReading, error)
}

// CameraSource reports whether frost is visible on the plot.
type CameraSource interface {
	FrostReading(ctx context.Context) (CameraReading, error)
}

// SoilEstimator produces soil conditions when no soil probe is wired.
type SoilEstimator interface {
	EstimateSoil(air AirConditions) SoilConditions
}

// NoCamera is the CameraSource used when no camera is installed.
// It always reports no visible frost.
type NoCamera struct{}

func (NoCamera) FrostReading(context.Context) (CameraReading, error) {
	return CameraReading{FrostDetected: false}, nil
}

// AirDerivedSoil estimates soil from air conditions: one degree colder and
// five points more humid, capped at 100 %. This is a placeholder heuristic,
// not a measurement or a physical model.
type AirDerivedSoil struct{}

func (AirDerivedSoil) EstimateSoil(air AirConditions) SoilConditions {
	return SoilConditions{
		Temperature: air.Temperature - 1,
		Humidity:    math.Min(air.Humidity+5, 100),
	}
}

// DeriveObservation assembles a full Observation from a weather reading, a
// camera reading, and estimated soil conditions.
func DeriveObservation(reading WeatherReading, camera CameraReading, estimator SoilEstimator) Observation {
	if estimator == nil {
		estimator = AirDerivedSoil{}
	}
	soil := estimator.EstimateSoil(reading.Air)
	return Observation{
		SoilTemperature:       soil.Temperature,
		SoilHumidity:          soil.Humidity,
		AirTemperature:        reading.Air.Temperature,
		AirHumidity:           reading.Air.Humidity,
		WindSpeed:             reading.Air.WindSpeed,
		ForecastTemperature:   reading.Forecast.Temperature,
		ForecastHumidity:      reading.Forecast.Humidity,
		FrostVisuallyDetected: camera.FrostDetected,
	}
}
