// Package domain models frost-risk assessment for a single agricultural plot.
//
// # Observation
//
// An [Observation] is the fixed-shape record the evaluator works on. It is
// built fresh for every evaluation cycle and never stored:
//
//	soil_temperature         °C
//	soil_humidity            %, 0–100
//	air_temperature          °C
//	air_humidity             %, 0–100
//	wind_speed               km/h, ≥ 0
//	forecast_temperature     °C
//	forecast_humidity        %, 0–100
//	frost_visually_detected  camera reading
//
// Ranges are enforced by [ValidateObservation]; violations are reported as
// [ErrInvalidObservation].
//
// # Risk Rule
//
// Four independent threshold signals are computed from the observation:
//
//	air_temperature      ≤ 0 °C    (inclusive)
//	air_humidity         ≥ 85 %    (inclusive)
//	wind_speed           < 5 km/h  (strict)
//	forecast_temperature < 2 °C    (strict)
//
// The verdict is frost_visually_detected OR at least three signals true. A
// positive camera reading always wins. The operator directions above decide
// boundary values and must not change. The ≥3-of-4 policy and the camera
// override are business rules that have not been validated against observed
// frost events.
//
// # Soil Estimates
//
// The weather-provider flow has no soil sensor. Soil conditions are estimated
// from air data by [AirDerivedSoil]:
//
//	soil_temperature = air_temperature − 1
//	soil_humidity    = min(air_humidity + 5, 100)
//
// This is a placeholder simplification, not a physical model. It sits behind
// the [SoilEstimator] interface so a real soil probe can replace it without
// touching the evaluator.
//
// # Forecast Hour
//
// The provider returns the current day as 24 hourly entries. The evaluated
// forecast is the entry [ForecastLeadHours] after the current local hour,
// clamped to the last hour of the day. See [ForecastHourIndex].
package domain
