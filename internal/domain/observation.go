package domain

// Observation is the complete input to one frost-risk evaluation.
type Observation struct {
	SoilTemperature       float64 `json:"soil_temperature" validate:"finite"`
	SoilHumidity          float64 `json:"soil_humidity" validate:"finite,gte=0,lte=100"`
	AirTemperature        float64 `json:"air_temperature" validate:"finite"`
	AirHumidity           float64 `json:"air_humidity" validate:"finite,gte=0,lte=100"`
	WindSpeed             float64 `json:"wind_speed" validate:"finite,gte=0"`
	ForecastTemperature   float64 `json:"forecast_temperature" validate:"finite"`
	ForecastHumidity      float64 `json:"forecast_humidity" validate:"finite,gte=0,lte=100"`
	FrostVisuallyDetected bool    `json:"frost_visually_detected"`
}

// AirConditions are current conditions reported by the weather provider.
type AirConditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}

// ForecastConditions are the selected hourly forecast entry.
type ForecastConditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Hour        int     `json:"hour"` // index into the day's hourly array
}

// WeatherReading is what a WeatherSource returns for one location.
type WeatherReading struct {
	Location string             `json:"location,omitempty"`
	TimeZone string             `json:"tz_id,omitempty"`
	Air      AirConditions      `json:"air"`
	Forecast ForecastConditions `json:"forecast"`
}

// CameraReading is the visual frost detector's output.
type CameraReading struct {
	FrostDetected bool `json:"frost_detected"`
}

// SoilConditions are soil temperature (°C) and humidity (%).
type SoilConditions struct {
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

// SensorRecord is a full set of caller-supplied readings for the sensor flow.
// Pointers distinguish an absent field from a zero reading.
type SensorRecord struct {
	Soil     SoilSensorReading     `json:"soil_data"`
	Air      AirSensorReading      `json:"air_data"`
	Camera   CameraSensorReading   `json:"camera_data"`
	Forecast ForecastSensorReading `json:"weather_forecast"`
}

type SoilSensorReading struct {
	Temperature *float64 `json:"temperature" validate:"required,finite"`
	Humidity    *float64 `json:"humidity" validate:"required,finite,gte=0,lte=100"`
}

type AirSensorReading struct {
	Temperature *float64 `json:"temperature" validate:"required,finite"`
	Humidity    *float64 `json:"humidity" validate:"required,finite,gte=0,lte=100"`
	WindSpeed   *float64 `json:"wind_speed" validate:"required,finite,gte=0"`
}

type CameraSensorReading struct {
	FrostDetected *bool `json:"frost_detected" validate:"required"`
}

type ForecastSensorReading struct {
	Temperature *float64 `json:"temperature" validate:"required,finite"`
	Humidity    *float64 `json:"humidity" validate:"required,finite,gte=0,lte=100"`
}

// Observation validates the record and flattens it. An absent field is an
// ErrInvalidObservation, never a zero default.
func (r SensorRecord) Observation() (Observation, error) {
	if err := validateStruct(r); err != nil {
		return Observation{}, err
	}
	return Observation{
		SoilTemperature:       *r.Soil.Temperature,
		SoilHumidity:          *r.Soil.Humidity,
		AirTemperature:        *r.Air.Temperature,
		AirHumidity:           *r.Air.Humidity,
		WindSpeed:             *r.Air.WindSpeed,
		ForecastTemperature:   *r.Forecast.Temperature,
		ForecastHumidity:      *r.Forecast.Humidity,
		FrostVisuallyDetected: *r.Camera.FrostDetected,
	}, nil
}

// ValidateObservation checks the documented ranges and rejects NaN/Inf.
func ValidateObservation(obs Observation) error {
	return validateStruct(obs)
}
