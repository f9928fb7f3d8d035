package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`

	WeatherAPIKey     string `validate:"required"`
	WeatherAPIBaseURL string `validate:"required,url"`
	WeatherAPITimeout time.Duration
	ForecastLeadHours int `validate:"gte=0,lte=23"`

	// Frost-risk thresholds.
	FrostThreshold    float64
	HumidityThreshold float64 `validate:"gte=0,lte=100"`
	CalmWind          float64 `validate:"gte=0"`
	ColdForecast      float64
	MinRiskSignals    int `validate:"gte=1,lte=4"`

	// Dispatch sink. Empty brokers disable publishing.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// RunInterval schedules repeated cycles; zero runs a single cycle.
	RunInterval time.Duration `validate:"gte=0"`
}

// Load reads configuration from environment variables (and a .env file when
// present), applying defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	weatherTimeout, err := parsePositiveDuration("WEATHERAPI_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	runInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("RUN_INTERVAL", "0s"))
	if err != nil || runInterval < 0 {
		return nil, errors.New("invalid RUN_INTERVAL")
	}

	cfg := &Config{
		WeatherAPIKey:     sharedcfg.EnvOrDefault("WEATHERAPI_KEY", ""),
		WeatherAPIBaseURL: sharedcfg.EnvOrDefault("WEATHERAPI_BASE_URL", "https://api.weatherapi.com/v1"),
		WeatherAPITimeout: weatherTimeout,
		KafkaTopic:        strings.TrimSpace(sharedcfg.EnvOrDefault("KAFKA_TOPIC", "frost-drone-commands")),
		HTTPAddr:          sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:   shutdownTimeout,
		RunInterval:       runInterval,
	}

	// Default plot: Paris.
	if cfg.Latitude, err = parseFloat("FROST_LATITUDE", "48.8566"); err != nil {
		return nil, err
	}
	if cfg.Longitude, err = parseFloat("FROST_LONGITUDE", "2.3522"); err != nil {
		return nil, err
	}
	if cfg.FrostThreshold, err = parseFloat("FROST_THRESHOLD_C", "0"); err != nil {
		return nil, err
	}
	if cfg.HumidityThreshold, err = parseFloat("HUMIDITY_THRESHOLD_PCT", "85"); err != nil {
		return nil, err
	}
	if cfg.CalmWind, err = parseFloat("CALM_WIND_KPH", "5"); err != nil {
		return nil, err
	}
	if cfg.ColdForecast, err = parseFloat("COLD_FORECAST_C", "2"); err != nil {
		return nil, err
	}
	if cfg.ForecastLeadHours, err = parseInt("FORECAST_LEAD_HOURS", "3"); err != nil {
		return nil, err
	}
	if cfg.MinRiskSignals, err = parseInt("MIN_RISK_SIGNALS", "3"); err != nil {
		return nil, err
	}

	if brokers := strings.TrimSpace(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "")); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}
	cfg.KafkaEnabled = len(cfg.KafkaBrokers) > 0

	if err := validator.New().Struct(cfg); err != nil {
		return nil, describe(err)
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// envNames maps struct fields to the variables that populate them.
var envNames = map[string]string{
	"Latitude":          "FROST_LATITUDE",
	"Longitude":         "FROST_LONGITUDE",
	"WeatherAPIKey":     "WEATHERAPI_KEY",
	"WeatherAPIBaseURL": "WEATHERAPI_BASE_URL",
	"ForecastLeadHours": "FORECAST_LEAD_HOURS",
	"HumidityThreshold": "HUMIDITY_THRESHOLD_PCT",
	"CalmWind":          "CALM_WIND_KPH",
	"MinRiskSignals":    "MIN_RISK_SIGNALS",
	"RunInterval":       "RUN_INTERVAL",
}

// describe reports the first validation failure by environment variable name.
func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	name, ok := envNames[fe.Field()]
	if !ok {
		name = fe.Field()
	}
	if fe.Tag() == "required" {
		return fmt.Errorf("%s is required", name)
	}
	return fmt.Errorf("invalid %s: failed %s%s", name, fe.Tag(), paramSuffix(fe.Param()))
}

func paramSuffix(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
