package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/frost-guard/internal/domain"
	"github.com/couchcryptid/frost-guard/internal/observability"
	"github.com/sony/gobreaker/v2"
)

const (
	providerName = "weatherapi"

	// DefaultBaseURL is the WeatherAPI.com v1 endpoint.
	DefaultBaseURL = "https://api.weatherapi.com/v1"

	maxErrorBody = 512
)

// Client implements domain.WeatherSource using the WeatherAPI.com forecast endpoint.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	leadHours  int
	breaker    *gobreaker.CircuitBreaker[domain.WeatherReading]
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a WeatherAPI.com client. leadHours selects how far past
// the current local hour the forecast entry is taken.
func NewClient(apiKey, baseURL string, timeout time.Duration, leadHours int, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:   baseURL,
		leadHours: leadHours,
		breaker:   newBreaker(),
		metrics:   metrics,
		logger:    logger,
	}
}

// breakerSettings trips after six consecutive failed fetches and probes again
// after 30 seconds. Interval is zero so closed-state counts survive the gap
// between scheduled cycles; any success still resets ConsecutiveFailures.
func breakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		Name:        providerName,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	}
}

func newBreaker() *gobreaker.CircuitBreaker[domain.WeatherReading] {
	return gobreaker.NewCircuitBreaker[domain.WeatherReading](breakerSettings())
}

// Fetch returns current conditions and the selected hourly forecast entry
// for the given coordinates.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (domain.WeatherReading, error) {
	start := time.Now()
	reading, err := c.breaker.Execute(func() (domain.WeatherReading, error) {
		return c.fetch(ctx, lat, lon)
	})
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = &domain.ExternalFailureError{Provider: providerName, Reason: "circuit breaker open", Err: err}
		}
		c.logger.Warn("weather fetch failed", "error", err, "lat", lat, "lon", lon)
		return domain.WeatherReading{}, err
	}

	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	c.logger.Debug("weather fetched",
		"location", reading.Location,
		"air_temperature", reading.Air.Temperature,
		"forecast_hour", reading.Forecast.Hour,
	)
	return reading, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (domain.WeatherReading, error) {
	params := url.Values{
		"key":    {c.apiKey},
		"q":      {formatCoord(lat) + "," + formatCoord(lon)},
		"days":   {"1"},
		"aqi":    {"no"},
		"alerts": {"no"},
	}
	fullURL := c.baseURL + "/forecast.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.WeatherReading{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherReading{}, &domain.ExternalFailureError{Provider: providerName, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.WeatherReading{}, &domain.ExternalFailureError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			Reason:     string(body),
		}
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return domain.WeatherReading{}, &domain.ExternalFailureError{Provider: providerName, Reason: "decode response", Err: err}
	}
	return c.toReading(fr)
}

// toReading maps the provider response, reporting the first missing path.
func (c *Client) toReading(fr forecastResponse) (domain.WeatherReading, error) {
	if fr.Current == nil {
		return domain.WeatherReading{}, missing("current")
	}
	if fr.Current.TempC == nil {
		return domain.WeatherReading{}, missing("current.temp_c")
	}
	if fr.Current.Humidity == nil {
		return domain.WeatherReading{}, missing("current.humidity")
	}
	if fr.Current.WindKph == nil {
		return domain.WeatherReading{}, missing("current.wind_kph")
	}
	if fr.Forecast == nil || len(fr.Forecast.ForecastDay) == 0 {
		return domain.WeatherReading{}, missing("forecast.forecastday[0]")
	}

	var loc, tz string
	if fr.Location != nil {
		loc, tz = fr.Location.Name, fr.Location.TzID
	}

	hours := fr.Forecast.ForecastDay[0].Hour
	idx := domain.ForecastHourIndex(domain.LocalHour(tz), c.leadHours, len(hours))
	if idx < 0 {
		return domain.WeatherReading{}, missing("forecast.forecastday[0].hour")
	}
	h := hours[idx]
	if h.TempC == nil {
		return domain.WeatherReading{}, missing(fmt.Sprintf("forecast.forecastday[0].hour[%d].temp_c", idx))
	}
	if h.Humidity == nil {
		return domain.WeatherReading{}, missing(fmt.Sprintf("forecast.forecastday[0].hour[%d].humidity", idx))
	}

	return domain.WeatherReading{
		Location: loc,
		TimeZone: tz,
		Air: domain.AirConditions{
			Temperature: *fr.Current.TempC,
			Humidity:    *fr.Current.Humidity,
			WindSpeed:   *fr.Current.WindKph,
		},
		Forecast: domain.ForecastConditions{
			Temperature: *h.TempC,
			Humidity:    *h.Humidity,
			Hour:        idx,
		},
	}, nil
}

func missing(path string) error {
	return &domain.ExternalFailureError{Provider: providerName, Reason: "missing " + path}
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WeatherAPI.com response types. Pointers distinguish absent fields from zero values.

type forecastResponse struct {
	Location *location `json:"location"`
	Current  *current  `json:"current"`
	Forecast *forecast `json:"forecast"`
}

type location struct {
	Name string `json:"name"`
	TzID string `json:"tz_id"`
}

type current struct {
	TempC    *float64 `json:"temp_c"`
	Humidity *float64 `json:"humidity"`
	WindKph  *float64 `json:"wind_kph"`
}

type forecast struct {
	ForecastDay []forecastDay `json:"forecastday"`
}

type forecastDay struct {
	Hour []hour `json:"hour"`
}

type hour struct {
	Time     string   `json:"time"`
	TempC    *float64 `json:"temp_c"`
	Humidity *float64 `json:"humidity"`
}
