// Package openweather fetches current conditions from the OpenWeatherMap API
// and reduces them to the domain's four-way weather kinds. The fetch is
// strictly best-effort: callers treat any error as "weather unknown" and never
// surface it to the visitor.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/skyfolio/ambience/internal/domain"
	"github.com/skyfolio/ambience/internal/observability"
)

// Source provides the current weather snapshot for a location.
type Source interface {
	Current(ctx context.Context, loc domain.Location) (domain.WeatherSnapshot, error)
}

// Client implements Source against the OpenWeatherMap current-weather API.
// A circuit breaker keeps a flapping upstream from burning a request per
// page load.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 3,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		breaker: cb,
		metrics: metrics,
		logger:  logger,
	}
}

// Current fetches and classifies the weather at loc. The returned snapshot's
// season comes from the calendar, not the payload.
func (c *Client) Current(ctx context.Context, loc domain.Location) (domain.WeatherSnapshot, error) {
	params := url.Values{
		"lat":   {fmt.Sprintf("%.4f", loc.Lat)},
		"lon":   {fmt.Sprintf("%.4f", loc.Lon)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	})
	if err != nil {
		c.metrics.WeatherFetches.WithLabelValues("error").Inc()
		return domain.WeatherSnapshot{}, err
	}

	snap, ok := result.(domain.WeatherSnapshot)
	if !ok {
		c.metrics.WeatherFetches.WithLabelValues("error").Inc()
		return domain.WeatherSnapshot{}, fmt.Errorf("unexpected result type from circuit breaker")
	}

	c.metrics.WeatherFetches.WithLabelValues("success").Inc()
	return snap, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (domain.WeatherSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherSnapshot{}, fmt.Errorf("openweather API error: status %d: %s", resp.StatusCode, body)
	}

	var owResp response
	if err := json.NewDecoder(resp.Body).Decode(&owResp); err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("decode response: %w", err)
	}

	condition := ""
	if len(owResp.Weather) > 0 {
		condition = owResp.Weather[0].Main
	}

	return domain.WeatherSnapshot{
		Kind:   domain.ClassifyCondition(condition),
		TempC:  owResp.Main.Temp,
		Season: domain.CurrentSeason(),
	}, nil
}

// OpenWeatherMap API response types.

type response struct {
	Weather []condition `json:"weather"`
	Main    mainBlock   `json:"main"`
}

type condition struct {
	Main string `json:"main"`
}

type mainBlock struct {
	Temp float64 `json:"temp"`
}
