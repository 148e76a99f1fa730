package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jgoulah/gridassist/pkg/models"
)

// DefaultBaseURL is the WeatherAPI forecast endpoint
const DefaultBaseURL = "http://api.weatherapi.com/v1/forecast.json"

// Client fetches day-level forecasts from a WeatherAPI-compatible endpoint
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	now     func() time.Time
}

// NewClient creates a forecast client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

type forecastResponse struct {
	Forecast struct {
		ForecastDay []struct {
			Date string `json:"date"`
			Day  struct {
				AvgTempC  float64 `json:"avgtemp_c"`
				Condition struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"day"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

// Forecast requests a forecast for a location. Any non-200 status is an error.
func (c *Client) Forecast(ctx context.Context, location string, days int) ([]models.ForecastDay, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("days", strconv.Itoa(days))
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: status %d, response: %s", resp.StatusCode, string(body))
	}

	var parsed forecastResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	out := make([]models.ForecastDay, 0, len(parsed.Forecast.ForecastDay))
	for _, d := range parsed.Forecast.ForecastDay {
		out = append(out, models.ForecastDay{
			Date:      d.Date,
			AvgTempC:  d.Day.AvgTempC,
			Condition: d.Day.Condition.Text,
		})
	}
	return out, nil
}

// ForecastOrFallback returns the live forecast, or a synthetic one when the
// endpoint fails. synthetic reports which source was used.
func (c *Client) ForecastOrFallback(ctx context.Context, location string, days int) (forecast []models.ForecastDay, synthetic bool) {
	forecast, err := c.Forecast(ctx, location, days)
	if err == nil {
		return forecast, false
	}

	zap.L().Warn("weather forecast unavailable, using synthetic forecast",
		zap.String("location", location),
		zap.Error(err),
	)
	return Fallback(c.now()), true
}
