package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forecastJSON = `{
  "forecast": {
    "forecastday": [
      {"date": "2024-02-01", "day": {"avgtemp_c": 31.4, "condition": {"text": "Sunny"}}},
      {"date": "2024-02-02", "day": {"avgtemp_c": 29, "condition": {"text": "Patchy rain"}}}
    ]
  }
}`

func TestForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Delhi", r.URL.Query().Get("q"))
		assert.Equal(t, "15", r.URL.Query().Get("days"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(forecastJSON))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	days, err := c.Forecast(context.Background(), "Delhi", 15)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-02-01", days[0].Date)
	assert.InDelta(t, 31.4, days[0].AvgTempC, 1e-9)
	assert.Equal(t, "Patchy rain", days[1].Condition)

	live, synthetic := c.ForecastOrFallback(context.Background(), "Delhi", 15)
	assert.False(t, synthetic)
	assert.Equal(t, days, live)
}

func TestForecastNonOKFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad", 5*time.Second)
	_, err := c.Forecast(context.Background(), "Delhi", 15)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")

	days, synthetic := c.ForecastOrFallback(context.Background(), "Delhi", 15)
	assert.True(t, synthetic)
	assert.Len(t, days, FallbackDays)
}

func TestForecastUnreachableFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, "", time.Second)
	fixed := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return fixed }

	days, synthetic := c.ForecastOrFallback(context.Background(), "Delhi", 15)
	require.True(t, synthetic)
	require.Len(t, days, FallbackDays)
	assert.Equal(t, "2024-03-01", days[0].Date)
	assert.Equal(t, "2024-03-15", days[14].Date)
}

func TestFallbackBounds(t *testing.T) {
	for run := 0; run < 20; run++ {
		days := Fallback(time.Now())
		require.Len(t, days, FallbackDays)
		for _, d := range days {
			assert.GreaterOrEqual(t, d.AvgTempC, float64(FallbackMinTempC))
			assert.LessOrEqual(t, d.AvgTempC, float64(FallbackMaxTempC))
			assert.NotEmpty(t, d.Condition)
			assert.Contains(t, FallbackConditions, d.Condition)
		}
	}
}
