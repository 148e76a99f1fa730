package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveBeforeInit(t *testing.T) {
	// Recording without Init is a no-op
	if llmRequests != nil {
		t.Skip("metrics already initialized")
	}
	assert.NotPanics(t, func() {
		ObserveLLM("tips", nil, time.Second)
		IncForecastSource(true)
		ObserveForecastRows(3)
		IncUnavailable("offers")
		IncHTTPRequest("POST /api/v1/tips", "200")
	})
}

func TestCounters(t *testing.T) {
	Init()
	Init()

	ObserveLLM("tips", nil, 250*time.Millisecond)
	ObserveLLM("tips", errors.New("boom"), time.Second)
	ObserveLLM("tips", errors.New("boom"), time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(llmRequests.WithLabelValues("tips", ResultSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(llmRequests.WithLabelValues("tips", ResultError)))

	IncForecastSource(false)
	IncForecastSource(true)
	IncForecastSource(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(forecastSource.WithLabelValues(SourceLive)))
	assert.Equal(t, 2.0, testutil.ToFloat64(forecastSource.WithLabelValues(SourceSynthetic)))

	IncUnavailable("offers")
	assert.Equal(t, 1.0, testutil.ToFloat64(featureUnavailable.WithLabelValues("offers")))

	IncHTTPRequest("GET /api/v1/usage", "200")
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequests.WithLabelValues("GET /api/v1/usage", "200")))
}
