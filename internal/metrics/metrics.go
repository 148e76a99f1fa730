package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "gridassist_"

	ResultSuccess = "success"
	ResultError   = "error"

	SourceLive      = "live"
	SourceSynthetic = "synthetic"
)

var (
	registerOnce sync.Once

	llmRequests *prometheus.CounterVec
	llmLatency  *prometheus.HistogramVec

	forecastSource     *prometheus.CounterVec
	forecastRows       prometheus.Histogram
	featureUnavailable *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
)

// Init registers the assistant metrics with the default registry
func Init() {
	registerOnce.Do(func() {
		llmRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "llm_requests_total",
				Help: "Total completion requests by feature and result",
			},
			[]string{"feature", "result"},
		)
		llmLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "llm_latency_seconds",
				Help:    "Completion latency in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
			},
			[]string{"feature"},
		)

		forecastSource = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "weather_forecast_total",
				Help: "Weather forecasts used by source (live or synthetic)",
			},
			[]string{"source"},
		)
		forecastRows = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "forecast_rows",
				Help:    "Rows extracted from each usage forecast response",
				Buckets: prometheus.LinearBuckets(0, 5, 7),
			},
		)
		featureUnavailable = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "feature_unavailable_total",
				Help: "Features that degraded to an unavailable result",
			},
			[]string{"feature"},
		)

		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "API requests by matched route pattern and status code",
			},
			[]string{"route", "code"},
		)

		prometheus.MustRegister(
			llmRequests,
			llmLatency,
			forecastSource,
			forecastRows,
			featureUnavailable,
			httpRequests,
		)
	})
}

// ObserveLLM records one completion call
func ObserveLLM(feature string, err error, duration time.Duration) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	if llmRequests != nil {
		llmRequests.WithLabelValues(feature, result).Inc()
	}
	if llmLatency != nil {
		llmLatency.WithLabelValues(feature).Observe(duration.Seconds())
	}
}

// IncForecastSource counts a weather forecast by where it came from
func IncForecastSource(synthetic bool) {
	if forecastSource == nil {
		return
	}
	source := SourceLive
	if synthetic {
		source = SourceSynthetic
	}
	forecastSource.WithLabelValues(source).Inc()
}

// ObserveForecastRows records how many rows a forecast response yielded
func ObserveForecastRows(n int) {
	if forecastRows != nil {
		forecastRows.Observe(float64(n))
	}
}

// IncUnavailable counts a feature that could not produce a result
func IncUnavailable(feature string) {
	if featureUnavailable != nil {
		featureUnavailable.WithLabelValues(feature).Inc()
	}
}

// IncHTTPRequest counts an API request
func IncHTTPRequest(route, code string) {
	if httpRequests != nil {
		httpRequests.WithLabelValues(route, code).Inc()
	}
}
