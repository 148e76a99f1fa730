// Package assistant runs the customer-facing features: usage charts, saving
// tips, weather impact, usage forecasts, free-form questions, billing views,
// plan offers and the customer/agent copilot. Each feature returns a Result
// so a failure in one never takes down the others.
package assistant

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jgoulah/gridassist/internal/customer"
	"github.com/jgoulah/gridassist/internal/llm"
	"github.com/jgoulah/gridassist/internal/metrics"
	"github.com/jgoulah/gridassist/pkg/models"
)

// Feature names, used for metrics and stored insights
const (
	FeatureTips          = "tips"
	FeatureWeather       = "weather"
	FeatureForecast      = "forecast"
	FeatureAsk           = "ask"
	FeatureOffers        = "offers"
	FeatureCopilot       = "copilot"
	FeatureUsage         = "usage"
	FeatureBilling       = "billing"
	FeaturePayments      = "payments"
	FeatureWeatherImpact = "weather_impact"
)

// Defaults applied when Options leaves a field empty
const (
	DefaultModel              = "gpt-3.5-turbo"
	DefaultCopilotModel       = "gpt-4"
	DefaultCopilotTemperature = 0.6
	DefaultLocation           = "Delhi"
	DefaultForecastDays       = 15
	ForecastHistoryDays       = 30
)

// ForecastSource supplies the upcoming weather. The bool reports whether the
// days were synthesized because the live source failed.
type ForecastSource interface {
	ForecastOrFallback(ctx context.Context, location string, days int) ([]models.ForecastDay, bool)
}

// Store records model outputs. It is optional.
type Store interface {
	InsertInsight(in *models.Insight) error
	SaveForecast(rows []models.ForecastRow) (int, error)
}

// Options configures an Assistant
type Options struct {
	Model              string
	CopilotModel       string
	CopilotTemperature float32
	Location           string
	ForecastDays       int

	// RunID groups the insights of one interaction; a new UUID when empty
	RunID  string
	Store  Store
	Logger *zap.Logger
}

// Assistant serves one interaction for one customer view
type Assistant struct {
	view    *customer.View
	llm     llm.Provider
	weather ForecastSource
	opts    Options
	logger  *zap.Logger
	now     func() time.Time
}

// New creates an assistant. view may be nil for the copilot, which needs no
// customer data.
func New(view *customer.View, provider llm.Provider, weather ForecastSource, opts Options) *Assistant {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.CopilotModel == "" {
		opts.CopilotModel = DefaultCopilotModel
	}
	if opts.CopilotTemperature <= 0 {
		opts.CopilotTemperature = DefaultCopilotTemperature
	}
	if opts.Location == "" {
		opts.Location = DefaultLocation
	}
	if opts.ForecastDays <= 0 {
		opts.ForecastDays = DefaultForecastDays
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}

	return &Assistant{
		view:    view,
		llm:     provider,
		weather: weather,
		opts:    opts,
		logger:  logger.With(zap.String("run_id", opts.RunID)),
		now:     time.Now,
	}
}

// RunID identifies this interaction
func (a *Assistant) RunID() string {
	return a.opts.RunID
}

// CustomerID returns the customer being viewed, or "" without a view
func (a *Assistant) CustomerID() string {
	if a.view == nil {
		return ""
	}
	return a.view.CustomerID
}

// complete runs one model call, recording metrics and, when a store is set,
// the prompt and response.
func (a *Assistant) complete(ctx context.Context, feature string, req llm.Request) (string, error) {
	start := a.now()
	text, err := a.llm.Complete(ctx, req)
	elapsed := a.now().Sub(start)
	metrics.ObserveLLM(feature, err, elapsed)

	if err != nil {
		a.logger.Warn("completion failed",
			zap.String("feature", feature),
			zap.String("provider", a.llm.Name()),
			zap.String("model", req.Model),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return "", err
	}

	a.logger.Debug("completion finished",
		zap.String("feature", feature),
		zap.String("model", req.Model),
		zap.Duration("elapsed", elapsed),
		zap.Int("response_bytes", len(text)))

	if a.opts.Store != nil {
		in := &models.Insight{
			RunID:      a.opts.RunID,
			CustomerID: a.CustomerID(),
			Feature:    feature,
			Prompt:     lastUserMessage(req),
			Response:   text,
		}
		if err := a.opts.Store.InsertInsight(in); err != nil {
			a.logger.Warn("storing insight failed", zap.String("feature", feature), zap.Error(err))
		}
	}

	return text, nil
}

func lastUserMessage(req llm.Request) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == llm.RoleUser {
			return req.Messages[i].Content
		}
	}
	return ""
}

func unavailable[T any](feature, reason string) Result[T] {
	metrics.IncUnavailable(feature)
	return Unavailable[T](reason)
}
