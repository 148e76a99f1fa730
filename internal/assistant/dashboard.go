package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/jgoulah/gridassist/internal/customer"
	"github.com/jgoulah/gridassist/internal/forecast"
	"github.com/jgoulah/gridassist/internal/llm"
	"github.com/jgoulah/gridassist/internal/loader"
	"github.com/jgoulah/gridassist/internal/metrics"
	"github.com/jgoulah/gridassist/internal/prompt"
	"github.com/jgoulah/gridassist/internal/table"
	"github.com/jgoulah/gridassist/internal/weather"
	"github.com/jgoulah/gridassist/pkg/models"
)

// DefaultTip is shown when personalized tips cannot be generated
const DefaultTip = "Try using appliances during off-peak hours and unplug unused devices to reduce phantom load."

// User-facing reasons for unavailable features
const (
	ReasonNoReadings        = "No energy readings found for this customer."
	ReasonMissingWeather    = "Missing temperature or consumption data for the graph."
	ReasonNoOverlap         = "No days with both energy and weather data."
	ReasonMissingBillAmount = "'Bill_Amount' column is missing from your billing file. Plan recommendations cannot be generated."
	ReasonNoBillAmounts     = "No valid bill amounts found in your billing history."
	ReasonNoBilling         = "No billing records found for this customer."
	ReasonNoPayments        = "No payment records found for this customer."
	ReasonEmptyQuestion     = "Please enter a question."
)

// Row windows used when building prompts
const (
	tipsWeatherWindow = 7
	askWeatherWindow  = 5
	askRecordWindow   = 3
	offerBillWindow   = 3
)

// Answer is a model response with the prompt that produced it
type Answer struct {
	Prompt string `json:"prompt,omitempty"`
	Text   string `json:"text"`
	// Fallback is set when Text is a canned answer rather than a model response
	Fallback bool `json:"fallback,omitempty"`
}

// UsageChart is the customer's hourly readings and their daily totals
type UsageChart struct {
	CustomerID string                   `json:"customer_id"`
	Readings   []models.EnergyReading   `json:"readings"`
	Daily      []models.TimeSeriesPoint `json:"daily"`
}

// WeatherImpact pairs daily usage with daily weather. Insight is empty and
// InsightError set when the model call failed; the series is still usable.
type WeatherImpact struct {
	Merged       []models.MergedDailyRecord `json:"merged"`
	Prompt       string                     `json:"prompt,omitempty"`
	Insight      string                     `json:"insight,omitempty"`
	InsightError string                     `json:"insight_error,omitempty"`
}

// Forecast is a weather-aware usage forecast
type Forecast struct {
	Weather   []models.ForecastDay `json:"weather"`
	Synthetic bool                 `json:"synthetic_weather"`
	Prompt    string               `json:"prompt,omitempty"`
	Text      string               `json:"text"`
	Rows      []models.ForecastRow `json:"rows"`
	TotalKWh  float64              `json:"total_kwh"`
}

// Offers is a plan recommendation with the figures behind it
type Offers struct {
	Answer
	AverageBill    float64 `json:"average_bill"`
	MissedPayments bool    `json:"missed_payments"`
}

// Usage returns the hourly usage chart and its daily resample
func (a *Assistant) Usage() Result[UsageChart] {
	if len(a.view.Readings) == 0 {
		return unavailable[UsageChart](FeatureUsage, ReasonNoReadings)
	}
	return Ok(UsageChart{
		CustomerID: a.view.CustomerID,
		Readings:   a.view.Readings,
		Daily:      a.view.Daily,
	})
}

// TipsPrompt assembles the energy-saving tips prompt from the last seven
// days of usage, recent area weather, payment status and tariff slab.
func (a *Assistant) TipsPrompt() (string, error) {
	recent := customer.Recent(a.view.Daily, customer.RecentDays)
	high, low, ok := customer.HighLow(recent)
	if !ok {
		return "", fmt.Errorf("no daily usage for customer %s", a.view.CustomerID)
	}

	in := prompt.TipsInput{
		UsageSeries: prompt.UsageSeries(recent),
		HighLowNote: prompt.HighLowNote(high, low),
	}

	if temp, hum, ok := weather.RecentAverages(a.view.WeatherObservations(), tipsWeatherWindow); ok {
		in.WeatherNote = prompt.WeatherNote(temp, hum)
	}

	if a.view.Payments.Has(loader.ColPaymentStatus) {
		failed := false
		for _, p := range a.view.PaymentRecords() {
			if p.Status == "Failed" {
				failed = true
				break
			}
		}
		in.PaymentNote = prompt.PaymentNote(failed)
	}

	if a.view.Billing.Has(loader.ColTariffSlab) {
		for _, r := range a.view.BillingRecords() {
			if r.TariffSlab != "" {
				in.TariffNote = prompt.TariffNote(r.TariffSlab)
				break
			}
		}
	}

	return prompt.Tips(in), nil
}

// Tips asks for three bill-reduction suggestions. Any failure yields
// DefaultTip with Fallback set.
func (a *Assistant) Tips(ctx context.Context) Result[Answer] {
	p, err := a.TipsPrompt()
	if err != nil {
		a.logger.Warn("building tips prompt", zap.Error(err))
		return Ok(Answer{Text: DefaultTip, Fallback: true})
	}

	text, err := a.complete(ctx, FeatureTips, llm.UserPrompt(a.opts.Model, p))
	if err != nil {
		return Ok(Answer{Prompt: p, Text: DefaultTip, Fallback: true})
	}
	return Ok(Answer{Prompt: p, Text: text})
}

// MergedSeries joins daily usage with daily mean weather
func (a *Assistant) MergedSeries() Result[[]models.MergedDailyRecord] {
	if !a.view.Weather.Has(loader.ColTemperature) || len(a.view.Daily) == 0 {
		return unavailable[[]models.MergedDailyRecord](FeatureWeatherImpact, ReasonMissingWeather)
	}
	merged := weather.Join(a.view.Daily, weather.DailyAggregate(a.view.WeatherObservations()))
	if len(merged) == 0 {
		return unavailable[[]models.MergedDailyRecord](FeatureWeatherImpact, ReasonNoOverlap)
	}
	return Ok(merged)
}

// WeatherImpact returns the usage-vs-temperature series and, with a model,
// insight into how the weather drives consumption.
func (a *Assistant) WeatherImpact(ctx context.Context, withInsight bool) Result[WeatherImpact] {
	series := a.MergedSeries()
	if !series.Available() {
		return Unavailable[WeatherImpact](series.Reason)
	}

	impact := WeatherImpact{Merged: series.Value}
	if !withInsight {
		return Ok(impact)
	}

	impact.Prompt = prompt.WeatherInsight(prompt.TemperatureSeries(impact.Merged))
	text, err := a.complete(ctx, FeatureWeather, llm.UserPrompt(a.opts.Model, impact.Prompt))
	if err != nil {
		impact.InsightError = fmt.Sprintf("Error generating weather insight: %v", err)
		return Ok(impact)
	}
	impact.Insight = text
	return Ok(impact)
}

// Forecast asks the model for a per-day usage forecast from the last 30 days
// of usage and the upcoming weather, then extracts the rows it returned.
func (a *Assistant) Forecast(ctx context.Context) Result[Forecast] {
	history := customer.Recent(a.view.Daily, ForecastHistoryDays)
	if len(history) == 0 {
		return unavailable[Forecast](FeatureForecast, ReasonNoReadings)
	}

	days, synthetic := a.weather.ForecastOrFallback(ctx, a.opts.Location, a.opts.ForecastDays)
	metrics.IncForecastSource(synthetic)

	out := Forecast{
		Weather:   days,
		Synthetic: synthetic,
		Prompt:    prompt.Forecast(prompt.DailySeries(history), prompt.WeatherSummary(days)),
	}

	text, err := a.complete(ctx, FeatureForecast, llm.UserPrompt(a.opts.Model, out.Prompt))
	if err != nil {
		return unavailable[Forecast](FeatureForecast, fmt.Sprintf("Forecasting error: %v", err))
	}
	out.Text = text

	out.Rows = forecast.Parse(text)
	for i := range out.Rows {
		out.Rows[i].CustomerID = a.view.CustomerID
	}
	out.TotalKWh = forecast.Total(out.Rows)
	metrics.ObserveForecastRows(len(out.Rows))

	if len(out.Rows) == 0 {
		a.logger.Info("forecast response had no parseable rows", zap.Int("response_bytes", len(text)))
	}

	if a.opts.Store != nil && len(out.Rows) > 0 {
		if _, err := a.opts.Store.SaveForecast(out.Rows); err != nil {
			a.logger.Warn("storing forecast failed", zap.Error(err))
		}
	}

	return Ok(out)
}

// AskPrompt wraps a question with whichever context sections the data supports
func (a *Assistant) AskPrompt(question string) string {
	sections := []string{
		prompt.Section(prompt.SectionUsage, prompt.UsageSeries(customer.Recent(a.view.Daily, customer.RecentDays))),
	}

	billing := a.view.Billing
	if a.view.BillAmountResolved && billing.Has(loader.ColBillingPeriod) {
		bills := loader.BillingRecords(billing.Tail(askRecordWindow))
		sections = append(sections, prompt.Section(prompt.SectionBilling, prompt.BillSummary(bills)))
	}

	payments := a.view.Payments
	if payments.Has(loader.ColTransactionDate) && payments.Has(loader.ColAmountPaid) && payments.Has(loader.ColPaymentStatus) {
		recent := loader.Payments(payments.Tail(askRecordWindow))
		sections = append(sections, prompt.Section(prompt.SectionPayments, prompt.PaymentSummary(recent)))
	}

	if a.view.Weather.Has(loader.ColDate) && a.view.Weather.Has(loader.ColTemperature) {
		obs := loader.WeatherObservations(a.view.Weather.Tail(askWeatherWindow))
		sections = append(sections, prompt.Section(prompt.SectionWeather, prompt.TemperatureReadings(obs)))
	}

	return prompt.Ask(sections, question)
}

// Ask answers a free-form question about the customer's data
func (a *Assistant) Ask(ctx context.Context, question string) Result[Answer] {
	question = strings.TrimSpace(question)
	if question == "" {
		return Unavailable[Answer](ReasonEmptyQuestion)
	}

	p := a.AskPrompt(question)
	text, err := a.complete(ctx, FeatureAsk, llm.UserPrompt(a.opts.Model, p))
	if err != nil {
		return unavailable[Answer](FeatureAsk, fmt.Sprintf("Query failed: %v", err))
	}
	return Ok(Answer{Prompt: p, Text: text})
}

// BillingHistory returns the customer's billing rows without Amount_Paid
func (a *Assistant) BillingHistory() Result[*table.Table] {
	if a.view.Billing.Len() == 0 {
		return unavailable[*table.Table](FeatureBilling, ReasonNoBilling)
	}
	return Ok(a.view.Billing.Drop(loader.ColAmountPaid))
}

// PaymentActivity returns the customer's payment rows
func (a *Assistant) PaymentActivity() Result[*table.Table] {
	if a.view.Payments.Len() == 0 {
		return unavailable[*table.Table](FeaturePayments, ReasonNoPayments)
	}
	return Ok(a.view.Payments.Clone())
}

// OffersPrompt builds the plan recommendation prompt. It is unavailable when
// the billing file has no resolvable bill amount column.
func (a *Assistant) OffersPrompt() Result[Offers] {
	if !a.view.BillAmountResolved {
		return unavailable[Offers](FeatureOffers, ReasonMissingBillAmount)
	}

	var amounts []float64
	for _, r := range loader.BillingRecords(a.view.Billing.Tail(offerBillWindow)) {
		if r.BillAmount != nil {
			amounts = append(amounts, *r.BillAmount)
		}
	}
	if len(amounts) == 0 {
		return unavailable[Offers](FeatureOffers, ReasonNoBillAmounts)
	}

	missed := false
	for _, p := range a.view.PaymentRecords() {
		if strings.ToLower(p.Status) == "failed" {
			missed = true
			break
		}
	}

	avg := stat.Mean(amounts, nil)
	return Ok(Offers{
		Answer:         Answer{Prompt: prompt.Offers(avg, missed, prompt.TariffOptions(a.view.TariffPlans()))},
		AverageBill:    avg,
		MissedPayments: missed,
	})
}

// Offers suggests tariff changes and bill relief
func (a *Assistant) Offers(ctx context.Context) Result[Offers] {
	res := a.OffersPrompt()
	if !res.Available() {
		return res
	}

	out := res.Value
	text, err := a.complete(ctx, FeatureOffers, llm.UserPrompt(a.opts.Model, out.Prompt))
	if err != nil {
		return unavailable[Offers](FeatureOffers, fmt.Sprintf("Offer generation failed: %v", err))
	}
	out.Text = text
	return Ok(out)
}
