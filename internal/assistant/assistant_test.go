package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridassist/internal/customer"
	"github.com/jgoulah/gridassist/internal/llm"
	"github.com/jgoulah/gridassist/internal/loader"
	"github.com/jgoulah/gridassist/internal/prompt"
	"github.com/jgoulah/gridassist/internal/table"
	"github.com/jgoulah/gridassist/pkg/models"
)

const (
	energyCSV = `Customer_ID,Timestamp,Consumption_KWh
 C001 ,2024-01-01 00:00:00,5
C001,2024-01-02 00:00:00,4
C001,2024-01-01 12:00:00,3
C002,2024-01-01 00:00:00,99
`
	billingCSV = `Customer_ID,Billing_Period,Total_Bill,Tariff_Rate_Slab,Amount_Paid
C001,2023-11,100,,100
C001,2023-12,120,₹5/unit,120
C001,2024-01,140,₹6/unit,140
C001,2024-02,abc,₹6/unit,0
C002,2024-01,999,₹9/unit,999
`
	paymentsCSV = `Customer_ID,Transaction_Date,Amount_Paid,Payment_Status
C001,2024-01-05,100,Paid
C001,2024-02-05,120,failed
C002,2024-02-05,999,Failed
`
	weatherCSV = `Date,Temperature_C,Humidity_%
2024-01-01,20,50
2024-01-02,30,70
2024-01-02,32,
2024-01-03,26,60
`
	tariffsCSV = `Tariff_Name,Tariff_Type,Rate_Per_Unit,Fixed_Charge
Saver,Fixed,0.20,10
`
)

type fakeLLM struct {
	text     string
	err      error
	requests []llm.Request
}

func (f *fakeLLM) Name() string { return "fake" }

func (f *fakeLLM) Complete(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.text, f.err
}

type fakeWeather struct {
	days      []models.ForecastDay
	synthetic bool
	location  string
	n         int
}

func (f *fakeWeather) ForecastOrFallback(_ context.Context, location string, days int) ([]models.ForecastDay, bool) {
	f.location, f.n = location, days
	return f.days, f.synthetic
}

type fakeStore struct {
	insights  []*models.Insight
	forecasts []models.ForecastRow
}

func (s *fakeStore) InsertInsight(in *models.Insight) error {
	s.insights = append(s.insights, in)
	return nil
}

func (s *fakeStore) SaveForecast(rows []models.ForecastRow) (int, error) {
	s.forecasts = append(s.forecasts, rows...)
	return len(rows), nil
}

func mustTable(t *testing.T, csv string) *table.Table {
	t.Helper()
	tbl, err := table.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return tbl
}

func testView(t *testing.T, billing string) *customer.View {
	t.Helper()
	ds := &loader.Dataset{
		Energy:   mustTable(t, energyCSV),
		Billing:  mustTable(t, billing),
		Payments: mustTable(t, paymentsCSV),
		Weather:  mustTable(t, weatherCSV),
		Tariffs:  mustTable(t, tariffsCSV),
	}
	loader.Normalize(ds)
	view, err := customer.Build(ds)
	require.NoError(t, err)
	return view
}

func newTestAssistant(t *testing.T, provider llm.Provider, opts Options) *Assistant {
	t.Helper()
	return New(testView(t, billingCSV), provider, &fakeWeather{}, opts)
}

func TestResult(t *testing.T) {
	ok := Ok(42)
	assert.True(t, ok.Available())
	assert.Equal(t, 42, ok.Value)

	un := Unavailable[int]("no data")
	assert.False(t, un.Available())
	assert.Equal(t, "no data", un.Reason)

	b, err := json.Marshal(ok)
	require.NoError(t, err)
	assert.JSONEq(t, `{"available":true,"data":42}`, string(b))

	b, err = json.Marshal(un)
	require.NoError(t, err)
	assert.JSONEq(t, `{"available":false,"reason":"no data"}`, string(b))
}

func TestNewDefaults(t *testing.T) {
	a := New(nil, &fakeLLM{}, nil, Options{})
	assert.Equal(t, DefaultModel, a.opts.Model)
	assert.Equal(t, DefaultCopilotModel, a.opts.CopilotModel)
	assert.Equal(t, DefaultLocation, a.opts.Location)
	assert.Equal(t, DefaultForecastDays, a.opts.ForecastDays)
	assert.NotEmpty(t, a.RunID())
	assert.Empty(t, a.CustomerID())

	b := New(nil, &fakeLLM{}, nil, Options{RunID: "fixed"})
	assert.Equal(t, "fixed", b.RunID())
}

func TestUsage(t *testing.T) {
	a := newTestAssistant(t, &fakeLLM{}, Options{})
	res := a.Usage()
	require.True(t, res.Available())
	assert.Equal(t, "C001", res.Value.CustomerID)
	assert.Len(t, res.Value.Readings, 3)
	require.Len(t, res.Value.Daily, 2)
	assert.Equal(t, 8.0, res.Value.Daily[0].Value)
	assert.Equal(t, 4.0, res.Value.Daily[1].Value)
}

func TestTips(t *testing.T) {
	fake := &fakeLLM{text: "1. Shift laundry to the evening."}
	store := &fakeStore{}
	a := newTestAssistant(t, fake, Options{Store: store, RunID: "run-1"})

	res := a.Tips(context.Background())
	require.True(t, res.Available())
	assert.False(t, res.Value.Fallback)
	assert.Equal(t, "1. Shift laundry to the evening.", res.Value.Text)

	p := res.Value.Prompt
	assert.Contains(t, p, "2024-01-01: 8.00 kWh\n2024-01-02: 4.00 kWh")
	assert.Contains(t, p, "My highest usage was on 2024-01-01 with 8.00 kWh.")
	assert.Contains(t, p, "My lowest usage was on 2024-01-02 with 4.00 kWh.")
	assert.Contains(t, p, "average temperature was 27.0°C and humidity 60.0%.")
	assert.Contains(t, p, "You are currently billed under this tariff slab: £5/unit.")
	// only an exact "Failed" status counts here
	assert.NotContains(t, p, "missed or failed")

	require.Len(t, fake.requests, 1)
	assert.Equal(t, DefaultModel, fake.requests[0].Model)
	require.Len(t, fake.requests[0].Messages, 1)
	assert.Equal(t, llm.RoleUser, fake.requests[0].Messages[0].Role)

	require.Len(t, store.insights, 1)
	assert.Equal(t, "run-1", store.insights[0].RunID)
	assert.Equal(t, "C001", store.insights[0].CustomerID)
	assert.Equal(t, FeatureTips, store.insights[0].Feature)
	assert.Equal(t, p, store.insights[0].Prompt)
}

func TestTipsFallback(t *testing.T) {
	a := newTestAssistant(t, &fakeLLM{err: errors.New("rate limited")}, Options{})
	res := a.Tips(context.Background())
	require.True(t, res.Available())
	assert.True(t, res.Value.Fallback)
	assert.Equal(t, DefaultTip, res.Value.Text)
}

func TestWeatherImpact(t *testing.T) {
	fake := &fakeLLM{text: "Hot days push your usage up."}
	a := newTestAssistant(t, fake, Options{})

	res := a.WeatherImpact(context.Background(), true)
	require.True(t, res.Available())
	require.Len(t, res.Value.Merged, 2)
	assert.Equal(t, 20.0, res.Value.Merged[0].TemperatureC)
	assert.Equal(t, 31.0, res.Value.Merged[1].TemperatureC)
	assert.Equal(t, 4.0, res.Value.Merged[1].ConsumptionKWh)
	assert.Contains(t, res.Value.Prompt, "2024-01-01: 20°C, 8.00 kWh\n2024-01-02: 31°C, 4.00 kWh")
	assert.Equal(t, "Hot days push your usage up.", res.Value.Insight)

	plain := a.WeatherImpact(context.Background(), false)
	require.True(t, plain.Available())
	assert.Empty(t, plain.Value.Prompt)
	assert.Len(t, fake.requests, 1)
}

func TestWeatherImpactDegrades(t *testing.T) {
	a := newTestAssistant(t, &fakeLLM{err: errors.New("timeout")}, Options{})
	res := a.WeatherImpact(context.Background(), true)
	require.True(t, res.Available())
	assert.Len(t, res.Value.Merged, 2)
	assert.Empty(t, res.Value.Insight)
	assert.Contains(t, res.Value.InsightError, "timeout")

	a.view.Weather = a.view.Weather.Drop(loader.ColTemperature)
	res = a.WeatherImpact(context.Background(), true)
	assert.False(t, res.Available())
	assert.Equal(t, ReasonMissingWeather, res.Reason)
}

func TestForecast(t *testing.T) {
	fake := &fakeLLM{text: "2024-02-01 - Sunny, 12.50 kWh\ngarbage line\n2024-02-02 - Rainy, 9.00 kWh"}
	wx := &fakeWeather{days: []models.ForecastDay{
		{Date: "2024-02-01", AvgTempC: 31, Condition: "Sunny"},
		{Date: "2024-02-02", AvgTempC: 24.5, Condition: "Rainy"},
	}, synthetic: true}
	store := &fakeStore{}
	a := New(testView(t, billingCSV), fake, wx, Options{Location: "London", ForecastDays: 3, Store: store})

	res := a.Forecast(context.Background())
	require.True(t, res.Available())
	assert.Equal(t, "London", wx.location)
	assert.Equal(t, 3, wx.n)
	assert.True(t, res.Value.Synthetic)

	assert.Contains(t, res.Value.Prompt, "2024-01-01: 8.00 kWh, 2024-01-02: 4.00 kWh")
	assert.Contains(t, res.Value.Prompt, "2024-02-01: 31°C, Sunny\n2024-02-02: 24.5°C, Rainy")
	assert.Contains(t, res.Value.Prompt, prompt.ForecastFormat)

	require.Len(t, res.Value.Rows, 2)
	assert.Equal(t, "C001", res.Value.Rows[0].CustomerID)
	assert.Equal(t, "Sunny", res.Value.Rows[0].Condition)
	assert.Equal(t, "Rainy", res.Value.Rows[1].Condition)
	assert.InDelta(t, 21.5, res.Value.TotalKWh, 1e-9)

	assert.Len(t, store.forecasts, 2)
	require.Len(t, store.insights, 1)
	assert.Equal(t, FeatureForecast, store.insights[0].Feature)
}

func TestForecastNoRows(t *testing.T) {
	a := newTestAssistant(t, &fakeLLM{text: "I cannot forecast that."}, Options{})
	res := a.Forecast(context.Background())
	require.True(t, res.Available())
	assert.Empty(t, res.Value.Rows)
	assert.Zero(t, res.Value.TotalKWh)
}

func TestForecastFailure(t *testing.T) {
	a := newTestAssistant(t, &fakeLLM{err: errors.New("down")}, Options{})
	res := a.Forecast(context.Background())
	assert.False(t, res.Available())
	assert.Contains(t, res.Reason, "Forecasting error")
}

func TestAsk(t *testing.T) {
	fake := &fakeLLM{text: "Your usage peaked on New Year's Day."}
	a := newTestAssistant(t, fake, Options{})

	res := a.Ask(context.Background(), "  Why was my usage high?  ")
	require.True(t, res.Available())
	assert.Equal(t, "Your usage peaked on New Year's Day.", res.Value.Text)

	want := "You are an AI assistant helping a utility customer based on their personal energy data.\n\n" +
		"My past 7 days of energy usage:\n2024-01-01: 8.00 kWh\n2024-01-02: 4.00 kWh\n\n" +
		"My recent billing history:\n2023-12: £120\n2024-01: £140\n\n" +
		"My payment activity:\n2024-01-05: £100 - Paid\n2024-02-05: £120 - failed\n\n" +
		"Recent temperature data:\n2024-01-01: 20°C\n2024-01-02: 30°C\n2024-01-02: 32°C\n2024-01-03: 26°C\n\n" +
		"The customer asks: Why was my usage high?\n\n" +
		"Give a clear and helpful answer."
	assert.Equal(t, want, res.Value.Prompt)
}

func TestAskWithoutBillAmount(t *testing.T) {
	noAmount := strings.ReplaceAll(billingCSV, "Total_Bill", "Charges")
	a := New(testView(t, noAmount), &fakeLLM{text: "ok"}, &fakeWeather{}, Options{})

	p := a.AskPrompt("hi")
	assert.NotContains(t, p, prompt.SectionBilling)
	assert.Contains(t, p, prompt.SectionPayments)
}

func TestAskEmptyAndFailure(t *testing.T) {
	fake := &fakeLLM{err: errors.New("boom")}
	a := newTestAssistant(t, fake, Options{})

	res := a.Ask(context.Background(), "   ")
	assert.False(t, res.Available())
	assert.Equal(t, ReasonEmptyQuestion, res.Reason)
	assert.Empty(t, fake.requests)

	res = a.Ask(context.Background(), "hello")
	assert.False(t, res.Available())
	assert.Equal(t, "Query failed: boom", res.Reason)
}

func TestBillingHistoryAndPayments(t *testing.T) {
	a := newTestAssistant(t, &fakeLLM{}, Options{})

	bills := a.BillingHistory()
	require.True(t, bills.Available())
	assert.False(t, bills.Value.Has(loader.ColAmountPaid))
	assert.True(t, bills.Value.Has(loader.ColBillAmount))
	assert.Equal(t, 4, bills.Value.Len())

	payments := a.PaymentActivity()
	require.True(t, payments.Available())
	assert.Equal(t, 2, payments.Value.Len())
	assert.True(t, payments.Value.Has(loader.ColAmountPaid))
}

func TestOffers(t *testing.T) {
	fake := &fakeLLM{text: "Switch to Saver."}
	a := newTestAssistant(t, fake, Options{})

	res := a.Offers(context.Background())
	require.True(t, res.Available())
	assert.InDelta(t, 130.0, res.Value.AverageBill, 1e-9)
	// status match is case-insensitive here
	assert.True(t, res.Value.MissedPayments)
	assert.Equal(t, "Switch to Saver.", res.Value.Text)

	want := "My recent average monthly bill is £130.00.\n" +
		"I have missed recent payments.\n" +
		"Here are the available tariff options:\nSaver - Fixed - £0.20/unit, Fixed £10\n\n" +
		"Please suggest 2–3 suitable offers, adjustments, or tariff changes based on my payment history and these plans."
	assert.Equal(t, want, res.Value.Prompt)
}

func TestOffersMissingBillAmount(t *testing.T) {
	noAmount := strings.ReplaceAll(billingCSV, "Total_Bill", "Charges")
	fake := &fakeLLM{text: "unused"}
	a := New(testView(t, noAmount), fake, &fakeWeather{}, Options{})

	res := a.Offers(context.Background())
	assert.False(t, res.Available())
	assert.Equal(t, ReasonMissingBillAmount, res.Reason)
	assert.Empty(t, fake.requests)
}

func TestCopilot(t *testing.T) {
	fake := &fakeLLM{text: "Step 1: check the breaker."}
	a := New(nil, fake, nil, Options{})

	res := a.Copilot(context.Background(), "Agent", "Customer reports no power")
	require.True(t, res.Available())
	assert.Equal(t, "Step 1: check the breaker.", res.Value.Text)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, DefaultCopilotModel, req.Model)
	require.NotNil(t, req.Temperature)
	assert.InDelta(t, 0.6, *req.Temperature, 1e-6)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, prompt.AgentSystemPrompt, req.Messages[0].Content)
	assert.Equal(t, "Customer reports no power", req.Messages[1].Content)

	res = a.Copilot(context.Background(), "customer", "How do I read my meter?")
	require.True(t, res.Available())
	assert.Equal(t, prompt.CustomerSystemPrompt, fake.requests[1].Messages[0].Content)
}

func TestCopilotErrors(t *testing.T) {
	a := New(nil, &fakeLLM{err: errors.New("quota exceeded")}, nil, Options{})

	res := a.Copilot(context.Background(), "manager", "hi")
	assert.False(t, res.Available())
	assert.Contains(t, res.Reason, `unknown copilot role "manager"`)

	res = a.Copilot(context.Background(), "customer", "hi")
	assert.False(t, res.Available())
	assert.Equal(t, "Error generating response: quota exceeded", res.Reason)
}
