package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jgoulah/gridassist/pkg/models"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func amount(v float64) *float64 { return &v }

var series = []models.TimeSeriesPoint{
	{Date: day(1), Value: 8},
	{Date: day(2), Value: 4.126},
}

func TestUsageSeries(t *testing.T) {
	assert.Equal(t, "2024-01-01: 8.00 kWh\n2024-01-02: 4.13 kWh", UsageSeries(series))
	assert.Equal(t, "2024-01-01: 8.00 kWh, 2024-01-02: 4.13 kWh", DailySeries(series))
	assert.Equal(t, "", UsageSeries(nil))
}

func TestNotes(t *testing.T) {
	assert.Equal(t,
		"My highest usage was on 2024-01-01 with 8.00 kWh.\nMy lowest usage was on 2024-01-02 with 4.13 kWh.",
		HighLowNote(series[0], series[1]))
	assert.Equal(t, "\nYour area's average temperature was 31.0°C and humidity 65.5%.", WeatherNote(31, 65.49))
	assert.Equal(t, "", PaymentNote(false))
	assert.Equal(t, "\nNote: You have missed or failed recent payments.", PaymentNote(true))
	assert.Equal(t, "", TariffNote(""))
	assert.Equal(t, "\nYou are currently billed under this tariff slab: Standard £0.25/unit.", TariffNote("Standard £0.25/unit"))
}

func TestTips(t *testing.T) {
	in := TipsInput{
		UsageSeries: UsageSeries(series),
		HighLowNote: HighLowNote(series[0], series[1]),
		WeatherNote: WeatherNote(30, 60),
		PaymentNote: PaymentNote(true),
		TariffNote:  TariffNote("Slab A"),
	}
	want := "You are my personal energy assistant.\n" +
		"Here is my energy usage for the past 7 days:\n2024-01-01: 8.00 kWh\n2024-01-02: 4.13 kWh\n\n" +
		"My highest usage was on 2024-01-01 with 8.00 kWh.\nMy lowest usage was on 2024-01-02 with 4.13 kWh.\n" +
		"\nYour area's average temperature was 30.0°C and humidity 60.0%." +
		"\nNote: You have missed or failed recent payments." +
		"\nYou are currently billed under this tariff slab: Slab A.\n\n" +
		"Based on this, give me 3 friendly and practical suggestions to reduce my electricity bill.\n" +
		"Highlight what I can do differently on high-usage days, how to better manage appliance schedules, and how my current tariff impacts savings."

	assert.Equal(t, want, Tips(in))
	assert.Equal(t, Tips(in), Tips(in), "assembly is deterministic")
}

func TestWeatherInsight(t *testing.T) {
	merged := []models.MergedDailyRecord{
		{Date: day(2), ConsumptionKWh: 4, TemperatureC: 31, HumidityPct: 65},
		{Date: day(3), ConsumptionKWh: 6.5, TemperatureC: 29.5, HumidityPct: 60},
	}
	s := TemperatureSeries(merged)
	assert.Equal(t, "2024-01-02: 31°C, 4.00 kWh\n2024-01-03: 29.5°C, 6.50 kWh", s)

	p := WeatherInsight(s)
	assert.True(t, strings.HasPrefix(p, "You are my personal energy assistant.\nHere is my recent daily temperature and energy usage:\n2024-01-02"))
	assert.Contains(t, p, "give me 2–3 insights")
}

func TestForecastPrompt(t *testing.T) {
	assert.Equal(t, "No forecast data available.", WeatherSummary(nil))

	ws := WeatherSummary([]models.ForecastDay{
		{Date: "2024-02-01", AvgTempC: 31, Condition: "Sunny"},
		{Date: "2024-02-02", AvgTempC: 29.4, Condition: "Cloudy"},
	})
	assert.Equal(t, "2024-02-01: 31°C, Sunny\n2024-02-02: 29.4°C, Cloudy", ws)

	p := Forecast(DailySeries(series), ws)
	assert.Contains(t, p, "over the last 30 days:\n2024-01-01: 8.00 kWh, 2024-01-02: 4.13 kWh\n\n")
	assert.Contains(t, p, "next 15 days:\n2024-02-01: 31°C, Sunny\n")
	assert.Contains(t, p, "Leave the temperature out of the line.")
	assert.NotContains(t, p, "forecasted temperature")
	assert.True(t, strings.HasSuffix(p, ForecastFormat))
}

func TestAsk(t *testing.T) {
	bills := BillSummary([]models.BillingRecord{
		{BillingPeriod: "2023-12", BillAmount: amount(125.5)},
		{BillingPeriod: "2024-01"},
		{BillingPeriod: "2024-02", BillAmount: amount(130)},
	})
	assert.Equal(t, "2023-12: £125.5\n2024-02: £130", bills)

	payments := PaymentSummary([]models.Payment{{TransactionDate: "2023-12-20", AmountPaid: "100.00", Status: "Failed"}})
	assert.Equal(t, "2023-12-20: £100.00 - Failed", payments)

	temps := TemperatureReadings([]models.WeatherObservation{{Date: day(2), TemperatureC: 30}})
	assert.Equal(t, "2024-01-02: 30°C", temps)

	p := Ask([]string{Section(SectionBilling, bills), Section(SectionPayments, payments)}, "Why was my bill high?")
	assert.Equal(t,
		"You are an AI assistant helping a utility customer based on their personal energy data.\n\n"+
			"My recent billing history:\n2023-12: £125.5\n2024-02: £130\n\n"+
			"My payment activity:\n2023-12-20: £100.00 - Failed\n\n"+
			"The customer asks: Why was my bill high?\n\nGive a clear and helpful answer.",
		p)
}

func TestOffers(t *testing.T) {
	options := TariffOptions([]models.TariffPlan{
		{Name: "Saver", Type: "Fixed", RatePerUnit: "0.22", FixedCharge: "10"},
		{Name: "Flex", Type: "Variable", RatePerUnit: "0.19", FixedCharge: "12"},
	})
	assert.Equal(t, "Saver - Fixed - £0.22/unit, Fixed £10\nFlex - Variable - £0.19/unit, Fixed £12", options)

	p := Offers(118.5, false, options)
	assert.True(t, strings.HasPrefix(p, "My recent average monthly bill is £118.50.\nMy payments are on time.\n"))
	assert.Contains(t, Offers(118.5, true, options), "\nI have missed recent payments.\n")
}
