// Package prompt turns customer data into the text sent to the language model.
// Every function here is pure: the same inputs always produce the same bytes.
package prompt

import (
	"fmt"
	"strings"
)

// Section titles used by Ask
const (
	SectionUsage    = "My past 7 days of energy usage:"
	SectionBilling  = "My recent billing history:"
	SectionPayments = "My payment activity:"
	SectionWeather  = "Recent temperature data:"
)

// Copilot system prompts
const (
	CustomerSystemPrompt = "You are a helpful assistant for British Gas customers. Provide friendly, concise answers about bills, meters, or energy usage."
	AgentSystemPrompt    = "You are a diagnostic assistant for British Gas agents. Offer step-by-step resolution guidance for customer-reported issues."
)

// TipsInput holds the fragments of the energy-saving tips prompt
type TipsInput struct {
	UsageSeries string
	HighLowNote string
	WeatherNote string
	PaymentNote string
	TariffNote  string
}

// Tips asks for three bill-reduction suggestions
func Tips(in TipsInput) string {
	return "You are my personal energy assistant.\n" +
		"Here is my energy usage for the past 7 days:\n" + in.UsageSeries + "\n\n" +
		in.HighLowNote + "\n" +
		in.WeatherNote + in.PaymentNote + in.TariffNote + "\n\n" +
		"Based on this, give me 3 friendly and practical suggestions to reduce my electricity bill.\n" +
		"Highlight what I can do differently on high-usage days, how to better manage appliance schedules, and how my current tariff impacts savings."
}

// WeatherInsight asks how temperature drives the customer's usage
func WeatherInsight(temperatureSeries string) string {
	return "You are my personal energy assistant.\n" +
		"Here is my recent daily temperature and energy usage:\n" +
		temperatureSeries + "\n\n" +
		"Based on this, give me 2–3 insights about how the weather affects my energy consumption.\n" +
		"Include friendly, actionable tips I can follow during hot or cold days to save energy and stay comfortable."
}

// ForecastFormat is the row layout the model is asked to answer in. It matches
// the grammar the forecast parser accepts.
const ForecastFormat = "Format: Date - Weather, Predicted Consumption kWh (for example: 2024-02-01 - Sunny, 12.50 kWh)"

// Forecast asks for a per-day consumption forecast
func Forecast(dailySeries, weatherSummary string) string {
	return "You are my AI assistant. Here is my energy usage over the last 30 days:\n" +
		dailySeries + "\n\n" +
		"Here is the weather forecast for the next 15 days:\n" + weatherSummary + "\n\n" +
		"Please forecast how much energy I’ll likely use over the next 15 days. " +
		"For each day, give the weather condition followed by the predicted energy consumption, one day per line. " +
		"Leave the temperature out of the line.\n" +
		ForecastFormat
}

// Section titles a block of context for Ask
func Section(title, body string) string {
	return title + "\n" + body
}

// Ask wraps a free-form question with whatever context sections are available
func Ask(sections []string, question string) string {
	return "You are an AI assistant helping a utility customer based on their personal energy data.\n\n" +
		strings.Join(sections, "\n\n") +
		"\n\nThe customer asks: " + question + "\n\n" +
		"Give a clear and helpful answer."
}

// Offers asks for tariff and bill-relief suggestions
func Offers(avgBill float64, missedPayments bool, tariffOptions string) string {
	status := "My payments are on time."
	if missedPayments {
		status = "I have missed recent payments."
	}
	return fmt.Sprintf("My recent average monthly bill is %s%.2f.\n", Currency, avgBill) +
		status + "\n" +
		"Here are the available tariff options:\n" + tariffOptions + "\n\n" +
		"Please suggest 2–3 suitable offers, adjustments, or tariff changes based on my payment history and these plans."
}
