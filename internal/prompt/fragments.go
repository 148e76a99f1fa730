package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jgoulah/gridassist/internal/loader"
	"github.com/jgoulah/gridassist/pkg/models"
)

// Currency prefixes every amount shown to the model
const Currency = loader.DisplayCurrency

const dateLayout = "2006-01-02"

// UsageSeries lists daily totals one per line
func UsageSeries(series []models.TimeSeriesPoint) string {
	lines := make([]string, 0, len(series))
	for _, p := range series {
		lines = append(lines, fmt.Sprintf("%s: %.2f kWh", p.Date.Format(dateLayout), p.Value))
	}
	return strings.Join(lines, "\n")
}

// DailySeries lists daily totals on a single comma-separated line
func DailySeries(series []models.TimeSeriesPoint) string {
	parts := make([]string, 0, len(series))
	for _, p := range series {
		parts = append(parts, fmt.Sprintf("%s: %.2f kWh", p.Date.Format(dateLayout), p.Value))
	}
	return strings.Join(parts, ", ")
}

// HighLowNote calls out the highest and lowest usage days
func HighLowNote(high, low models.TimeSeriesPoint) string {
	return fmt.Sprintf("My highest usage was on %s with %.2f kWh.\nMy lowest usage was on %s with %.2f kWh.",
		high.Date.Format(dateLayout), high.Value,
		low.Date.Format(dateLayout), low.Value)
}

// WeatherNote summarizes recent area weather
func WeatherNote(avgTemp, avgHumidity float64) string {
	return fmt.Sprintf("\nYour area's average temperature was %.1f°C and humidity %.1f%%.", avgTemp, avgHumidity)
}

// PaymentNote flags missed or failed payments
func PaymentNote(failed bool) string {
	if !failed {
		return ""
	}
	return "\nNote: You have missed or failed recent payments."
}

// TariffNote names the customer's current tariff slab
func TariffNote(slab string) string {
	if slab == "" {
		return ""
	}
	return fmt.Sprintf("\nYou are currently billed under this tariff slab: %s.", slab)
}

// TemperatureSeries pairs each merged day's temperature with its usage
func TemperatureSeries(merged []models.MergedDailyRecord) string {
	lines := make([]string, 0, len(merged))
	for _, m := range merged {
		lines = append(lines, fmt.Sprintf("%s: %s°C, %.2f kWh",
			m.Date.Format(dateLayout), Number(m.TemperatureC), m.ConsumptionKWh))
	}
	return strings.Join(lines, "\n")
}

// WeatherSummary lists forecast days one per line
func WeatherSummary(days []models.ForecastDay) string {
	if len(days) == 0 {
		return "No forecast data available."
	}
	lines := make([]string, 0, len(days))
	for _, d := range days {
		lines = append(lines, fmt.Sprintf("%s: %s°C, %s", d.Date, Number(d.AvgTempC), d.Condition))
	}
	return strings.Join(lines, "\n")
}

// BillSummary lists billing periods with their amounts. Records without an
// amount are left out.
func BillSummary(records []models.BillingRecord) string {
	var lines []string
	for _, r := range records {
		if r.BillAmount == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s%s", r.BillingPeriod, Currency, Number(*r.BillAmount)))
	}
	return strings.Join(lines, "\n")
}

// PaymentSummary lists payments with amount and status
func PaymentSummary(payments []models.Payment) string {
	lines := make([]string, 0, len(payments))
	for _, p := range payments {
		lines = append(lines, fmt.Sprintf("%s: %s%s - %s", p.TransactionDate, Currency, p.AmountPaid, p.Status))
	}
	return strings.Join(lines, "\n")
}

// TemperatureReadings lists raw weather observations
func TemperatureReadings(obs []models.WeatherObservation) string {
	lines := make([]string, 0, len(obs))
	for _, o := range obs {
		lines = append(lines, fmt.Sprintf("%s: %s°C", o.Date.Format(dateLayout), Number(o.TemperatureC)))
	}
	return strings.Join(lines, "\n")
}

// TariffOptions lists the available plans
func TariffOptions(plans []models.TariffPlan) string {
	lines := make([]string, 0, len(plans))
	for _, p := range plans {
		lines = append(lines, fmt.Sprintf("%s - %s - %s%s/unit, Fixed %s%s",
			p.Name, p.Type, Currency, p.RatePerUnit, Currency, p.FixedCharge))
	}
	return strings.Join(lines, "\n")
}

// Number formats a value with the fewest digits that represent it exactly
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
