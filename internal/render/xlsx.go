package render

import (
	"fmt"
	"strconv"

	"github.com/jgoulah/gridassist/internal/table"
)

// Workbook sheet names in the order they are written
var sheetNames = []string{"Daily Usage", "Usage vs Weather", "Forecast", "Billing", "Payments"}

// WriteXLSX exports the report's series and tables, one sheet each
func WriteXLSX(r *Report, path string) error {
	daily := table.New("Date", "Consumption_KWh")
	for _, p := range r.Daily {
		daily.Rows = append(daily.Rows, []string{p.Date.Format(dateLayout), formatFloat(p.Value)})
	}

	merged := table.New("Date", "Consumption_KWh", "Temperature_C", "Humidity_%")
	for _, m := range r.Merged {
		merged.Rows = append(merged.Rows, []string{
			m.Date.Format(dateLayout), formatFloat(m.ConsumptionKWh), formatFloat(m.TemperatureC), formatFloat(m.HumidityPct),
		})
	}

	forecast := table.New("Date", "Weather", "Predicted_Consumption_KWh")
	for _, f := range r.Forecast {
		forecast.Rows = append(forecast.Rows, []string{f.Date.Format(dateLayout), f.Condition, formatFloat(f.PredictedKWh)})
	}

	billing, payments := r.Billing, r.Payments
	if billing == nil {
		billing = table.New()
	}
	if payments == nil {
		payments = table.New()
	}

	if err := table.WriteXLSX(path, sheetNames, []*table.Table{daily, merged, forecast, billing, payments}); err != nil {
		return fmt.Errorf("exporting workbook: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
