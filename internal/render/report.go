// Package render turns a customer's results into shareable reports: a
// Markdown document rendered to HTML, a PDF printed by headless Chrome, and
// an Excel workbook of the underlying series.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jgoulah/gridassist/internal/table"
	"github.com/jgoulah/gridassist/pkg/models"
)

const dateLayout = "2006-01-02"

// Section is a free-text panel such as tips or a model insight
type Section struct {
	Title string
	Body  string
}

// Report collects everything shown for one customer
type Report struct {
	CustomerID  string
	GeneratedAt time.Time

	Daily    []models.TimeSeriesPoint
	Merged   []models.MergedDailyRecord
	Forecast []models.ForecastRow
	Billing  *table.Table
	Payments *table.Table

	Sections []Section
	// Notices are unavailable-feature messages shown as warnings
	Notices []string
}

// CleanResponse strips an outer code fence a model sometimes wraps its
// Markdown answer in.
func CleanResponse(s string) string {
	cleaned := strings.TrimSpace(s)
	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") && len(cleaned) >= 6 {
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	return cleaned
}

// Markdown renders the report as a Markdown document
func Markdown(r *Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Energy report for %s\n\n", r.CustomerID)
	fmt.Fprintf(&b, "_Generated %s_\n\n", r.GeneratedAt.Format("2006-01-02 15:04 MST"))

	for _, n := range r.Notices {
		fmt.Fprintf(&b, "> ⚠ %s\n\n", n)
	}

	if len(r.Daily) > 0 {
		var total float64
		for _, p := range r.Daily {
			total += p.Value
		}
		b.WriteString("## Daily usage\n\n")
		fmt.Fprintf(&b, "Total consumption over %d days: **%s kWh**\n\n",
			len(r.Daily), humanize.CommafWithDigits(total, 2))
		b.WriteString("| Date | kWh |\n|---|---:|\n")
		for _, p := range r.Daily {
			fmt.Fprintf(&b, "| %s | %.2f |\n", p.Date.Format(dateLayout), p.Value)
		}
		b.WriteString("\n")
	}

	if len(r.Merged) > 0 {
		b.WriteString("## Usage vs temperature\n\n")
		b.WriteString("| Date | kWh | Temperature (°C) | Humidity (%) |\n|---|---:|---:|---:|\n")
		for _, m := range r.Merged {
			fmt.Fprintf(&b, "| %s | %.2f | %.1f | %.1f |\n",
				m.Date.Format(dateLayout), m.ConsumptionKWh, m.TemperatureC, m.HumidityPct)
		}
		b.WriteString("\n")
	}

	if len(r.Forecast) > 0 {
		var total float64
		b.WriteString("## Usage forecast\n\n")
		b.WriteString("| Date | Weather | Predicted kWh |\n|---|---|---:|\n")
		for _, f := range r.Forecast {
			total += f.PredictedKWh
			fmt.Fprintf(&b, "| %s | %s | %.2f |\n", f.Date.Format(dateLayout), escapeCell(f.Condition), f.PredictedKWh)
		}
		fmt.Fprintf(&b, "\nForecast total: **%s kWh**\n\n", humanize.CommafWithDigits(total, 2))
	}

	for _, s := range r.Sections {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", s.Title, CleanResponse(s.Body))
	}

	writeTable(&b, "Billing history", r.Billing)
	writeTable(&b, "Payment activity", r.Payments)

	return b.String()
}

func writeTable(b *strings.Builder, title string, t *table.Table) {
	if t == nil || t.Len() == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)

	header := make([]string, len(t.Columns))
	sep := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = escapeCell(c)
		sep[i] = "---"
	}
	fmt.Fprintf(b, "| %s |\n|%s|\n", strings.Join(header, " | "), strings.Join(sep, "|"))

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = escapeCell(c)
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
