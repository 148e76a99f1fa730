package render

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridassist/internal/table"
	"github.com/jgoulah/gridassist/pkg/models"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func sampleReport() *Report {
	billing := table.New("Billing_Period", "Bill_Amount", "Tariff_Rate_Slab")
	billing.Rows = [][]string{{"2024-01", "140", "£6/unit"}, {"2024-02", "1200", "A|B"}}

	return &Report{
		CustomerID:  "C001",
		GeneratedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		Daily: []models.TimeSeriesPoint{
			{Date: day("2024-01-01"), Value: 1000},
			{Date: day("2024-01-02"), Value: 234.5},
		},
		Merged: []models.MergedDailyRecord{
			{Date: day("2024-01-02"), ConsumptionKWh: 234.5, TemperatureC: 31, HumidityPct: 70},
		},
		Forecast: []models.ForecastRow{
			{Date: day("2024-02-01"), Condition: "Sunny", PredictedKWh: 12.5},
			{Date: day("2024-02-02"), Condition: "Rainy", PredictedKWh: 9},
		},
		Billing:  billing,
		Sections: []Section{{Title: "Tips", Body: "```markdown\n- Run the dishwasher at night\n```"}},
		Notices:  []string{"'Bill_Amount' column is missing"},
	}
}

func TestCleanResponse(t *testing.T) {
	assert.Equal(t, "- a\n- b", CleanResponse("```markdown\n- a\n- b\n```"))
	assert.Equal(t, "plain", CleanResponse("```\nplain\n```"))
	assert.Equal(t, "no fence", CleanResponse("  no fence \n"))
	assert.Equal(t, "```", CleanResponse("```"))
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	assert.True(t, strings.HasPrefix(md, "# Energy report for C001\n"))
	assert.Contains(t, md, "_Generated 2024-03-01 09:30 UTC_")
	assert.Contains(t, md, "> ⚠ 'Bill_Amount' column is missing")
	assert.Contains(t, md, "Total consumption over 2 days: **1,234.5 kWh**")
	assert.Contains(t, md, "| 2024-01-01 | 1000.00 |")
	assert.Contains(t, md, "| 2024-01-02 | 234.50 | 31.0 | 70.0 |")
	assert.Contains(t, md, "| 2024-02-01 | Sunny | 12.50 |")
	assert.Contains(t, md, "Forecast total: **21.5 kWh**")
	assert.Contains(t, md, "## Tips\n\n- Run the dishwasher at night\n")
	assert.Contains(t, md, "| Billing_Period | Bill_Amount | Tariff_Rate_Slab |")
	assert.Contains(t, md, `| 2024-02 | 1200 | A\|B |`)
	assert.NotContains(t, md, "Payment activity")
}

func TestHTML(t *testing.T) {
	page, err := HTML(sampleReport())
	require.NoError(t, err)

	doc := string(page)
	assert.Contains(t, doc, "<title>Energy report for C001</title>")
	assert.Contains(t, doc, "<h1>Energy report for C001</h1>")
	assert.Contains(t, doc, "<table>")
	assert.Contains(t, doc, "<td>Sunny</td>")
	assert.Contains(t, doc, "<li>Run the dishwasher at night</li>")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(sampleReport(), path))

	// ReadXLSX reads the first sheet
	daily, err := table.ReadXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Consumption_KWh"}, daily.Columns)
	require.Equal(t, 2, daily.Len())
	assert.Equal(t, "2024-01-01", daily.Rows[0][0])
	assert.Equal(t, "234.5", daily.Rows[1][1])
}
