// Package forecast extracts predicted consumption rows from model output.
//
// A row is an ISO date, a dash, a condition phrase made of word characters
// and spaces, an optional comma, then a decimal number with a kWh suffix:
//
//	2024-02-01 - Sunny, 12.50 kWh
//
// Anything that does not match is ignored. Finding no rows is not an error.
package forecast

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/gridassist/pkg/models"
)

// Grammar pieces, composed in order into RowPattern. The condition is lazy so
// a number written straight after it without a comma stays in the amount.
const (
	DatePattern      = `(?P<date>\d{4}-\d{2}-\d{2})`
	SeparatorPattern = `\s*-\s*`
	ConditionPattern = `(?P<condition>[\w\s]+?)`
	AmountPattern    = `,?\s*(?P<kwh>\d+\.\d+)`
	UnitPattern      = `\s*kWh`
)

// RowPattern matches one forecast row
var RowPattern = regexp.MustCompile(DatePattern + SeparatorPattern + ConditionPattern + AmountPattern + UnitPattern)

var (
	dateGroup      = RowPattern.SubexpIndex("date")
	conditionGroup = RowPattern.SubexpIndex("condition")
	kwhGroup       = RowPattern.SubexpIndex("kwh")
)

// Parse returns every row in text matching RowPattern, in order of appearance
func Parse(text string) []models.ForecastRow {
	var rows []models.ForecastRow
	for _, m := range RowPattern.FindAllStringSubmatch(text, -1) {
		date, err := time.Parse("2006-01-02", m[dateGroup])
		if err != nil {
			continue // e.g. 2024-13-45
		}
		kwh, err := strconv.ParseFloat(m[kwhGroup], 64)
		if err != nil {
			continue
		}
		rows = append(rows, models.ForecastRow{
			Date:         date,
			Condition:    strings.TrimSpace(m[conditionGroup]),
			PredictedKWh: kwh,
		})
	}
	return rows
}

// Total sums the predicted consumption of the rows
func Total(rows []models.ForecastRow) float64 {
	var total float64
	for _, r := range rows {
		total += r.PredictedKWh
	}
	return total
}
