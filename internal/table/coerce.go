package table

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timeFormats are the layouts accepted for timestamp and date cells
var timeFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04",
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	// day-first dates when the first field cannot be a month
	"2/1/2006 15:04",
	"2/1/2006",
	"02/01/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// thousandsGrouping matches numbers like 1,234 or -12,345,678.90
var thousandsGrouping = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d*)?$`)

// Time parses a date or timestamp cell. Unparseable cells return false.
func Time(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Float parses a numeric cell, tolerating thousands separators, currency
// symbols and a kWh suffix. NaN, empty cells and decimal commas ("12,5")
// return false.
func Float(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimLeft(s, "£₹$€")
	s = strings.TrimSuffix(strings.ToLower(s), "kwh")

	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		if !thousandsGrouping.MatchString(s) {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Day truncates a time to its calendar date in the same location
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
