package models

import "time"

// EnergyReading is a single metered consumption reading for a customer
type EnergyReading struct {
	CustomerID     string    `json:"customer_id"`
	Timestamp      time.Time `json:"timestamp"`
	ConsumptionKWh float64   `json:"consumption_kwh"`
}

// TimeSeriesPoint is one value on a date-keyed series (daily usage totals)
type TimeSeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// MergedDailyRecord pairs a day's consumption with that day's averaged weather
type MergedDailyRecord struct {
	Date           time.Time `json:"date"`
	ConsumptionKWh float64   `json:"consumption_kwh"`
	TemperatureC   float64   `json:"temperature_c"`
	HumidityPct    float64   `json:"humidity_pct"`
}
