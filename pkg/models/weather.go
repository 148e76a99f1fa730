package models

import "time"

// WeatherObservation is one recorded weather reading. Humidity is NaN when
// the cell was missing or malformed.
type WeatherObservation struct {
	Date         time.Time `json:"date"`
	TemperatureC float64   `json:"temperature_c"`
	HumidityPct  float64   `json:"humidity_pct"`
}

// DailyWeather is the mean of all observations sharing a calendar day
type DailyWeather struct {
	Date         time.Time `json:"date"`
	TemperatureC float64   `json:"temperature_c"`
	HumidityPct  float64   `json:"humidity_pct"`
	Observations int       `json:"observations"`
}

// ForecastDay is one day of an upcoming weather forecast
type ForecastDay struct {
	Date      string  `json:"date"` // YYYY-MM-DD
	AvgTempC  float64 `json:"avg_temp_c"`
	Condition string  `json:"condition"`
}

// ForecastRow is a predicted consumption line extracted from model output
type ForecastRow struct {
	ID           int       `json:"id,omitempty"`
	CustomerID   string    `json:"customer_id,omitempty"`
	Date         time.Time `json:"date"`
	Condition    string    `json:"condition"`
	PredictedKWh float64   `json:"predicted_kwh"`
	Published    bool      `json:"published,omitempty"`
}
