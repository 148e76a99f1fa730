package weather

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jgoulah/gridassist/internal/table"
	"github.com/jgoulah/gridassist/pkg/models"
)

// DailyAggregate collapses observations to one mean per calendar day.
// NaN humidity cells are left out of the humidity mean; a day with no valid
// humidity reports NaN.
func DailyAggregate(obs []models.WeatherObservation) []models.DailyWeather {
	type bucket struct {
		date     models.DailyWeather
		temps    []float64
		humidity []float64
	}
	buckets := make(map[string]*bucket)
	for _, o := range obs {
		d := table.Day(o.Date)
		key := d.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{date: models.DailyWeather{Date: d}}
			buckets[key] = b
		}
		b.temps = append(b.temps, o.TemperatureC)
		if !math.IsNaN(o.HumidityPct) {
			b.humidity = append(b.humidity, o.HumidityPct)
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	days := make([]models.DailyWeather, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		d := b.date
		d.Observations = len(b.temps)
		d.TemperatureC = Mean(b.temps)
		d.HumidityPct = Mean(b.humidity)
		days = append(days, d)
	}
	return days
}

// Join pairs daily energy totals with daily weather on the calendar date.
// Dates missing from either side are dropped.
func Join(energy []models.TimeSeriesPoint, weather []models.DailyWeather) []models.MergedDailyRecord {
	byDate := make(map[string]models.DailyWeather, len(weather))
	for _, w := range weather {
		byDate[w.Date.Format("2006-01-02")] = w
	}

	seen := make(map[string]bool, len(energy))
	var merged []models.MergedDailyRecord
	for _, e := range energy {
		key := e.Date.Format("2006-01-02")
		w, ok := byDate[key]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, models.MergedDailyRecord{
			Date:           table.Day(e.Date),
			ConsumptionKWh: e.Value,
			TemperatureC:   w.TemperatureC,
			HumidityPct:    w.HumidityPct,
		})
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Date.Before(merged[j].Date)
	})
	return merged
}

// Mean averages the values, returning NaN for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return stat.Mean(values, nil)
}

// RecentAverages averages the temperature and humidity of the last n observations
func RecentAverages(obs []models.WeatherObservation, n int) (temp, humidity float64, ok bool) {
	if len(obs) == 0 {
		return 0, 0, false
	}
	if n < len(obs) {
		obs = obs[len(obs)-n:]
	}
	var temps, hums []float64
	for _, o := range obs {
		temps = append(temps, o.TemperatureC)
		if !math.IsNaN(o.HumidityPct) {
			hums = append(hums, o.HumidityPct)
		}
	}
	return Mean(temps), Mean(hums), true
}
