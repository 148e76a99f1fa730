package weather

import (
	"math/rand/v2"
	"time"

	"github.com/jgoulah/gridassist/pkg/models"
)

// Synthetic forecast bounds
const (
	FallbackDays     = 15
	FallbackMinTempC = 28
	FallbackMaxTempC = 38
)

// FallbackConditions are the labels a synthetic day can take
var FallbackConditions = []string{
	"Sunny", "Partly cloudy", "Cloudy", "Rain showers", "Hot", "Humid", "Thunderstorms",
}

// Fallback synthesizes FallbackDays days starting at start. Each day's
// temperature and condition are drawn independently.
func Fallback(start time.Time) []models.ForecastDay {
	days := make([]models.ForecastDay, 0, FallbackDays)
	for i := 0; i < FallbackDays; i++ {
		days = append(days, models.ForecastDay{
			Date:      start.AddDate(0, 0, i).Format("2006-01-02"),
			AvgTempC:  float64(FallbackMinTempC + rand.IntN(FallbackMaxTempC-FallbackMinTempC+1)),
			Condition: FallbackConditions[rand.IntN(len(FallbackConditions))],
		})
	}
	return days
}
