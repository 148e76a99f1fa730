// Package customer narrows a loaded dataset down to the single customer a
// session is looking at and derives the daily usage series from it.
package customer

import (
	"errors"
	"sort"

	"github.com/jgoulah/gridassist/internal/loader"
	"github.com/jgoulah/gridassist/internal/table"
	"github.com/jgoulah/gridassist/pkg/models"
)

// RecentDays is how many days of the resampled series count as "recent"
const RecentDays = 7

// ErrNoCustomer is returned when the energy table yields no identifier
var ErrNoCustomer = errors.New("no customer identifier found in energy data")

// View is the per-request context handed to every feature. It is built from
// a freshly loaded dataset and never shared between interactions.
type View struct {
	CustomerID string

	// Readings are the customer's energy readings sorted by timestamp
	Readings []models.EnergyReading
	// Daily is Readings resampled to one summed point per calendar day
	Daily []models.TimeSeriesPoint

	Billing  *table.Table
	Payments *table.Table
	Weather  *table.Table
	Tariffs  *table.Table

	BillAmountResolved bool
}

// Build selects the session customer and restricts every table to it.
// Tables without a Customer_ID column are area-wide and kept whole.
func Build(ds *loader.Dataset) (*View, error) {
	id := SelectCustomer(ds.Energy)
	if id == "" {
		return nil, ErrNoCustomer
	}

	energy := restrict(ds.Energy, id)
	readings := loader.EnergyReadings(energy)
	SortReadings(readings)

	return &View{
		CustomerID:         id,
		Readings:           readings,
		Daily:              ResampleDaily(readings),
		Billing:            restrict(ds.Billing, id),
		Payments:           restrict(ds.Payments, id),
		Weather:            restrict(ds.Weather, id),
		Tariffs:            restrict(ds.Tariffs, id),
		BillAmountResolved: ds.BillAmountResolved,
	}, nil
}

// SelectCustomer returns the first non-empty identifier in the energy table
func SelectCustomer(energy *table.Table) string {
	for _, id := range energy.Column(loader.ColCustomerID) {
		if id != "" {
			return id
		}
	}
	return ""
}

func restrict(t *table.Table, id string) *table.Table {
	if t == nil {
		return table.New()
	}
	if !t.Has(loader.ColCustomerID) {
		return t.Clone()
	}
	return t.Where(loader.ColCustomerID, id)
}

// SortReadings orders readings by timestamp, keeping file order for ties
func SortReadings(readings []models.EnergyReading) {
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
}

// ResampleDaily sums readings per calendar day. The result is strictly
// increasing in date; days with no readings are absent rather than zero.
func ResampleDaily(readings []models.EnergyReading) []models.TimeSeriesPoint {
	sums := make(map[string]*models.TimeSeriesPoint)
	for _, r := range readings {
		day := table.Day(r.Timestamp)
		key := day.Format("2006-01-02")
		if p, ok := sums[key]; ok {
			p.Value += r.ConsumptionKWh
			continue
		}
		sums[key] = &models.TimeSeriesPoint{Date: day, Value: r.ConsumptionKWh}
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	series := make([]models.TimeSeriesPoint, 0, len(keys))
	for _, k := range keys {
		series = append(series, *sums[k])
	}
	return series
}

// Recent returns the last n points present in the series
func Recent(series []models.TimeSeriesPoint, n int) []models.TimeSeriesPoint {
	if n < len(series) {
		return series[len(series)-n:]
	}
	return series
}

// HighLow returns the first highest and first lowest points of a series
func HighLow(series []models.TimeSeriesPoint) (high, low models.TimeSeriesPoint, ok bool) {
	if len(series) == 0 {
		return high, low, false
	}
	high, low = series[0], series[0]
	for _, p := range series[1:] {
		if p.Value > high.Value {
			high = p
		}
		if p.Value < low.Value {
			low = p
		}
	}
	return high, low, true
}

// BillingRecords returns the customer's billing records
func (v *View) BillingRecords() []models.BillingRecord {
	return loader.BillingRecords(v.Billing)
}

// PaymentRecords returns the customer's payments
func (v *View) PaymentRecords() []models.Payment {
	return loader.Payments(v.Payments)
}

// WeatherObservations returns the weather observations in file order
func (v *View) WeatherObservations() []models.WeatherObservation {
	return loader.WeatherObservations(v.Weather)
}

// TariffPlans returns the available tariff plans
func (v *View) TariffPlans() []models.TariffPlan {
	return loader.TariffPlans(v.Tariffs)
}
