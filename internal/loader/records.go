package loader

import (
	"math"
	"sort"
	"strings"

	"github.com/jgoulah/gridassist/internal/table"
	"github.com/jgoulah/gridassist/pkg/models"
)

// EnergyReadings converts energy rows, skipping rows with a bad timestamp or consumption
func EnergyReadings(t *table.Table) []models.EnergyReading {
	if t == nil {
		return nil
	}
	var readings []models.EnergyReading
	for _, row := range t.Rows {
		ts, ok := table.Time(t.Value(row, ColTimestamp))
		if !ok {
			continue
		}
		kwh, ok := table.Float(t.Value(row, ColConsumption))
		if !ok {
			continue
		}
		readings = append(readings, models.EnergyReading{
			CustomerID:     t.Value(row, ColCustomerID),
			Timestamp:      ts,
			ConsumptionKWh: kwh,
		})
	}
	return readings
}

// BillingRecords converts billing rows. BillAmount is left nil when absent or malformed.
func BillingRecords(t *table.Table) []models.BillingRecord {
	if t == nil {
		return nil
	}
	records := make([]models.BillingRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := models.BillingRecord{
			CustomerID:    t.Value(row, ColCustomerID),
			BillingPeriod: t.Value(row, ColBillingPeriod),
			TariffSlab:    strings.TrimSpace(t.Value(row, ColTariffSlab)),
		}
		if t.Has(ColBillAmount) {
			if v, ok := table.Float(t.Value(row, ColBillAmount)); ok {
				rec.BillAmount = &v
			}
		}
		records = append(records, rec)
	}
	return records
}

// Payments converts payment rows
func Payments(t *table.Table) []models.Payment {
	if t == nil {
		return nil
	}
	payments := make([]models.Payment, 0, len(t.Rows))
	for _, row := range t.Rows {
		p := models.Payment{
			CustomerID:      t.Value(row, ColCustomerID),
			TransactionDate: t.Value(row, ColTransactionDate),
			AmountPaid:      t.Value(row, ColAmountPaid),
			Status:          t.Value(row, ColPaymentStatus),
		}
		p.Date, _ = table.Time(p.TransactionDate)
		payments = append(payments, p)
	}
	return payments
}

// WeatherObservations converts weather rows, skipping rows without a valid date
// and temperature. Missing humidity becomes NaN.
func WeatherObservations(t *table.Table) []models.WeatherObservation {
	if t == nil {
		return nil
	}
	var obs []models.WeatherObservation
	for _, row := range t.Rows {
		date, ok := table.Time(t.Value(row, ColDate))
		if !ok {
			continue
		}
		temp, ok := table.Float(t.Value(row, ColTemperature))
		if !ok {
			continue
		}
		humidity, ok := table.Float(t.Value(row, ColHumidity))
		if !ok {
			humidity = math.NaN()
		}
		obs = append(obs, models.WeatherObservation{
			Date:         date,
			TemperatureC: temp,
			HumidityPct:  humidity,
		})
	}
	return obs
}

// TariffPlans converts tariff rows
func TariffPlans(t *table.Table) []models.TariffPlan {
	if t == nil {
		return nil
	}
	plans := make([]models.TariffPlan, 0, len(t.Rows))
	for _, row := range t.Rows {
		plans = append(plans, models.TariffPlan{
			Name:        t.Value(row, ColTariffName),
			Type:        t.Value(row, ColTariffType),
			RatePerUnit: t.Value(row, ColRatePerUnit),
			FixedCharge: t.Value(row, ColFixedCharge),
		})
	}
	return plans
}

func sortedNames(names []string) []string {
	sort.Strings(names)
	return names
}
