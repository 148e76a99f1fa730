package loader

import (
	"fmt"
	"strings"

	"github.com/jgoulah/gridassist/internal/table"
)

// Column names expected in the uploaded files
const (
	ColCustomerID      = "Customer_ID"
	ColTimestamp       = "Timestamp"
	ColConsumption     = "Consumption_KWh"
	ColBillingPeriod   = "Billing_Period"
	ColBillAmount      = "Bill_Amount"
	ColTariffSlab      = "Tariff_Rate_Slab"
	ColAmountPaid      = "Amount_Paid"
	ColTransactionDate = "Transaction_Date"
	ColPaymentStatus   = "Payment_Status"
	ColDate            = "Date"
	ColTemperature     = "Temperature_C"
	ColHumidity        = "Humidity_%"
	ColTariffName      = "Tariff_Name"
	ColTariffType      = "Tariff_Type"
	ColRatePerUnit     = "Rate_Per_Unit"
	ColFixedCharge     = "Fixed_Charge"
)

const (
	// SourceCurrency is replaced by DisplayCurrency in tariff slab names
	SourceCurrency  = "₹"
	DisplayCurrency = "£"
)

// BillAmountAliases are tried in order when a billing file has no Bill_Amount column
var BillAmountAliases = []string{"Amount", "Total", "Total_Bill", "Billing_Amount", "Bill"}

// Paths locates the five input files
type Paths struct {
	Energy   string
	Billing  string
	Payments string
	Weather  string
	Tariffs  string
}

// Missing returns the names of the unset paths
func (p Paths) Missing() []string {
	var missing []string
	for name, v := range map[string]string{
		"energy":   p.Energy,
		"billing":  p.Billing,
		"payments": p.Payments,
		"weather":  p.Weather,
		"tariffs":  p.Tariffs,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	return sortedNames(missing)
}

// Dataset holds the five tables for one interaction
type Dataset struct {
	Energy   *table.Table
	Billing  *table.Table
	Payments *table.Table
	Weather  *table.Table
	Tariffs  *table.Table

	// BillAmountResolved is false when no bill amount column could be found.
	// Features needing the amount stay disabled for the rest of the session.
	BillAmountResolved bool
	// BillAmountSource names the column that was renamed to Bill_Amount, if any
	BillAmountSource string
}

// Load reads and normalizes all five files
func Load(paths Paths) (*Dataset, error) {
	if missing := paths.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("missing data files: %s", strings.Join(missing, ", "))
	}

	ds := &Dataset{}
	for _, f := range []struct {
		name string
		path string
		dst  **table.Table
	}{
		{"energy", paths.Energy, &ds.Energy},
		{"billing", paths.Billing, &ds.Billing},
		{"payments", paths.Payments, &ds.Payments},
		{"weather", paths.Weather, &ds.Weather},
		{"tariffs", paths.Tariffs, &ds.Tariffs},
	} {
		t, err := table.ReadFile(f.path)
		if err != nil {
			return nil, fmt.Errorf("loading %s file: %w", f.name, err)
		}
		*f.dst = t
	}

	Normalize(ds)
	return ds, nil
}

// Normalize repairs known schema drift in place
func Normalize(ds *Dataset) {
	if ds.Billing != nil {
		ds.Billing.MapColumn(ColTariffSlab, NormalizeCurrency)
		ds.BillAmountSource, ds.BillAmountResolved = ResolveBillAmount(ds.Billing)
	}

	if ds.Energy != nil && !ds.Energy.Has(ColConsumption) {
		ds.Energy.Rename("Consumption_kWh", ColConsumption)
	}

	for _, t := range []*table.Table{ds.Energy, ds.Billing, ds.Payments, ds.Weather, ds.Tariffs} {
		if t != nil {
			t.MapColumn(ColCustomerID, strings.TrimSpace)
		}
	}
}

// NormalizeCurrency swaps the source currency glyph for the display glyph
func NormalizeCurrency(s string) string {
	return strings.ReplaceAll(s, SourceCurrency, DisplayCurrency)
}

// ResolveBillAmount renames the first alias column to Bill_Amount when needed.
// It returns the original column name and whether a Bill_Amount column now exists.
func ResolveBillAmount(t *table.Table) (string, bool) {
	if t.Has(ColBillAmount) {
		return ColBillAmount, true
	}
	for _, name := range BillAmountAliases {
		if t.Rename(name, ColBillAmount) {
			return name, true
		}
	}
	return "", false
}
