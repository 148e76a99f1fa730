package models

import "time"

// BillingRecord is one billing period for a customer.
// BillAmount is nil when the billing file has no recognizable amount column
// or the cell could not be parsed.
type BillingRecord struct {
	CustomerID    string   `json:"customer_id"`
	BillingPeriod string   `json:"billing_period"`
	BillAmount    *float64 `json:"bill_amount,omitempty"`
	TariffSlab    string   `json:"tariff_slab,omitempty"`
}

// Payment is a single payment transaction
type Payment struct {
	CustomerID      string    `json:"customer_id"`
	TransactionDate string    `json:"transaction_date"`
	Date            time.Time `json:"-"`
	AmountPaid      string    `json:"amount_paid"`
	Status          string    `json:"status"`
}

// TariffPlan is an available pricing plan
type TariffPlan struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	RatePerUnit string `json:"rate_per_unit"`
	FixedCharge string `json:"fixed_charge"`
}
