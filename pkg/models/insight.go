package models

import "time"

// Insight is one stored model response for a customer feature
type Insight struct {
	ID         int64     `json:"id"`
	RunID      string    `json:"run_id"`
	CustomerID string    `json:"customer_id"`
	Feature    string    `json:"feature"`
	Prompt     string    `json:"prompt"`
	Response   string    `json:"response"`
	CreatedAt  time.Time `json:"created_at"`
}
