package models

import "time"

// Creditor is a customer with outstanding debt from credit sales.
// The row only exists while TotalDebt > 0.
type Creditor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TotalDebt float64   `json:"totalDebt"`
	Purchases []Sale    `json:"purchases"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
