package models

import "time"

// PaymentScheduleEntry represents a single installment of a deferred payment plan
type PaymentScheduleEntry struct {
	Number      int       `json:"number"`
	DueDate     time.Time `json:"due_date"`
	Amount      float64   `json:"amount"`
	Accumulated float64   `json:"accumulated"`
}
