package models

import "time"

// PaymentPlanResult represents a computed deferred payment plan
type PaymentPlanResult struct {
	BankName       string                 `json:"bank_name"`
	OriginalAmount float64                `json:"original_amount"`
	InterestRate   float64                `json:"interest_rate"`
	TotalAmount    float64                `json:"total_amount"`
	Months         int                    `json:"months"`
	MonthlyPayment float64                `json:"monthly_payment"`
	Schedule       []PaymentScheduleEntry `json:"schedule"`
	CardLastFour   string                 `json:"card_last_four"`
}

// StoredPlan is a payment plan persisted for an order until it expires
type StoredPlan struct {
	ID              string            `json:"id"`
	OrderID         string            `json:"order_id"`
	Plan            PaymentPlanResult `json:"plan"`
	CardFingerprint string            `json:"card_fingerprint"`
	MaskedCard      string            `json:"masked_card"`
	CreatedAt       time.Time         `json:"created_at"`
	ExpiresAt       time.Time         `json:"expires_at"`
}

// Expired reports whether the plan is no longer retrievable at now
func (p *StoredPlan) Expired(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}
