package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Dan9191/deferred-payment/internal/models"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type errorResponse struct {
	Error string `json:"error"`
}

type scheduleEntryResponse struct {
	Number      int             `json:"number"`
	DueDate     string          `json:"due_date"`
	Amount      decimal.Decimal `json:"amount"`
	Accumulated decimal.Decimal `json:"accumulated"`
}

type planResponse struct {
	BankName       string                  `json:"bank_name"`
	OriginalAmount decimal.Decimal         `json:"original_amount"`
	InterestRate   float64                 `json:"interest_rate"`
	TotalAmount    decimal.Decimal         `json:"total_amount"`
	Months         int                     `json:"months"`
	MonthlyPayment decimal.Decimal         `json:"monthly_payment"`
	Schedule       []scheduleEntryResponse `json:"schedule"`
	CardLastFour   string                  `json:"card_last_four"`
}

type storedPlanResponse struct {
	ID         string       `json:"id"`
	OrderID    string       `json:"order_id"`
	MaskedCard string       `json:"masked_card"`
	CreatedAt  time.Time    `json:"created_at"`
	ExpiresAt  time.Time    `json:"expires_at"`
	Plan       planResponse `json:"plan"`
}

// money rounds for display only; the plan itself keeps full precision
func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func newPlanResponse(p *models.PaymentPlanResult) planResponse {
	schedule := make([]scheduleEntryResponse, 0, len(p.Schedule))
	for _, entry := range p.Schedule {
		schedule = append(schedule, scheduleEntryResponse{
			Number:      entry.Number,
			DueDate:     entry.DueDate.Format(dateLayout),
			Amount:      money(entry.Amount),
			Accumulated: money(entry.Accumulated),
		})
	}
	return planResponse{
		BankName:       p.BankName,
		OriginalAmount: money(p.OriginalAmount),
		InterestRate:   p.InterestRate,
		TotalAmount:    money(p.TotalAmount),
		Months:         p.Months,
		MonthlyPayment: money(p.MonthlyPayment),
		Schedule:       schedule,
		CardLastFour:   p.CardLastFour,
	}
}

func newStoredPlanResponse(p *models.StoredPlan) storedPlanResponse {
	return storedPlanResponse{
		ID:         p.ID,
		OrderID:    p.OrderID,
		MaskedCard: p.MaskedCard,
		CreatedAt:  p.CreatedAt,
		ExpiresAt:  p.ExpiresAt,
		Plan:       newPlanResponse(&p.Plan),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
