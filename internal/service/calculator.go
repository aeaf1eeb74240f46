package service

import (
	"time"

	"github.com/Dan9191/deferred-payment/internal/bank"
	"github.com/Dan9191/deferred-payment/internal/models"
	"github.com/Dan9191/deferred-payment/internal/utils"
)

// Calculator builds deferred payment plans from a card number and an amount.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	now func() time.Time
}

// CalculatorOption configures a Calculator
type CalculatorOption func(*Calculator)

// WithClock sets the reference clock used to date the installments
func WithClock(now func() time.Time) CalculatorOption {
	return func(c *Calculator) {
		c.now = now
	}
}

// NewCalculator initializes a new calculator
func NewCalculator(opts ...CalculatorOption) *Calculator {
	c := &Calculator{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the calculator's reference date
func (c *Calculator) Now() time.Time {
	return c.now()
}

// ProcessCardPayment validates the card, detects its bank and returns the
// installment plan for amount. amount must not be negative.
func (c *Calculator) ProcessCardPayment(cardNumber string, amount float64) (*models.PaymentPlanResult, error) {
	if !utils.IsValidCardNumber(cardNumber) {
		return nil, ErrInvalidCardNumber
	}

	b, ok := bank.DetectBank(cardNumber)
	if !ok {
		return nil, ErrUnsupportedIssuer
	}

	plan := BuildPlan(b, amount, c.now())
	plan.CardLastFour = utils.LastFour(cardNumber)
	return plan, nil
}

// BuildPlan computes the plan of bank b for amount with installments
// due monthly after ref. Installments are not rounded, so the last
// accumulated value can differ from the total by floating-point error.
func BuildPlan(b models.Bank, amount float64, ref time.Time) *models.PaymentPlanResult {
	total := b.CalculateTotal(amount)
	monthly := b.CalculateMonthlyPayment(total)

	schedule := make([]models.PaymentScheduleEntry, 0, b.Months)
	for i := 1; i <= b.Months; i++ {
		schedule = append(schedule, models.PaymentScheduleEntry{
			Number:      i,
			DueDate:     AddMonths(ref, i),
			Amount:      monthly,
			Accumulated: monthly * float64(i),
		})
	}

	return &models.PaymentPlanResult{
		BankName:       b.Name,
		OriginalAmount: amount,
		InterestRate:   b.InterestRate,
		TotalAmount:    total,
		Months:         b.Months,
		MonthlyPayment: monthly,
		Schedule:       schedule,
	}
}

// AddMonths moves t forward n calendar months keeping the day of month,
// clamped to the last day of the target month (Jan 31 + 1 = Feb 28).
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()

	target := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	ty, tm, _ := target.Date()
	if last := time.Date(ty, tm+1, 0, 0, 0, 0, 0, time.UTC).Day(); day > last {
		day = last
	}

	return time.Date(ty, tm, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
