package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/deferred-payment/internal/config"
	"github.com/Dan9191/deferred-payment/internal/models"
	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendPaymentPlanConfirmation emails the installment schedule of a stored plan
func (s *Sender) SendPaymentPlanConfirmation(to, name string, plan *models.StoredPlan) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Your deferred payment plan with %s", plan.Plan.BankName)
	e.Text = []byte(PlanConfirmationBody(name, plan))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

// PlanConfirmationBody renders the plain-text body of a plan confirmation
func PlanConfirmationBody(name string, plan *models.StoredPlan) string {
	if name == "" {
		name = "customer"
	}
	p := plan.Plan

	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n", name)
	fmt.Fprintf(&body,
		"Your purchase of %s has been financed with %s using card %s.\n"+
			"Interest rate: %s%%\n"+
			"Total payable: %s in %d monthly payments of %s.\n\n",
		money(p.OriginalAmount), p.BankName, plan.MaskedCard,
		decimal.NewFromFloat(p.InterestRate).Mul(decimal.NewFromInt(100)).String(),
		money(p.TotalAmount), p.Months, money(p.MonthlyPayment),
	)
	body.WriteString("Schedule:\n")
	for _, entry := range p.Schedule {
		fmt.Fprintf(&body, "  %2d. %s  %s  (paid so far %s)\n",
			entry.Number, entry.DueDate.Format("2006-01-02"), money(entry.Amount), money(entry.Accumulated))
	}
	fmt.Fprintf(&body, "\nThis plan is reserved until %s.\n", plan.ExpiresAt.Format("2006-01-02 15:04 MST"))
	body.WriteString("\nBest regards,\nStorefront")
	return body.String()
}

func money(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}
