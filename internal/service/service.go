package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Dan9191/deferred-payment/internal/bank"
	"github.com/Dan9191/deferred-payment/internal/config"
	"github.com/Dan9191/deferred-payment/internal/models"
	"github.com/Dan9191/deferred-payment/internal/product"
	"github.com/Dan9191/deferred-payment/internal/repository"
	"github.com/Dan9191/deferred-payment/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// MaxItemQuantity caps a single cart line; larger quantities are ErrInvalidQuantity
const MaxItemQuantity = 100

// Notifier delivers a stored plan to the customer
type Notifier interface {
	SendPaymentPlanConfirmation(to, name string, plan *models.StoredPlan) error
}

type nopNotifier struct{}

func (nopNotifier) SendPaymentPlanConfirmation(string, string, *models.StoredPlan) error {
	return nil
}

// Service handles checkout business logic
type Service struct {
	store    repository.Store
	calc     *Calculator
	notifier Notifier
	log      *logrus.Logger
	config   *config.Config
}

// NewService initializes a new service. A nil notifier disables confirmations.
func NewService(store repository.Store, calc *Calculator, notifier Notifier, log *logrus.Logger, cfg *config.Config) *Service {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Service{store: store, calc: calc, notifier: notifier, log: log, config: cfg}
}

// ListBanks returns the catalog banks with their BINs
func (s *Service) ListBanks() []models.BankOffer {
	banks := bank.All()
	offers := make([]models.BankOffer, 0, len(banks))
	for _, b := range banks {
		offers = append(offers, models.BankOffer{Bank: b, BINs: bank.BINs(b.ID)})
	}
	return offers
}

// ListProducts returns the storefront catalog
func (s *Service) ListProducts() []models.Product {
	return product.All()
}

// DetectCard describes a card number without computing a plan
func (s *Service) DetectCard(cardNumber string) models.CardInfo {
	info := models.CardInfo{
		Valid:     utils.IsValidCardNumber(cardNumber),
		Masked:    utils.MaskCardNumber(cardNumber),
		Formatted: utils.FormatCardNumber(cardNumber),
	}
	if b, ok := bank.DetectBank(cardNumber); ok {
		info.Supported = true
		info.Bank = &b
	}
	return info
}

// QuotePlan computes a plan for an arbitrary amount without storing it
func (s *Service) QuotePlan(cardNumber string, amount float64) (*models.PaymentPlanResult, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, ErrInvalidAmount
	}

	plan, err := s.calc.ProcessCardPayment(cardNumber, amount)
	if err != nil {
		s.log.Warnf("Card %s rejected: %v", utils.MaskCardNumber(cardNumber), err)
		return nil, err
	}

	s.log.Infof("Plan quoted for card %s: %s, %d months", utils.MaskCardNumber(cardNumber), plan.BankName, plan.Months)
	return plan, nil
}

// CreateOrder prices a cart against the catalog and stores it
func (s *Service) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	order := &models.Order{
		ID:            uuid.NewString(),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Items:         make([]models.OrderItem, 0, len(req.Items)),
		CreatedAt:     s.calc.Now(),
	}

	total := decimal.Zero
	for _, item := range req.Items {
		p, ok := product.ByID(item.ProductID)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownProduct, item.ProductID)
		}
		if item.Quantity <= 0 || item.Quantity > MaxItemQuantity {
			return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, item.Quantity)
		}

		subtotal := decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)
		order.Items = append(order.Items, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  item.Quantity,
			UnitPrice: p.Price,
			Subtotal:  subtotal.InexactFloat64(),
		})
	}
	order.Total = total.InexactFloat64()

	if err := s.store.SaveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.log.Infof("Order created: %s, total %s", order.ID, total.StringFixed(2))
	return order, nil
}

// GetOrder retrieves a stored order. Ids that are not UUIDs are never stored.
func (s *Service) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrOrderNotFound
	}
	order, err := s.store.FindOrder(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CreatePaymentPlan computes the plan for an order's total and keeps it until PlanTTL elapses
func (s *Service) CreatePaymentPlan(ctx context.Context, orderID, cardNumber string) (*models.StoredPlan, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	plan, err := s.calc.ProcessCardPayment(cardNumber, order.Total)
	if err != nil {
		s.log.Warnf("Card %s rejected for order %s: %v", utils.MaskCardNumber(cardNumber), orderID, err)
		return nil, err
	}

	now := s.calc.Now()
	stored := &models.StoredPlan{
		ID:              uuid.NewString(),
		OrderID:         order.ID,
		Plan:            *plan,
		CardFingerprint: utils.CardFingerprint(cardNumber, s.config.CardHMACSecret),
		MaskedCard:      utils.MaskCardNumber(cardNumber),
		CreatedAt:       now,
		ExpiresAt:       now.Add(s.config.PlanTTL),
	}
	if err := s.store.SavePlan(ctx, stored); err != nil {
		return nil, err
	}

	s.log.Infof("Payment plan %s created for order %s: %s, %d months", stored.ID, order.ID, plan.BankName, plan.Months)

	if order.CustomerEmail != "" {
		if err := s.notifier.SendPaymentPlanConfirmation(order.CustomerEmail, order.CustomerName, stored); err != nil {
			s.log.Errorf("Failed to send plan confirmation for order %s: %v", order.ID, err)
		}
	}

	return stored, nil
}

// GetPaymentPlan retrieves a stored plan that has not expired
func (s *Service) GetPaymentPlan(ctx context.Context, id string) (*models.StoredPlan, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrPlanNotFound
	}
	plan, err := s.store.FindPlan(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	if plan.Expired(s.calc.Now()) {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// PurgeExpiredPlans deletes plans past their expiry
func (s *Service) PurgeExpiredPlans(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpiredPlans(ctx, s.calc.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Infof("Purged %d expired payment plans", n)
	}
	return n, nil
}
