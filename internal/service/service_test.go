package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/deferred-payment/internal/config"
	"github.com/Dan9191/deferred-payment/internal/models"
	"github.com/Dan9191/deferred-payment/internal/repository"
	"github.com/Dan9191/deferred-payment/internal/utils"
)

const bbvaCard = "4506780000080018"

type mockNotifier struct {
	calls     int
	lastTo    string
	lastName  string
	lastPlan  *models.StoredPlan
	ForceFail bool
}

func (m *mockNotifier) SendPaymentPlanConfirmation(to, name string, plan *models.StoredPlan) error {
	m.calls++
	m.lastTo, m.lastName, m.lastPlan = to, name, plan
	if m.ForceFail {
		return errors.New("smtp down")
	}
	return nil
}

type failingStore struct {
	*repository.MemoryStore
}

func (failingStore) SavePlan(context.Context, *models.StoredPlan) error {
	return errors.New("save error")
}

// strictIDStore fails lookups the way a UUID-typed column rejects malformed ids
type strictIDStore struct {
	*repository.MemoryStore
	lookups int
}

func (s *strictIDStore) FindOrder(context.Context, string) (*models.Order, error) {
	s.lookups++
	return nil, errors.New(`invalid input syntax for type uuid`)
}

func (s *strictIDStore) FindPlan(context.Context, string) (*models.StoredPlan, error) {
	s.lookups++
	return nil, errors.New(`invalid input syntax for type uuid`)
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newTestService(t *testing.T, store repository.Store, notifier Notifier) (*Service, *clock, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	clk := &clock{now: refDate}
	cfg := &config.Config{PlanTTL: 30 * time.Minute, CardHMACSecret: "secret"}
	svc := NewService(store, NewCalculator(WithClock(clk.Now)), notifier, logger, cfg)
	return svc, clk, hook
}

func TestCreateOrder(t *testing.T) {
	svc, _, _ := newTestService(t, repository.NewMemoryStore(), nil)

	order, err := svc.CreateOrder(context.Background(), models.CreateOrderRequest{
		CustomerName:  " Ana ",
		CustomerEmail: "ana@example.com",
		Items: []models.CreateOrderItem{
			{ProductID: 4, Quantity: 2},
			{ProductID: 6, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "Ana", order.CustomerName)
	assert.Equal(t, refDate, order.CreatedAt)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 10998.0, order.Items[0].Subtotal)
	assert.Equal(t, "Sony PS5", order.Items[1].Name)
	assert.Equal(t, 23997.0, order.Total)

	stored, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order, stored)
}

func TestCreateOrder_Invalid(t *testing.T) {
	svc, _, _ := newTestService(t, repository.NewMemoryStore(), nil)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, models.CreateOrderRequest{})
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = svc.CreateOrder(ctx, models.CreateOrderRequest{Items: []models.CreateOrderItem{{ProductID: 42, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrUnknownProduct)

	_, err = svc.CreateOrder(ctx, models.CreateOrderRequest{Items: []models.CreateOrderItem{{ProductID: 1, Quantity: 0}}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.CreateOrder(ctx, models.CreateOrderRequest{Items: []models.CreateOrderItem{{ProductID: 1, Quantity: MaxItemQuantity + 1}}})
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestGetOrder_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t, repository.NewMemoryStore(), nil)

	_, err := svc.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetByMalformedID(t *testing.T) {
	store := &strictIDStore{MemoryStore: repository.NewMemoryStore()}
	svc, _, _ := newTestService(t, store, nil)
	ctx := context.Background()

	_, err := svc.GetOrder(ctx, "abc")
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.CreatePaymentPlan(ctx, "abc", bbvaCard)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = svc.GetPaymentPlan(ctx, "abc")
	assert.ErrorIs(t, err, ErrPlanNotFound)

	assert.Zero(t, store.lookups)
}

func TestQuotePlan(t *testing.T) {
	svc, _, hook := newTestService(t, repository.NewMemoryStore(), nil)

	plan, err := svc.QuotePlan(bbvaCard, 10000)
	require.NoError(t, err)
	assert.InDelta(t, 1200, plan.MonthlyPayment, 1e-9)

	_, err = svc.QuotePlan("4000000000000002", 100)
	assert.ErrorIs(t, err, ErrUnsupportedIssuer)

	_, err = svc.QuotePlan(bbvaCard, -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	for _, entry := range hook.AllEntries() {
		assert.NotContains(t, entry.Message, bbvaCard)
		assert.NotContains(t, entry.Message, "4000000000000002")
	}
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestCreatePaymentPlan(t *testing.T) {
	notifier := &mockNotifier{}
	svc, clk, _ := newTestService(t, repository.NewMemoryStore(), notifier)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, models.CreateOrderRequest{
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		Items:         []models.CreateOrderItem{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	stored, err := svc.CreatePaymentPlan(ctx, order.ID, "4506 7800 0008 0018")
	require.NoError(t, err)

	assert.Equal(t, order.ID, stored.OrderID)
	assert.Equal(t, "**** **** **** 0018", stored.MaskedCard)
	assert.Equal(t, utils.CardFingerprint(bbvaCard, "secret"), stored.CardFingerprint)
	assert.Equal(t, refDate.Add(30*time.Minute), stored.ExpiresAt)
	assert.InDelta(t, 25999*1.08, stored.Plan.TotalAmount, 1e-6)
	assert.Equal(t, 1, notifier.calls)
	assert.Equal(t, "ana@example.com", notifier.lastTo)
	assert.Equal(t, stored.ID, notifier.lastPlan.ID)

	found, err := svc.GetPaymentPlan(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored, found)

	clk.now = stored.ExpiresAt
	_, err = svc.GetPaymentPlan(ctx, stored.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	n, err := svc.PurgeExpiredPlans(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreatePaymentPlan_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	store := repository.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
	t.Cleanup(func() { store.Close() })

	// refDate is in the past relative to the wall clock.
	svc, clk, _ := newTestService(t, store, nil)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, models.CreateOrderRequest{Items: []models.CreateOrderItem{{ProductID: 1, Quantity: 1}}})
	require.NoError(t, err)

	stored, err := svc.CreatePaymentPlan(ctx, order.ID, bbvaCard)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, mr.TTL("plan:"+stored.ID))

	found, err := svc.GetPaymentPlan(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, found.ID)
	assert.Equal(t, stored.CardFingerprint, found.CardFingerprint)
	assert.Len(t, found.Plan.Schedule, 9)

	clk.now = stored.ExpiresAt
	_, err = svc.GetPaymentPlan(ctx, stored.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)

	mr.FastForward(31 * time.Minute)
	clk.now = refDate
	_, err = svc.GetPaymentPlan(ctx, stored.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestCreatePaymentPlan_Errors(t *testing.T) {
	notifier := &mockNotifier{}
	svc, _, _ := newTestService(t, repository.NewMemoryStore(), notifier)
	ctx := context.Background()

	_, err := svc.CreatePaymentPlan(ctx, "missing", bbvaCard)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	order, err := svc.CreateOrder(ctx, models.CreateOrderRequest{
		CustomerEmail: "ana@example.com",
		Items:         []models.CreateOrderItem{{ProductID: 2, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.CreatePaymentPlan(ctx, order.ID, "1234")
	assert.ErrorIs(t, err, ErrInvalidCardNumber)

	_, err = svc.CreatePaymentPlan(ctx, order.ID, "4000000000000002")
	assert.ErrorIs(t, err, ErrUnsupportedIssuer)

	assert.Zero(t, notifier.calls)
}

func TestCreatePaymentPlan_NoEmailNoNotification(t *testing.T) {
	notifier := &mockNotifier{}
	svc, _, _ := newTestService(t, repository.NewMemoryStore(), notifier)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, models.CreateOrderRequest{Items: []models.CreateOrderItem{{ProductID: 3, Quantity: 1}}})
	require.NoError(t, err)

	_, err = svc.CreatePaymentPlan(ctx, order.ID, bbvaCard)
	require.NoError(t, err)
	assert.Zero(t, notifier.calls)
}

func TestCreatePaymentPlan_NotificationFailureIsLogged(t *testing.T) {
	notifier := &mockNotifier{ForceFail: true}
	svc, _, hook := newTestService(t, repository.NewMemoryStore(), notifier)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, models.CreateOrderRequest{
		CustomerEmail: "ana@example.com",
		Items:         []models.CreateOrderItem{{ProductID: 3, Quantity: 1}},
	})
	require.NoError(t, err)

	stored, err := svc.CreatePaymentPlan(ctx, order.ID, bbvaCard)
	require.NoError(t, err)
	assert.NotNil(t, stored)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.ErrorLevel, last.Level)
	assert.True(t, strings.Contains(last.Message, order.ID))
}

func TestCreatePaymentPlan_StoreFailure(t *testing.T) {
	svc, _, _ := newTestService(t, failingStore{repository.NewMemoryStore()}, nil)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, models.CreateOrderRequest{Items: []models.CreateOrderItem{{ProductID: 3, Quantity: 1}}})
	require.NoError(t, err)

	_, err = svc.CreatePaymentPlan(ctx, order.ID, bbvaCard)
	assert.EqualError(t, err, "save error")
}

func TestDetectCard(t *testing.T) {
	svc, _, _ := newTestService(t, repository.NewMemoryStore(), nil)

	info := svc.DetectCard("4506780000000018")
	assert.False(t, info.Valid)
	assert.True(t, info.Supported)
	require.NotNil(t, info.Bank)
	assert.Equal(t, "bbva", info.Bank.ID)
	assert.Equal(t, "**** **** **** 0018", info.Masked)
	assert.Equal(t, "4506 7800 0000 0018", info.Formatted)

	info = svc.DetectCard("4000000000000002")
	assert.True(t, info.Valid)
	assert.False(t, info.Supported)
	assert.Nil(t, info.Bank)
}

func TestListBanksAndProducts(t *testing.T) {
	svc, _, _ := newTestService(t, repository.NewMemoryStore(), nil)

	offers := svc.ListBanks()
	require.Len(t, offers, 3)
	assert.Equal(t, "Banco BBVA", offers[0].Name)
	assert.Equal(t, []string{"434107", "450678", "491234"}, offers[0].BINs)

	assert.Len(t, svc.ListProducts(), 8)
}
