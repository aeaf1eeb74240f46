package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dan9191/deferred-payment/internal/models"
	"github.com/Dan9191/deferred-payment/internal/service"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes bounds every JSON request body
const maxBodyBytes = 1 << 20

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts every route on r
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/banks", h.ListBanks).Methods(http.MethodGet)
	r.HandleFunc("/products", h.ListProducts).Methods(http.MethodGet)
	r.HandleFunc("/cards/detect", h.DetectCard).Methods(http.MethodPost)
	r.HandleFunc("/orders", h.CreateOrder).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}", h.GetOrder).Methods(http.MethodGet)
	r.HandleFunc("/payments/quote", h.QuotePlan).Methods(http.MethodPost)
	r.HandleFunc("/payments", h.CreatePaymentPlan).Methods(http.MethodPost)
	r.HandleFunc("/payments/{id}", h.GetPaymentPlan).Methods(http.MethodGet)
}

type cardRequest struct {
	CardNumber string `json:"card_number"`
}

type quoteRequest struct {
	CardNumber string   `json:"card_number"`
	Amount     *float64 `json:"amount"`
}

type paymentRequest struct {
	OrderID    string `json:"order_id"`
	CardNumber string `json:"card_number"`
}

// Health reports liveness
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListBanks returns the banks offering deferred payments
func (h *Handler) ListBanks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListBanks())
}

// ListProducts returns the product catalog
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.ListProducts())
}

// DetectCard handles card validation and bank detection
func (h *Handler) DetectCard(w http.ResponseWriter, r *http.Request) {
	var req cardRequest
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, h.svc.DetectCard(req.CardNumber))
}

// QuotePlan computes a plan without storing it
func (h *Handler) QuotePlan(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Amount == nil {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}

	plan, err := h.svc.QuotePlan(req.CardNumber, *req.Amount)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPlanResponse(plan))
}

// CreateOrder handles checkout of a cart
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// GetOrder returns an order by id
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// CreatePaymentPlan finances an order with the given card
func (h *Handler) CreatePaymentPlan(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "order_id is required")
		return
	}

	plan, err := h.svc.CreatePaymentPlan(r.Context(), req.OrderID, req.CardNumber)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newStoredPlanResponse(plan))
}

// GetPaymentPlan returns a stored plan that has not expired
func (h *Handler) GetPaymentPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.svc.GetPaymentPlan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStoredPlanResponse(plan))
}

// decodeBody reads a size-limited JSON body into dst and writes the error response on failure
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
	return false
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCardNumber),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrUnknownProduct),
		errors.Is(err, service.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnsupportedIssuer):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrPlanNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.log.Errorf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
