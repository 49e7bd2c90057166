package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pos-bolt/api/internal/database"
)

// AnalyticsStore defines the database methods needed by analytics handlers.
type AnalyticsStore interface {
	GetDailySales(ctx context.Context) ([]database.GetDailySalesRow, error)
	GetPaymentMethodTotals(ctx context.Context) ([]database.GetPaymentMethodTotalsRow, error)
}

// AnalyticsHandler serves read-only sales aggregates for the dashboard.
// Only completed orders count toward revenue.
type AnalyticsHandler struct {
	store AnalyticsStore
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(store AnalyticsStore) *AnalyticsHandler {
	return &AnalyticsHandler{store: store}
}

// RegisterRoutes registers analytics endpoints on the given Chi router.
// Expected to be mounted at /api/analytics.
func (h *AnalyticsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.Stats)
	r.Get("/daily-sales", h.DailySales)
	r.Get("/payment-methods", h.PaymentMethods)
}

type statsResponse struct {
	DailySales     []dailySalesResponse    `json:"daily_sales"`
	PaymentMethods []paymentMethodResponse `json:"payment_methods"`
}

type dailySalesResponse struct {
	Day          string `json:"day"`
	Revenue      string `json:"revenue"`
	Transactions int32  `json:"transactions"`
}

type paymentMethodResponse struct {
	PaymentMethod string `json:"payment_method"`
	Total         string `json:"total"`
}

// Stats returns the combined dashboard aggregates in one call.
func (h *AnalyticsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	daily, err := h.store.GetDailySales(r.Context())
	if err != nil {
		log.Printf("ERROR: daily sales: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	methods, err := h.store.GetPaymentMethodTotals(r.Context())
	if err != nil {
		log.Printf("ERROR: payment method totals: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := statsResponse{
		DailySales:     make([]dailySalesResponse, len(daily)),
		PaymentMethods: make([]paymentMethodResponse, len(methods)),
	}
	for i, row := range daily {
		resp.DailySales[i] = dailySalesResponse{
			Day:          row.Day,
			Revenue:      numericToString(row.Revenue),
			Transactions: row.Transactions,
		}
	}
	for i, row := range methods {
		resp.PaymentMethods[i] = paymentMethodResponse{
			PaymentMethod: string(row.PaymentMethod),
			Total:         numericToString(row.Total),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// DailySales returns revenue and transaction counts for the last seven days.
func (h *AnalyticsHandler) DailySales(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.GetDailySales(r.Context())
	if err != nil {
		log.Printf("ERROR: daily sales: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]dailySalesResponse, len(rows))
	for i, row := range rows {
		resp[i] = dailySalesResponse{
			Day:          row.Day,
			Revenue:      numericToString(row.Revenue),
			Transactions: row.Transactions,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// PaymentMethods returns completed-order totals grouped by payment method.
func (h *AnalyticsHandler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.GetPaymentMethodTotals(r.Context())
	if err != nil {
		log.Printf("ERROR: payment method totals: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]paymentMethodResponse, len(rows))
	for i, row := range rows {
		resp[i] = paymentMethodResponse{
			PaymentMethod: string(row.PaymentMethod),
			Total:         numericToString(row.Total),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
