package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pos-bolt/api/internal/payment"
)

// TokenIssuer defines the payment token method needed by the handler.
// Satisfied by *payment.Generator.
type TokenIssuer interface {
	Generate(ctx context.Context, orderID uuid.UUID) (payment.Token, error)
}

// PaymentHandler serves the e-wallet QR token endpoint.
type PaymentHandler struct {
	tokens TokenIssuer
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(tokens TokenIssuer) *PaymentHandler {
	return &PaymentHandler{tokens: tokens}
}

// RegisterRoutes registers payment endpoints on the given Chi router.
// Expected to be mounted at /api/payments
func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/qr/{orderId}", h.QR)
}

type qrResponse struct {
	Payload string `json:"payload"`
	DataURL string `json:"data_url"`
}

// QR handles GET /api/payments/qr/{orderId}. The payload binds the order id
// and its total; scanning it is the operator-facing half of the manual
// confirmation flow.
func (h *PaymentHandler) QR(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	token, err := h.tokens.Generate(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, payment.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: generate payment token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, qrResponse{
		Payload: token.Payload,
		DataURL: token.DataURL,
	})
}
