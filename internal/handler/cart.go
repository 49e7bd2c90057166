package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pos-bolt/api/internal/cart"
	"github.com/pos-bolt/api/internal/checkout"
	"github.com/pos-bolt/api/internal/database"
	"github.com/pos-bolt/api/internal/middleware"
	"github.com/pos-bolt/api/internal/ws"
	"github.com/shopspring/decimal"
)

// ProductGetter defines the catalog read needed when adding to a cart.
// Satisfied by *database.Queries.
type ProductGetter interface {
	GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error)
}

// Checkouter drives the cart-to-order conversion.
// Satisfied by *checkout.Orchestrator.
type Checkouter interface {
	Checkout(ctx context.Context, c *cart.Cart, opts checkout.Options) (*checkout.Result, error)
}

// CartHandler serves the per-user session cart. Carts are in-memory and die
// with the process; only checkout persists anything.
type CartHandler struct {
	carts    *cart.Store
	products ProductGetter
	checkout Checkouter
	hub      Broadcaster
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *cart.Store, products ProductGetter, co Checkouter, hub Broadcaster) *CartHandler {
	return &CartHandler{carts: carts, products: products, checkout: co, hub: hub}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
// Expected to be mounted at /api/cart (behind authentication).
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.View)
	r.Delete("/", h.Clear)
	r.Post("/items", h.AddItem)
	r.Patch("/items/{id}", h.SetQuantity)
	r.Delete("/items/{id}", h.RemoveItem)
	r.Post("/checkout", h.Checkout)
}

// --- Request / Response types ---

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

type checkoutRequest struct {
	Discount      string `json:"discount"`
	TableID       string `json:"table_id"`
	PaymentMethod string `json:"payment_method"`
}

type cartLineResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	UnitPrice string    `json:"unit_price"`
	Quantity  int32     `json:"quantity"`
	Subtotal  string    `json:"subtotal"`
}

type cartResponse struct {
	Lines []cartLineResponse `json:"lines"`
	Total string             `json:"total"`
}

type checkoutResponse struct {
	Order orderResponse `json:"order"`
	QR    *qrResponse   `json:"qr,omitempty"`
}

func toCartResponse(c *cart.Cart) cartResponse {
	lines := c.Lines()
	resp := cartResponse{
		Lines: make([]cartLineResponse, len(lines)),
		Total: c.Total().StringFixed(2),
	}
	for i, l := range lines {
		resp.Lines[i] = cartLineResponse{
			ID:        l.ID,
			ProductID: l.ProductID,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal.StringFixed(2),
		}
	}
	return resp
}

// --- Handlers ---

// userCart resolves the authenticated user's cart, or writes a 401.
func (h *CartHandler) userCart(w http.ResponseWriter, r *http.Request) (*cart.Cart, bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return nil, false
	}
	return h.carts.Get(claims.UserID), true
}

// View handles GET /api/cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	c, ok := h.userCart(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	c, ok := h.userCart(w, r)
	if !ok {
		return
	}
	c.Clear()
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// AddItem handles POST /api/cart/items. The unit price is captured from the
// catalog at add time; stock is not checked (advisory display data only).
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.userCart(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be > 0"})
		return
	}

	product, err := h.products.GetProduct(r.Context(), productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		log.Printf("ERROR: get product for cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	price, err := decimal.NewFromString(numericToString(product.Price))
	if err != nil {
		log.Printf("ERROR: parse product price: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if _, err := c.AddLine(cart.Product{ID: product.ID, Price: price}, quantity); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// SetQuantity handles PATCH /api/cart/items/{id}. Quantity 0 removes the line.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	c, ok := h.userCart(w, r)
	if !ok {
		return
	}

	lineID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid line ID"})
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := c.SetLineQuantity(lineID, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "line not found"})
			return
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// RemoveItem handles DELETE /api/cart/items/{id}. An absent line is a no-op.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.userCart(w, r)
	if !ok {
		return
	}

	lineID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid line ID"})
		return
	}

	c.RemoveLine(lineID)
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// Checkout handles POST /api/cart/checkout. On failure the cart stays intact
// so the operator can retry; an Idempotency-Key header makes that retry safe.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	c, ok := h.userCart(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	discount := decimal.Zero
	if req.Discount != "" {
		var err error
		discount, err = decimal.NewFromString(req.Discount)
		if err != nil || discount.IsNegative() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "discount must be >= 0"})
			return
		}
	}

	result, err := h.checkout.Checkout(r.Context(), c, checkout.Options{
		Discount:       discount,
		TableID:        req.TableID,
		PaymentMethod:  req.PaymentMethod,
		IdempotencyKey: r.Header.Get("Idempotency-Key"),
	})
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cart is empty"})
			return
		}
		if isValidationError(err) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		if result != nil {
			// The order was persisted but the QR token could not be built;
			// report the order and let the client re-request the token.
			log.Printf("ERROR: checkout token: %v", err)
			h.writeCheckoutResult(w, result)
			return
		}
		log.Printf("ERROR: checkout: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.writeCheckoutResult(w, result)
}

// writeCheckoutResult reports a durably created order: broadcast once on
// first creation, 200 instead of 201 on an idempotent replay.
func (h *CartHandler) writeCheckoutResult(w http.ResponseWriter, result *checkout.Result) {
	resp := checkoutResponse{Order: toOrderResponse(result.Order)}
	if result.Token != nil {
		resp.QR = &qrResponse{
			Payload: result.Token.Payload,
			DataURL: result.Token.DataURL,
		}
	}

	status := http.StatusCreated
	if result.Order.Replayed {
		status = http.StatusOK
	} else {
		h.hub.Broadcast(ws.EventOrderCreated, resp.Order)
	}
	writeJSON(w, status, resp)
}
