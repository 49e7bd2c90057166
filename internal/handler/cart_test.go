package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pos-bolt/api/internal/auth"
	"github.com/pos-bolt/api/internal/cart"
	"github.com/pos-bolt/api/internal/checkout"
	"github.com/pos-bolt/api/internal/database"
	"github.com/pos-bolt/api/internal/handler"
	"github.com/pos-bolt/api/internal/middleware"
	"github.com/pos-bolt/api/internal/payment"
	"github.com/pos-bolt/api/internal/service"
	"github.com/shopspring/decimal"
)

type mockProductGetter struct {
	getProductFn func(ctx context.Context, id uuid.UUID) (database.Product, error)
}

func (m *mockProductGetter) GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error) {
	return m.getProductFn(ctx, id)
}

type mockCheckouter struct {
	checkoutFn func(ctx context.Context, c *cart.Cart, opts checkout.Options) (*checkout.Result, error)
}

func (m *mockCheckouter) Checkout(ctx context.Context, c *cart.Cart, opts checkout.Options) (*checkout.Result, error) {
	return m.checkoutFn(ctx, c, opts)
}

func knownProduct(id uuid.UUID, price string) *mockProductGetter {
	return &mockProductGetter{
		getProductFn: func(ctx context.Context, pid uuid.UUID) (database.Product, error) {
			if pid == id {
				return database.Product{ID: id, Name: "Espresso", Price: testNumeric(price), Stock: 10, Status: "active"}, nil
			}
			return database.Product{}, pgx.ErrNoRows
		},
	}
}

func setupCartRouter(carts *cart.Store, products *mockProductGetter, co *mockCheckouter, hub *mockHub) *chi.Mux {
	h := handler.NewCartHandler(carts, products, co, hub)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/cart", h.RegisterRoutes)
	return r
}

// doCartRequest is like doAuthRequest but pins the authenticated user, so a
// sequence of requests operates on the same cart.
func doCartRequest(t *testing.T, router http.Handler, userID uuid.UUID, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	token, err := auth.GenerateToken(testJWTSecret, userID, "cashier")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestCartAdd_HappyPath(t *testing.T) {
	productID := uuid.New()
	r := setupCartRouter(cart.NewStore(), knownProduct(productID, "25000.00"), &mockCheckouter{}, &mockHub{})

	body := map[string]interface{}{"product_id": productID.String(), "quantity": 2}
	rr := doCartRequest(t, r, uuid.New(), "POST", "/cart/items", body, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	if resp["total"] != "50000.00" {
		t.Errorf("total = %v, want 50000.00", resp["total"])
	}
	lines, ok := resp["lines"].([]interface{})
	if !ok || len(lines) != 1 {
		t.Fatalf("lines = %v, want 1 entry", resp["lines"])
	}
	line := lines[0].(map[string]interface{})
	if line["unit_price"] != "25000.00" {
		t.Errorf("unit_price = %v, want 25000.00", line["unit_price"])
	}
}

func TestCartAdd_MergesSameProduct(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()
	r := setupCartRouter(cart.NewStore(), knownProduct(productID, "10000.00"), &mockCheckouter{}, &mockHub{})

	body := map[string]interface{}{"product_id": productID.String(), "quantity": 2}
	doCartRequest(t, r, userID, "POST", "/cart/items", body, nil)
	rr := doCartRequest(t, r, userID, "POST", "/cart/items", body, nil)

	resp := decodeBody(t, rr)
	lines := resp["lines"].([]interface{})
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1 (merged)", len(lines))
	}
	if resp["total"] != "40000.00" {
		t.Errorf("total = %v, want 40000.00", resp["total"])
	}
}

func TestCartAdd_DefaultQuantityIsOne(t *testing.T) {
	productID := uuid.New()
	r := setupCartRouter(cart.NewStore(), knownProduct(productID, "10000.00"), &mockCheckouter{}, &mockHub{})

	body := map[string]interface{}{"product_id": productID.String()}
	rr := doCartRequest(t, r, uuid.New(), "POST", "/cart/items", body, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if decodeBody(t, rr)["total"] != "10000.00" {
		t.Error("default quantity must be 1")
	}
}

func TestCartAdd_UnknownProduct(t *testing.T) {
	r := setupCartRouter(cart.NewStore(), knownProduct(uuid.New(), "10000.00"), &mockCheckouter{}, &mockHub{})

	body := map[string]interface{}{"product_id": uuid.New().String(), "quantity": 1}
	rr := doCartRequest(t, r, uuid.New(), "POST", "/cart/items", body, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestCartAdd_NegativeQuantity(t *testing.T) {
	productID := uuid.New()
	r := setupCartRouter(cart.NewStore(), knownProduct(productID, "10000.00"), &mockCheckouter{}, &mockHub{})

	body := map[string]interface{}{"product_id": productID.String(), "quantity": -2}
	rr := doCartRequest(t, r, uuid.New(), "POST", "/cart/items", body, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestCartSetQuantity_Update(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()
	r := setupCartRouter(cart.NewStore(), knownProduct(productID, "10000.00"), &mockCheckouter{}, &mockHub{})

	rr := doCartRequest(t, r, userID, "POST", "/cart/items", map[string]interface{}{"product_id": productID.String(), "quantity": 2}, nil)
	lines := decodeBody(t, rr)["lines"].([]interface{})
	lineID := lines[0].(map[string]interface{})["id"].(string)

	rr = doCartRequest(t, r, userID, "PATCH", "/cart/items/"+lineID, map[string]interface{}{"quantity": 5}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
	}
	if decodeBody(t, rr)["total"] != "50000.00" {
		t.Error("subtotal must be recomputed from the stored unit price")
	}
}

func TestCartSetQuantity_ZeroRemoves(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()
	r := setupCartRouter(cart.NewStore(), knownProduct(productID, "10000.00"), &mockCheckouter{}, &mockHub{})

	rr := doCartRequest(t, r, userID, "POST", "/cart/items", map[string]interface{}{"product_id": productID.String(), "quantity": 2}, nil)
	lines := decodeBody(t, rr)["lines"].([]interface{})
	lineID := lines[0].(map[string]interface{})["id"].(string)

	rr = doCartRequest(t, r, userID, "PATCH", "/cart/items/"+lineID, map[string]interface{}{"quantity": 0}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	resp := decodeBody(t, rr)
	if lines := resp["lines"].([]interface{}); len(lines) != 0 {
		t.Error("quantity 0 must remove the line")
	}
}

func TestCartSetQuantity_AbsentLine(t *testing.T) {
	r := setupCartRouter(cart.NewStore(), &mockProductGetter{}, &mockCheckouter{}, &mockHub{})

	rr := doCartRequest(t, r, uuid.New(), "PATCH", "/cart/items/"+uuid.New().String(), map[string]interface{}{"quantity": 3}, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestCartRemove_AbsentLineIsNoOp(t *testing.T) {
	r := setupCartRouter(cart.NewStore(), &mockProductGetter{}, &mockCheckouter{}, &mockHub{})

	rr := doCartRequest(t, r, uuid.New(), "DELETE", "/cart/items/"+uuid.New().String(), nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
}

func TestCartView_EmptyCart(t *testing.T) {
	r := setupCartRouter(cart.NewStore(), &mockProductGetter{}, &mockCheckouter{}, &mockHub{})

	rr := doCartRequest(t, r, uuid.New(), "GET", "/cart", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if decodeBody(t, rr)["total"] != "0.00" {
		t.Error("empty cart total must be 0.00")
	}
}

func TestCartClear(t *testing.T) {
	productID := uuid.New()
	userID := uuid.New()
	r := setupCartRouter(cart.NewStore(), knownProduct(productID, "10000.00"), &mockCheckouter{}, &mockHub{})

	doCartRequest(t, r, userID, "POST", "/cart/items", map[string]interface{}{"product_id": productID.String(), "quantity": 2}, nil)
	rr := doCartRequest(t, r, userID, "DELETE", "/cart", nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if decodeBody(t, rr)["total"] != "0.00" {
		t.Error("cart must be empty after clear")
	}
}

// --- Checkout tests ---

func TestCartCheckout_EmptyCart(t *testing.T) {
	co := &mockCheckouter{
		checkoutFn: func(ctx context.Context, c *cart.Cart, opts checkout.Options) (*checkout.Result, error) {
			return nil, checkout.ErrEmptyCart
		},
	}
	r := setupCartRouter(cart.NewStore(), &mockProductGetter{}, co, &mockHub{})

	rr := doCartRequest(t, r, uuid.New(), "POST", "/cart/checkout", map[string]interface{}{}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestCartCheckout_HappyPath(t *testing.T) {
	orderID := uuid.New()
	var gotOpts checkout.Options
	co := &mockCheckouter{
		checkoutFn: func(ctx context.Context, c *cart.Cart, opts checkout.Options) (*checkout.Result, error) {
			gotOpts = opts
			return &checkout.Result{
				Order: &service.CreateOrderResult{
					Order: database.Order{
						ID:            orderID,
						Status:        database.OrderStatusPending,
						PaymentMethod: database.PaymentMethodCash,
						Total:         testNumeric("90000.00"),
					},
				},
			}, nil
		},
	}
	hub := &mockHub{}
	r := setupCartRouter(cart.NewStore(), &mockProductGetter{}, co, hub)

	body := map[string]interface{}{"discount": "5000", "payment_method": "cash"}
	rr := doCartRequest(t, r, uuid.New(), "POST", "/cart/checkout", body, map[string]string{"Idempotency-Key": "co-1"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	if gotOpts.IdempotencyKey != "co-1" {
		t.Errorf("idempotency key = %q, want co-1", gotOpts.IdempotencyKey)
	}
	if want, _ := decimal.NewFromString("5000"); !gotOpts.Discount.Equal(want) {
		t.Errorf("discount = %s, want 5000", gotOpts.Discount)
	}
	resp := decodeBody(t, rr)
	order := resp["order"].(map[string]interface{})
	if order["id"] != orderID.String() {
		t.Errorf("order id = %v, want %s", order["id"], orderID)
	}
	if _, hasQR := resp["qr"]; hasQR {
		t.Error("cash checkout must not include a qr field")
	}
	events := hub.eventTypes()
	if len(events) != 1 || events[0] != "order.created" {
		t.Errorf("broadcasts = %v, want [order.created]", events)
	}
}

func TestCartCheckout_EwalletIncludesQR(t *testing.T) {
	orderID := uuid.New()
	co := &mockCheckouter{
		checkoutFn: func(ctx context.Context, c *cart.Cart, opts checkout.Options) (*checkout.Result, error) {
			return &checkout.Result{
				Order: &service.CreateOrderResult{
					Order: database.Order{ID: orderID, PaymentMethod: database.PaymentMethodEwallet, Total: testNumeric("90000.00")},
				},
				Token: &payment.Token{
					OrderID: orderID,
					Payload: "POS-BOLT|order:" + orderID.String() + "|amount:90000.00",
					DataURL: "data:image/png;base64,AAAA",
				},
			}, nil
		},
	}
	r := setupCartRouter(cart.NewStore(), &mockProductGetter{}, co, &mockHub{})

	rr := doCartRequest(t, r, uuid.New(), "POST", "/cart/checkout", map[string]interface{}{"payment_method": "ewallet"}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	qr, ok := resp["qr"].(map[string]interface{})
	if !ok {
		t.Fatal("expected a qr field for ewallet checkout")
	}
	if qr["payload"] != "POS-BOLT|order:"+orderID.String()+"|amount:90000.00" {
		t.Errorf("qr payload = %v", qr["payload"])
	}
}

func TestCartCheckout_NegativeDiscount(t *testing.T) {
	r := setupCartRouter(cart.NewStore(), &mockProductGetter{}, &mockCheckouter{}, &mockHub{})

	body := map[string]interface{}{"discount": "-100"}
	rr := doCartRequest(t, r, uuid.New(), "POST", "/cart/checkout", body, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestCartCheckout_ValidationErrorFromService(t *testing.T) {
	co := &mockCheckouter{
		checkoutFn: func(ctx context.Context, c *cart.Cart, opts checkout.Options) (*checkout.Result, error) {
			return nil, service.ErrInvalidPaymentMethod
		},
	}
	r := setupCartRouter(cart.NewStore(), &mockProductGetter{}, co, &mockHub{})

	rr := doCartRequest(t, r, uuid.New(), "POST", "/cart/checkout", map[string]interface{}{"payment_method": "cheque"}, nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestCartCheckout_TokenFailureStillCreated(t *testing.T) {
	orderID := uuid.New()
	co := &mockCheckouter{
		checkoutFn: func(ctx context.Context, c *cart.Cart, opts checkout.Options) (*checkout.Result, error) {
			result := &checkout.Result{
				Order: &service.CreateOrderResult{
					Order: database.Order{ID: orderID, PaymentMethod: database.PaymentMethodEwallet, Total: testNumeric("90000.00")},
				},
			}
			return result, errors.New("order created but payment token failed")
		},
	}
	hub := &mockHub{}
	r := setupCartRouter(cart.NewStore(), &mockProductGetter{}, co, hub)

	rr := doCartRequest(t, r, uuid.New(), "POST", "/cart/checkout", map[string]interface{}{"payment_method": "ewallet"}, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 when the order persisted: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	order := resp["order"].(map[string]interface{})
	if order["id"] != orderID.String() {
		t.Errorf("order id = %v, want %s", order["id"], orderID)
	}

	// The order exists even though the token does not; terminals still hear
	// about it.
	events := hub.eventTypes()
	if len(events) != 1 || events[0] != "order.created" {
		t.Errorf("broadcasts = %v, want [order.created]", events)
	}
}

func TestCartCheckout_ReplayReturns200(t *testing.T) {
	orderID := uuid.New()
	co := &mockCheckouter{
		checkoutFn: func(ctx context.Context, c *cart.Cart, opts checkout.Options) (*checkout.Result, error) {
			return &checkout.Result{
				Order: &service.CreateOrderResult{
					Order: database.Order{
						ID:            orderID,
						Status:        database.OrderStatusPending,
						PaymentMethod: database.PaymentMethodCash,
						Total:         testNumeric("90000.00"),
					},
					Replayed: true,
				},
			}, nil
		},
	}
	hub := &mockHub{}
	r := setupCartRouter(cart.NewStore(), &mockProductGetter{}, co, hub)

	body := map[string]interface{}{"payment_method": "cash"}
	rr := doCartRequest(t, r, uuid.New(), "POST", "/cart/checkout", body, map[string]string{"Idempotency-Key": "co-1"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 on an idempotent replay: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	order := resp["order"].(map[string]interface{})
	if order["id"] != orderID.String() {
		t.Errorf("order id = %v, want %s", order["id"], orderID)
	}
	if events := hub.eventTypes(); len(events) != 0 {
		t.Errorf("broadcasts = %v, want none on a replay", events)
	}
}

func TestCart_NoAuth(t *testing.T) {
	r := setupCartRouter(cart.NewStore(), &mockProductGetter{}, &mockCheckouter{}, &mockHub{})

	req := httptest.NewRequest("GET", "/cart", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}
