package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pos-bolt/api/internal/cart"
	"github.com/pos-bolt/api/internal/enum"
	"github.com/pos-bolt/api/internal/payment"
	"github.com/pos-bolt/api/internal/service"
	"github.com/shopspring/decimal"
)

// ErrEmptyCart is returned when checkout is attempted with no lines; nothing
// is written.
var ErrEmptyCart = errors.New("cart is empty")

// OrderPlacer defines the order-creation method the orchestrator needs.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req service.CreateOrderRequest) (*service.CreateOrderResult, error)
}

// TokenIssuer produces a scannable payment token for an order.
// Satisfied by *payment.Generator.
type TokenIssuer interface {
	Generate(ctx context.Context, orderID uuid.UUID) (payment.Token, error)
}

// Options are the operator's checkout choices for the current cart.
type Options struct {
	Discount       decimal.Decimal
	TableID        string // optional opaque table reference
	PaymentMethod  string // cash, card or ewallet; empty means cash
	IdempotencyKey string // optional; bind to the cart snapshot for safe retries
}

// Result is the outcome of a successful checkout. Token is set only for
// e-wallet payments.
type Result struct {
	Order *service.CreateOrderResult
	Token *payment.Token
}

// Orchestrator converts a non-empty cart plus a payment method into a
// persisted order and drives the payment-method-specific follow-up.
type Orchestrator struct {
	orders OrderPlacer
	tokens TokenIssuer
}

func New(orders OrderPlacer, tokens TokenIssuer) *Orchestrator {
	return &Orchestrator{orders: orders, tokens: tokens}
}

// Checkout submits the cart as an order. On success the cart is cleared; on
// failure it is left intact so the operator can retry without re-entering
// items. For e-wallet payments the returned Result carries the QR token; if
// token generation fails after the order was persisted, the Result (with the
// created order) is returned alongside the error, and the token can be
// re-requested later.
func (o *Orchestrator) Checkout(ctx context.Context, c *cart.Cart, opts Options) (*Result, error) {
	if c.Empty() {
		return nil, ErrEmptyCart
	}

	lines := c.Lines()
	items := make([]service.CreateOrderItemRequest, len(lines))
	for i, l := range lines {
		items[i] = service.CreateOrderItemRequest{
			ProductID: l.ProductID.String(),
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal.StringFixed(2),
		}
	}

	created, err := o.orders.CreateOrder(ctx, service.CreateOrderRequest{
		TableID:        opts.TableID,
		PaymentMethod:  opts.PaymentMethod,
		Discount:       opts.Discount.StringFixed(2),
		IdempotencyKey: opts.IdempotencyKey,
		Items:          items,
	})
	if err != nil {
		return nil, err
	}

	// The order is durable from here on; the cart's job is done.
	c.Clear()

	result := &Result{Order: created}
	if string(created.Order.PaymentMethod) == enum.PaymentMethodEwallet {
		token, err := o.tokens.Generate(ctx, created.Order.ID)
		if err != nil {
			return result, fmt.Errorf("order %s created but payment token failed: %w", created.Order.ID, err)
		}
		result.Token = &token
	}
	return result, nil
}
