package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pos-bolt/api/internal/database"
	"github.com/pos-bolt/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Errors returned by the order service. The Err* validation sentinels are
// rejected before any write.
var (
	ErrEmptyItems           = errors.New("items are required")
	ErrInvalidProductID     = errors.New("invalid product_id")
	ErrInvalidQuantity      = errors.New("quantity must be > 0")
	ErrInvalidSubtotal      = errors.New("subtotal must be >= 0")
	ErrInvalidDiscount      = errors.New("discount must be >= 0")
	ErrInvalidPaymentMethod = errors.New("invalid payment_method")
	ErrInvalidTableID       = errors.New("invalid table_id")
	ErrOrderNotFound        = errors.New("order not found")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed by the order service.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	GetOrderByIdempotencyKey(ctx context.Context, idempotencyKey pgtype.Text) (database.Order, error)
	ListOrders(ctx context.Context) ([]database.Order, error)
	ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	CompleteOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
// This allows the service to create store instances from transactions.
type NewOrderStore func(db database.DBTX) OrderStore

// CreateOrderRequest is the input for creating an order. Money fields are
// decimal strings.
type CreateOrderRequest struct {
	TableID        string // optional
	PaymentMethod  string // defaults to cash when empty
	Discount       string // defaults to 0 when empty
	IdempotencyKey string // optional; duplicate submissions replay the first result
	Items          []CreateOrderItemRequest
}

// CreateOrderItemRequest is a single cart line in the order. The subtotal is
// the client-computed quantity * unit-price; the server validates it is
// non-negative and derives the order totals from the item subtotals, never
// from a client-submitted total.
type CreateOrderItemRequest struct {
	ProductID string
	Quantity  int32
	Subtotal  string
}

// CreateOrderResult is the full created order with items, re-read from the
// insert RETURNING rows as the canonical representation.
type CreateOrderResult struct {
	Order database.Order
	Items []database.OrderItem
	// Replayed is true when an idempotency key matched a previously created
	// order and that order was returned instead of writing a new one.
	Replayed bool
}

// OrderService handles order creation and the order state machine.
type OrderService struct {
	pool     TxBeginner
	store    OrderStore
	newStore NewOrderStore
}

// NewOrderService creates a new OrderService. store runs reads and single
// statement updates against the pool; newStore builds transaction-scoped
// stores for the multi-row create path.
func NewOrderService(pool TxBeginner, store OrderStore, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, store: store, newStore: newStore}
}

// processedItem holds a validated, parsed order item ready to insert.
type processedItem struct {
	productID uuid.UUID
	quantity  int32
	subtotal  decimal.Decimal
}

// CreateOrder validates the request, computes totals server-side, and writes
// the order row plus all item rows in a single transaction. A failure at any
// point rolls the whole order back, so a partially written order is never
// observable.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResult, error) {
	// --- Validate items ---
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	subtotal := decimal.Zero
	items := make([]processedItem, 0, len(req.Items))
	for i, item := range req.Items {
		if item.ProductID == "" {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidProductID)
		}
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidProductID)
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
		sub, err := decimal.NewFromString(item.Subtotal)
		if err != nil || sub.IsNegative() {
			return nil, fmt.Errorf("items[%d]: %w", i, ErrInvalidSubtotal)
		}
		subtotal = subtotal.Add(sub)
		items = append(items, processedItem{
			productID: productID,
			quantity:  item.Quantity,
			subtotal:  sub,
		})
	}

	// --- Validate discount ---
	discount := decimal.Zero
	if req.Discount != "" {
		var err error
		discount, err = decimal.NewFromString(req.Discount)
		if err != nil || discount.IsNegative() {
			return nil, ErrInvalidDiscount
		}
	}

	// --- Validate payment method ---
	method, err := validatePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	// --- Validate table reference ---
	tableID := pgtype.UUID{}
	if req.TableID != "" {
		tid, err := uuid.Parse(req.TableID)
		if err != nil {
			return nil, ErrInvalidTableID
		}
		tableID = pgtype.UUID{Bytes: tid, Valid: true}
	}

	// total = max(0, subtotal - discount)
	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	idempotencyKey := pgtype.Text{}
	if req.IdempotencyKey != "" {
		idempotencyKey = pgtype.Text{String: req.IdempotencyKey, Valid: true}

		// Fast path: the same cart snapshot was already persisted.
		if result, err := s.replayByKey(ctx, idempotencyKey); err == nil {
			return result, nil
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("idempotency lookup: %w", err)
		}
	}

	result, err := s.createOrderTx(ctx, createOrderInput{
		tableID:        tableID,
		method:         method,
		subtotal:       subtotal,
		discount:       discount,
		total:          total,
		idempotencyKey: idempotencyKey,
		items:          items,
	})
	if err != nil {
		// A concurrent retry with the same key won the race; return its order.
		if isIdempotencyConflict(err) {
			if result, replayErr := s.replayByKey(ctx, idempotencyKey); replayErr == nil {
				return result, nil
			}
		}
		return nil, err
	}
	return result, nil
}

type createOrderInput struct {
	tableID        pgtype.UUID
	method         database.PaymentMethod
	subtotal       decimal.Decimal
	discount       decimal.Decimal
	total          decimal.Decimal
	idempotencyKey pgtype.Text
	items          []processedItem
}

// createOrderTx executes the full order creation in a single transaction.
func (s *OrderService) createOrderTx(ctx context.Context, in createOrderInput) (*CreateOrderResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		TableID:        in.tableID,
		PaymentMethod:  in.method,
		Subtotal:       decimalToNumeric(in.subtotal),
		Discount:       decimalToNumeric(in.discount),
		Total:          decimalToNumeric(in.total),
		IdempotencyKey: in.idempotencyKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	itemRows := make([]database.OrderItem, 0, len(in.items))
	for _, item := range in.items {
		row, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:   order.ID,
			ProductID: item.productID,
			Quantity:  item.quantity,
			Subtotal:  decimalToNumeric(item.subtotal),
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		itemRows = append(itemRows, row)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CreateOrderResult{Order: order, Items: itemRows}, nil
}

// replayByKey fetches the order a previous submission with this idempotency
// key created. Returns pgx.ErrNoRows when no such order exists.
func (s *OrderService) replayByKey(ctx context.Context, key pgtype.Text) (*CreateOrderResult, error) {
	order, err := s.store.GetOrderByIdempotencyKey(ctx, key)
	if err != nil {
		return nil, err
	}
	items, err := s.store.ListOrderItemsByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &CreateOrderResult{Order: order, Items: items, Replayed: true}, nil
}

// isIdempotencyConflict checks if the error is a unique constraint violation
// on the idempotency key (pgconn error code 23505).
func isIdempotencyConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "orders_idempotency_key_key"
	}
	return false
}

// Complete transitions an order from pending to completed. Completing an
// already completed order is a deterministic no-effect update: the order is
// returned unchanged.
func (s *OrderService) Complete(ctx context.Context, id uuid.UUID) (database.Order, error) {
	order, err := s.store.CompleteOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("complete order: %w", err)
	}
	return order, nil
}

// Remove deletes an order and, by FK cascade, all its item rows. Permitted
// from both pending and completed.
func (s *OrderService) Remove(ctx context.Context, id uuid.UUID) (database.Order, error) {
	order, err := s.store.DeleteOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrOrderNotFound
		}
		return database.Order{}, fmt.Errorf("delete order: %w", err)
	}
	return order, nil
}

// List returns all orders, most recent first.
func (s *OrderService) List(ctx context.Context) ([]database.Order, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// --- Helpers ---

func validatePaymentMethod(s string) (database.PaymentMethod, error) {
	switch s {
	case "":
		return database.PaymentMethodCash, nil
	case enum.PaymentMethodCash, enum.PaymentMethodCard, enum.PaymentMethodEwallet:
		return database.PaymentMethod(s), nil
	}
	return "", ErrInvalidPaymentMethod
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
