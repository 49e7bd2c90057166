package payment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pos-bolt/api/internal/database"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
)

// ErrOrderNotFound is returned when a token is requested for an absent order.
var ErrOrderNotFound = errors.New("order not found")

const qrSize = 256

// OrderGetter defines the single read the generator needs.
// Satisfied by *database.Queries.
type OrderGetter interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
}

// Token binds an order id and its total amount into a scannable payload.
// DataURL is a base64 PNG suitable for direct rendering in an <img> tag.
type Token struct {
	OrderID uuid.UUID
	Payload string
	DataURL string
}

// Generator produces payment QR tokens. It does not observe payment
// completion; confirming a payment is always a manual call to the order
// state machine.
type Generator struct {
	store OrderGetter
	appID string
}

func NewGenerator(store OrderGetter, appID string) *Generator {
	return &Generator{store: store, appID: appID}
}

// Generate builds the "<app-id>|order:<id>|amount:<total>" payload for the
// order and encodes it as a QR image.
func (g *Generator) Generate(ctx context.Context, orderID uuid.UUID) (Token, error) {
	order, err := g.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Token{}, ErrOrderNotFound
		}
		return Token{}, fmt.Errorf("get order: %w", err)
	}

	payload := fmt.Sprintf("%s|order:%s|amount:%s", g.appID, order.ID, numericToString(order.Total))

	png, err := qrcode.Encode(payload, qrcode.Medium, qrSize)
	if err != nil {
		return Token{}, fmt.Errorf("encode qr: %w", err)
	}

	return Token{
		OrderID: order.ID,
		Payload: payload,
		DataURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}

func numericToString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}
