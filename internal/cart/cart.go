package cart

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Errors returned by cart operations.
var (
	ErrInvalidQuantity = errors.New("quantity must be > 0")
	ErrLineNotFound    = errors.New("line not found")
)

// Product is the slice of a catalog entry the cart needs. Stock is advisory
// display data and is not checked here; callers that want stock enforcement
// must do it themselves.
type Product struct {
	ID    uuid.UUID
	Price decimal.Decimal
}

// Line is a single cart entry. UnitPrice is captured from the catalog on
// every add, so quantity edits between adds always price at the line's
// stored rate.
type Line struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	UnitPrice decimal.Decimal
	Quantity  int32
	Subtotal  decimal.Decimal
}

// Cart is the working set of lines for one checkout session. It holds at most
// one line per product (adds merge into the existing line). A cart belongs to
// a single logical session with a single writer, so it does no locking.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// AddLine merges quantity into an existing line for the product, or appends a
// new line. The subtotal is always recomputed as quantity * unit price.
func (c *Cart) AddLine(p Product, quantity int32) (Line, error) {
	if quantity <= 0 {
		return Line{}, ErrInvalidQuantity
	}
	for i := range c.lines {
		if c.lines[i].ProductID == p.ID {
			// Merging re-captures the unit price so the stored price and the
			// subtotal can never diverge.
			c.lines[i].UnitPrice = p.Price
			c.lines[i].Quantity += quantity
			c.lines[i].Subtotal = p.Price.Mul(decimal.NewFromInt32(c.lines[i].Quantity))
			return c.lines[i], nil
		}
	}
	line := Line{
		ID:        uuid.New(),
		ProductID: p.ID,
		UnitPrice: p.Price,
		Quantity:  quantity,
		Subtotal:  p.Price.Mul(decimal.NewFromInt32(quantity)),
	}
	c.lines = append(c.lines, line)
	return line, nil
}

// SetLineQuantity sets the quantity of a line and recomputes its subtotal from
// the line's stored unit price. Quantity 0 removes the line.
func (c *Cart) SetLineQuantity(lineID uuid.UUID, quantity int32) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		c.RemoveLine(lineID)
		return nil
	}
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines[i].Quantity = quantity
			c.lines[i].Subtotal = c.lines[i].UnitPrice.Mul(decimal.NewFromInt32(quantity))
			return nil
		}
	}
	return ErrLineNotFound
}

// RemoveLine removes a line unconditionally. An absent id is a no-op.
func (c *Cart) RemoveLine(lineID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Used after successful or abandoned checkout.
func (c *Cart) Clear() {
	c.lines = nil
}

// Total is the sum of all line subtotals.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

// Lines returns a copy of the cart's lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}
