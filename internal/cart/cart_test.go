package cart

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAddLine_NewLine(t *testing.T) {
	c := New()
	p := Product{ID: uuid.New(), Price: dec("25000")}

	line, err := c.AddLine(p, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !line.Subtotal.Equal(dec("50000")) {
		t.Errorf("subtotal = %s, want 50000", line.Subtotal)
	}
	if !c.Total().Equal(dec("50000")) {
		t.Errorf("total = %s, want 50000", c.Total())
	}
}

func TestAddLine_MergesSameProduct(t *testing.T) {
	c := New()
	p := Product{ID: uuid.New(), Price: dec("25000")}

	first, _ := c.AddLine(p, 2)
	second, err := c.AddLine(p, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(c.Lines()) != 1 {
		t.Fatalf("lines = %d, want 1 (merged)", len(c.Lines()))
	}
	if second.ID != first.ID {
		t.Error("merge must keep the original line ID")
	}
	if second.Quantity != 5 {
		t.Errorf("quantity = %d, want 5", second.Quantity)
	}
	if !second.Subtotal.Equal(dec("125000")) {
		t.Errorf("subtotal = %s, want 125000", second.Subtotal)
	}
}

func TestAddLine_MergeAtNewPriceUpdatesUnitPrice(t *testing.T) {
	c := New()
	productID := uuid.New()

	first, _ := c.AddLine(Product{ID: productID, Price: dec("100")}, 2)
	merged, err := c.AddLine(Product{ID: productID, Price: dec("150")}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !merged.UnitPrice.Equal(dec("150")) {
		t.Errorf("unit price = %s, want 150 (re-captured on merge)", merged.UnitPrice)
	}
	want := merged.UnitPrice.Mul(decimal.NewFromInt32(merged.Quantity))
	if !merged.Subtotal.Equal(want) {
		t.Errorf("subtotal = %s, want quantity * stored unit price = %s", merged.Subtotal, want)
	}

	// Re-setting the same quantity must not change the subtotal.
	if err := c.SetLineQuantity(first.ID, merged.Quantity); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Lines()[0].Subtotal.Equal(want) {
		t.Errorf("subtotal after no-op quantity set = %s, want %s", c.Lines()[0].Subtotal, want)
	}
}

func TestAddLine_RejectsNonPositiveQuantity(t *testing.T) {
	c := New()
	p := Product{ID: uuid.New(), Price: dec("1000")}

	for _, qty := range []int32{0, -1} {
		if _, err := c.AddLine(p, qty); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("AddLine(qty=%d): expected ErrInvalidQuantity, got: %v", qty, err)
		}
	}
	if !c.Empty() {
		t.Error("rejected adds must not modify the cart")
	}
}

func TestSetLineQuantity_RecomputesFromStoredUnitPrice(t *testing.T) {
	c := New()
	p := Product{ID: uuid.New(), Price: dec("30000")}
	line, _ := c.AddLine(p, 1)

	// Catalog price changes after the line was captured must not matter:
	// the line keeps the unit price it was added with.
	if err := c.SetLineQuantity(line.ID, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := c.Lines()[0]
	if got.Quantity != 4 {
		t.Errorf("quantity = %d, want 4", got.Quantity)
	}
	if !got.Subtotal.Equal(dec("120000")) {
		t.Errorf("subtotal = %s, want 120000", got.Subtotal)
	}
}

func TestSetLineQuantity_ZeroRemovesLine(t *testing.T) {
	c := New()
	line, _ := c.AddLine(Product{ID: uuid.New(), Price: dec("1000")}, 2)

	if err := c.SetLineQuantity(line.ID, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Empty() {
		t.Error("quantity 0 must remove the line")
	}
}

func TestSetLineQuantity_NegativeRejected(t *testing.T) {
	c := New()
	line, _ := c.AddLine(Product{ID: uuid.New(), Price: dec("1000")}, 2)

	if err := c.SetLineQuantity(line.ID, -1); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got: %v", err)
	}
	if c.Lines()[0].Quantity != 2 {
		t.Error("rejected update must not modify the line")
	}
}

func TestSetLineQuantity_AbsentLine(t *testing.T) {
	c := New()
	c.AddLine(Product{ID: uuid.New(), Price: dec("1000")}, 1)

	if err := c.SetLineQuantity(uuid.New(), 3); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got: %v", err)
	}
}

func TestRemoveLine_AbsentIsNoOp(t *testing.T) {
	c := New()
	c.AddLine(Product{ID: uuid.New(), Price: dec("1000")}, 1)

	c.RemoveLine(uuid.New())
	if len(c.Lines()) != 1 {
		t.Error("removing an absent line must not disturb the cart")
	}
}

func TestTotal_SumsLineSubtotals(t *testing.T) {
	c := New()
	c.AddLine(Product{ID: uuid.New(), Price: dec("25000")}, 2)
	c.AddLine(Product{ID: uuid.New(), Price: dec("40000")}, 1)

	if !c.Total().Equal(dec("90000")) {
		t.Errorf("total = %s, want 90000", c.Total())
	}
}

func TestClear(t *testing.T) {
	c := New()
	c.AddLine(Product{ID: uuid.New(), Price: dec("1000")}, 1)
	c.Clear()

	if !c.Empty() {
		t.Error("cart must be empty after Clear")
	}
	if !c.Total().Equal(decimal.Zero) {
		t.Errorf("total = %s, want 0", c.Total())
	}
}

func TestLines_ReturnsCopy(t *testing.T) {
	c := New()
	c.AddLine(Product{ID: uuid.New(), Price: dec("1000")}, 1)

	lines := c.Lines()
	lines[0].Quantity = 99
	if c.Lines()[0].Quantity != 1 {
		t.Error("mutating the returned slice must not affect the cart")
	}
}

func TestStore_GetCreatesOnDemand(t *testing.T) {
	s := NewStore()
	userID := uuid.New()

	c := s.Get(userID)
	if c == nil {
		t.Fatal("expected a cart")
	}
	if s.Get(userID) != c {
		t.Error("repeated Get must return the same cart")
	}
	if s.Get(uuid.New()) == c {
		t.Error("different users must get different carts")
	}
}

func TestStore_Drop(t *testing.T) {
	s := NewStore()
	userID := uuid.New()

	c := s.Get(userID)
	c.AddLine(Product{ID: uuid.New(), Price: dec("1000")}, 1)
	s.Drop(userID)

	if !s.Get(userID).Empty() {
		t.Error("dropped user must start with a fresh cart")
	}
}
