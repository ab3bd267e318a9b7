package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
)

// MaxLineQuantity bounds a single cart line
const MaxLineQuantity = 999

// Item is one product line in a cart
type Item struct {
	ProductID uuid.UUID
	Quantity  int
	AddedAt   time.Time
}

// Cart is the server-side basket of an authenticated user. Lines are kept
// in insertion order.
type Cart struct {
	UserID    uuid.UUID
	Items     []Item
	UpdatedAt time.Time
}

// New returns an empty cart for userID
func New(userID uuid.UUID) *Cart {
	return &Cart{UserID: userID, Items: []Item{}, UpdatedAt: time.Now()}
}

// Availability reports how many units of a product can be put in a cart.
// A product missing from the map is unknown or not for sale.
type Availability map[uuid.UUID]int

func (c *Cart) find(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// QuantityOf returns the quantity of a product in the cart
func (c *Cart) QuantityOf(productID uuid.UUID) int {
	if i := c.find(productID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

// Add puts q units of a product in the cart, incrementing an existing line.
func (c *Cart) Add(productID uuid.UUID, q int, available int) error {
	if q <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return c.set(productID, c.QuantityOf(productID)+q, available)
}

// SetQuantity overwrites a line. A quantity of zero or less removes it.
func (c *Cart) SetQuantity(productID uuid.UUID, q int, available int) error {
	if q <= 0 {
		c.Remove(productID)
		return nil
	}
	if c.find(productID) < 0 {
		return shared.ErrNotFound.WithMessage("Product is not in the cart")
	}
	return c.set(productID, q, available)
}

func (c *Cart) set(productID uuid.UUID, q int, available int) error {
	if q > MaxLineQuantity {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity exceeds the per-line limit")
	}
	if q > available {
		return shared.ErrInsufficientStock.WithDetails(map[string]any{
			"product_id": productID.String(),
			"requested":  q,
			"available":  available,
		})
	}
	if i := c.find(productID); i >= 0 {
		c.Items[i].Quantity = q
	} else {
		c.Items = append(c.Items, Item{ProductID: productID, Quantity: q, AddedAt: time.Now()})
	}
	c.UpdatedAt = time.Now()
	return nil
}

// Remove deletes a line; removing a missing product is a no-op
func (c *Cart) Remove(productID uuid.UUID) bool {
	i := c.find(productID)
	if i < 0 {
		return false
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.UpdatedAt = time.Now()
	return true
}

// RemoveProducts deletes the lines for the given products
func (c *Cart) RemoveProducts(ids []uuid.UUID) {
	for _, id := range ids {
		c.Remove(id)
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []Item{}
	c.UpdatedAt = time.Now()
}

// Count is the total number of units in the cart
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// ProductIDs lists the products in the cart
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ProductID
	}
	return ids
}

// MergeResult reports what a guest-cart merge did
type MergeResult struct {
	// Skipped lists products that are unknown or not for sale
	Skipped []uuid.UUID
	// Capped lists products whose merged quantity was cut to available stock
	Capped []uuid.UUID
}

// Merge folds a guest cart into this one. Quantities of the same product
// are summed and then capped at available stock; unknown or inactive
// products are skipped. Merge never fails on stock.
func (c *Cart) Merge(guest []Item, avail Availability) MergeResult {
	res := MergeResult{Skipped: []uuid.UUID{}, Capped: []uuid.UUID{}}
	seenSkip := make(map[uuid.UUID]bool)
	seenCap := make(map[uuid.UUID]bool)

	for _, g := range guest {
		if g.Quantity <= 0 {
			continue
		}
		available, ok := avail[g.ProductID]
		if !ok {
			if !seenSkip[g.ProductID] {
				seenSkip[g.ProductID] = true
				res.Skipped = append(res.Skipped, g.ProductID)
			}
			continue
		}
		limit := available
		if limit > MaxLineQuantity {
			limit = MaxLineQuantity
		}
		want := c.QuantityOf(g.ProductID) + g.Quantity
		if want > limit {
			want = limit
			if !seenCap[g.ProductID] {
				seenCap[g.ProductID] = true
				res.Capped = append(res.Capped, g.ProductID)
			}
		}
		if want <= 0 {
			c.Remove(g.ProductID)
			continue
		}
		// want is within limit so set cannot fail
		_ = c.set(g.ProductID, want, limit)
	}
	return res
}
