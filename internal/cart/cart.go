// Package cart holds the shopper cart as an ordered list of line items.
//
// Every operation keeps two invariants: a product appears at most once and
// each line has a quantity of at least one.
package cart

import (
	"errors"

	"personashop/internal/models"
)

var (
	// ErrInvalidQuantity is returned when adding fewer than one unit.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrItemNotFound is returned when updating a product that is not in the cart.
	ErrItemNotFound = errors.New("item not in cart")
)

// Cart is an ordered collection of cart lines.
type Cart struct {
	Items []models.CartItem `json:"items"`
}

// New returns a cart holding a copy of items.
func New(items []models.CartItem) *Cart {
	c := &Cart{Items: make([]models.CartItem, 0, len(items))}
	c.Items = append(c.Items, items...)
	return c
}

func (c *Cart) indexOf(productID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts item in the cart. A product already present has its quantity
// increased and its name and price refreshed; its position is kept.
func (c *Cart) Add(item models.CartItem) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if i := c.indexOf(item.ProductID); i >= 0 {
		existing := c.Items[i]
		existing.Quantity += item.Quantity
		existing.Name = item.Name
		existing.Price = item.Price
		c.Items[i] = existing
		return nil
	}
	c.Items = append(c.Items, item)
	return nil
}

// Remove drops the product from the cart. Unknown ids are ignored.
func (c *Cart) Remove(productID string) {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	c.Items = kept
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or less
// removes the line.
func (c *Cart) UpdateQuantity(productID string, quantity int) error {
	i := c.indexOf(productID)
	if i < 0 {
		return ErrItemNotFound
	}
	if quantity <= 0 {
		c.Remove(productID)
		return nil
	}
	c.Items[i].Quantity = quantity
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
}

// Total returns the sum of price times quantity over all lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// Count returns the number of units in the cart.
func (c *Cart) Count() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
