package services

import (
	"context"
	"fmt"

	"personashop/internal/cart"
	"personashop/internal/models"
	"personashop/internal/repositories"

	"go.uber.org/zap"
)

// CartService applies cart operations to a shopper's persisted cart. Every
// mutation writes the whole list back.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a CartService persisting carts in carts and pricing
// them from products.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, logger: logger}
}

func (s *CartService) load(ctx context.Context, userID string) (*cart.Cart, error) {
	items, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return cart.New(items), nil
}

func (s *CartService) save(ctx context.Context, userID string, c *cart.Cart) (*cart.Cart, error) {
	if err := s.carts.Save(ctx, userID, c.Items); err != nil {
		return nil, err
	}
	return c, nil
}

// GetCart returns the user's cart.
func (s *CartService) GetCart(ctx context.Context, userID string) (*cart.Cart, error) {
	return s.load(ctx, userID)
}

// AddItem adds quantity units of a catalogue product, merging with an
// existing line for the same product.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*cart.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.products.GetByID(productID)
	if err != nil {
		return nil, err
	}

	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	inCart := 0
	for _, it := range c.Items {
		if it.ProductID == productID {
			inCart = it.Quantity
		}
	}
	if inCart+quantity > product.Stock {
		return nil, fmt.Errorf("%w for %s (requested: %d, available: %d)", ErrInsufficientStock, product.Name, inCart+quantity, product.Stock)
	}

	if err := c.Add(models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
	}); err != nil {
		return nil, err
	}
	s.logger.Debug("Cart item added", zap.String("user_id", userID), zap.String("product_id", productID), zap.Int("quantity", quantity))
	return s.save(ctx, userID, c)
}

// UpdateItemQuantity sets a line's quantity; zero or less removes it. The new
// quantity may not exceed the product's stock.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID string, quantity int) (*cart.Cart, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if quantity > 0 && inCart(c, productID) {
		product, err := s.products.GetByID(productID)
		if err != nil {
			return nil, err
		}
		if quantity > product.Stock {
			return nil, fmt.Errorf("%w for %s (requested: %d, available: %d)", ErrInsufficientStock, product.Name, quantity, product.Stock)
		}
	}
	if err := c.UpdateQuantity(productID, quantity); err != nil {
		return nil, err
	}
	return s.save(ctx, userID, c)
}

func inCart(c *cart.Cart, productID string) bool {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return true
		}
	}
	return false
}

// RemoveItem drops the line for productID, if any.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*cart.Cart, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	return s.save(ctx, userID, c)
}

// ClearCart empties the user's cart.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	return s.carts.Delete(ctx, userID)
}
