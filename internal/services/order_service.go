package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"personashop/internal/models"
	"personashop/internal/repositories"
	"personashop/pkg/rabbitmq"

	"go.uber.org/zap"
)

// OrderPublisher announces order events to other services.
type OrderPublisher interface {
	PublishOrderCreated(ctx context.Context, event rabbitmq.OrderEvent) error
}

var validStatuses = map[string]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusProcessing: true,
	models.OrderStatusShipped:    true,
	models.OrderStatusDelivered:  true,
	models.OrderStatusCancelled:  true,
}

// orderTransitions lists the statuses an order may move to from each status.
// Delivered and cancelled orders are final.
var orderTransitions = map[string][]string{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
}

func canTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	carts       repositories.CartRepository
	publisher   OrderPublisher
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case no events are sent.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, carts repositories.CartRepository, publisher OrderPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		carts:       carts,
		publisher:   publisher,
		logger:      logger,
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Checkout turns the user's cart into a pending order at current catalogue
// prices, reserves the stock and empties the cart.
func (s *OrderService) Checkout(ctx context.Context, userID string) (*models.Order, error) {
	items, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var total float64
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, err)
		}
		if product.Stock < item.Quantity {
			return nil, fmt.Errorf("%w for product %s (requested: %d, available: %d)", ErrInsufficientStock, product.Name, item.Quantity, product.Stock)
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	reserved := make([]models.OrderItem, 0, len(orderItems))
	release := func() {
		for _, r := range reserved {
			if err := s.productRepo.AdjustStock(r.ProductID, r.Quantity); err != nil {
				s.logger.Error("Failed to release reserved stock", zap.String("product_id", r.ProductID), zap.Error(err))
			}
		}
	}
	for _, item := range orderItems {
		if err := s.productRepo.AdjustStock(item.ProductID, -item.Quantity); err != nil {
			release()
			if errors.Is(err, repositories.ErrConflict) {
				return nil, fmt.Errorf("%w for product %s", ErrInsufficientStock, item.Name)
			}
			return nil, err
		}
		reserved = append(reserved, item)
	}

	now := time.Now()
	order := &models.Order{
		UserID:      userID,
		Items:       orderItems,
		TotalAmount: roundCents(total),
		Status:      models.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.orderRepo.Create(order); err != nil {
		release()
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	if err := s.carts.Delete(ctx, userID); err != nil {
		s.logger.Error("Failed to clear cart after checkout", zap.String("user_id", userID), zap.Error(err))
	}
	s.logger.Info("Order placed", zap.String("order_id", order.ID), zap.String("user_id", userID), zap.Float64("total", order.TotalAmount))

	s.publishCreated(ctx, order)
	return order, nil
}

func (s *OrderService) publishCreated(ctx context.Context, order *models.Order) {
	if s.publisher == nil {
		s.logger.Debug("Order events disabled, skipping publication", zap.String("order_id", order.ID))
		return
	}
	event := rabbitmq.OrderEvent{
		Type:       rabbitmq.EventOrderCreated,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     order.Status,
		Total:      order.TotalAmount,
		Items:      order.Items,
		OccurredAt: order.CreatedAt,
	}
	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Warn("Failed to publish order created event", zap.String("order_id", order.ID), zap.Error(err))
	}
}

// GetOrdersForUser returns the user's orders, newest first.
func (s *OrderService) GetOrdersForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// GetOrderForUser returns an order owned by userID. Orders of other users
// are reported as not found.
func (s *OrderService) GetOrderForUser(id, userID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order with ID %s", repositories.ErrNotFound, id)
	}
	return order, nil
}

// UpdateOrderStatus moves an order to status. Shoppers may only cancel
// their own orders while staff may advance any order along its lifecycle.
// Cancelling an order returns its items to stock.
func (s *OrderService) UpdateOrderStatus(id, userID, status string, staff bool) error {
	if !validStatuses[status] {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	var (
		order *models.Order
		err   error
	)
	if staff {
		order, err = s.orderRepo.GetByID(id)
	} else {
		order, err = s.GetOrderForUser(id, userID)
	}
	if err != nil {
		return err
	}
	if !staff && status != models.OrderStatusCancelled {
		return fmt.Errorf("%w: customers may only cancel orders", ErrForbidden)
	}
	if !canTransition(order.Status, status) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, status)
	}

	if err := s.orderRepo.UpdateStatus(id, order.Status, status); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return fmt.Errorf("%w: order %s changed concurrently", ErrInvalidTransition, id)
		}
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	if status == models.OrderStatusCancelled {
		s.restock(order)
	}
	s.logger.Info("Order status updated",
		zap.String("order_id", id),
		zap.String("from", order.Status),
		zap.String("to", status),
		zap.Bool("staff", staff),
	)
	return nil
}

func (s *OrderService) restock(order *models.Order) {
	for _, item := range order.Items {
		if err := s.productRepo.AdjustStock(item.ProductID, item.Quantity); err != nil {
			s.logger.Error("Failed to restock cancelled order item",
				zap.String("order_id", order.ID),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
		}
	}
}
