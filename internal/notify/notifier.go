package notify

import (
	"context"
	"errors"
	"fmt"

	"personashop/internal/repositories"
	"personashop/pkg/rabbitmq"

	"go.uber.org/zap"
)

// OrderNotifier reacts to order events by e-mailing the shopper.
type OrderNotifier struct {
	users  repositories.UserRepository
	sender Sender
	logger *zap.Logger
}

// NewOrderNotifier creates a notifier. With a nil sender events are only logged.
func NewOrderNotifier(users repositories.UserRepository, sender Sender, logger *zap.Logger) *OrderNotifier {
	return &OrderNotifier{users: users, sender: sender, logger: logger}
}

// HandleOrderEvent sends the confirmation for order.created events and
// ignores other types.
func (n *OrderNotifier) HandleOrderEvent(ctx context.Context, event rabbitmq.OrderEvent) error {
	if event.Type != rabbitmq.EventOrderCreated {
		n.logger.Debug("Ignoring order event", zap.String("type", event.Type), zap.String("order_id", event.OrderID))
		return nil
	}

	user, err := n.users.GetByID(event.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			n.logger.Warn("Order event for unknown user", zap.String("order_id", event.OrderID), zap.String("user_id", event.UserID))
			return nil
		}
		return fmt.Errorf("failed to load user for order %s: %w", event.OrderID, err)
	}

	if n.sender == nil {
		n.logger.Info("Order confirmed",
			zap.String("order_id", event.OrderID),
			zap.String("email", user.Email),
			zap.Float64("total", event.Total))
		return nil
	}

	body, err := RenderConfirmation(Confirmation{
		Username: user.Username,
		OrderID:  event.OrderID,
		Status:   event.Status,
		Items:    event.Items,
		Total:    event.Total,
	})
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, user.Email, "Your PersonaShop order "+event.OrderID, body); err != nil {
		return err
	}
	n.logger.Info("Order confirmation sent", zap.String("order_id", event.OrderID), zap.String("email", user.Email))
	return nil
}

// PublishOrderCreated handles event in-process. It is used as the order
// publisher when no broker is configured.
func (n *OrderNotifier) PublishOrderCreated(ctx context.Context, event rabbitmq.OrderEvent) error {
	return n.HandleOrderEvent(ctx, event)
}
