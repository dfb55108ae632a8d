package notify

import (
	"context"
	"errors"
	"testing"

	"personashop/internal/database"
	"personashop/internal/models"
	"personashop/internal/repositories"
	"personashop/pkg/rabbitmq"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	to, subject, body string
	calls             int
	err               error
}

func (s *recordingSender) Send(_ context.Context, to, subject, body string) error {
	s.calls++
	s.to, s.subject, s.body = to, subject, body
	return s.err
}

func newUsers(t *testing.T) *repositories.GORMUserRepository {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	users := repositories.NewGORMUserRepository(db)
	require.NoError(t, users.Create(&models.User{ID: "u-1", Username: "ada", Email: "ada@example.com", Password: "hash"}))
	return users
}

func createdEvent() rabbitmq.OrderEvent {
	return rabbitmq.OrderEvent{
		Type:    rabbitmq.EventOrderCreated,
		OrderID: "o-1",
		UserID:  "u-1",
		Status:  models.OrderStatusPending,
		Total:   79.98,
		Items:   []models.OrderItem{{ProductID: "p-1", Name: "Wool <Scarf>", Quantity: 2, Price: 39.99}},
	}
}

func TestRenderConfirmation(t *testing.T) {
	body, err := RenderConfirmation(Confirmation{
		Username: "ada",
		OrderID:  "o-1",
		Status:   "pending",
		Items:    createdEvent().Items,
		Total:    79.98,
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Thanks for your order, ada!")
	assert.Contains(t, body, "Wool &lt;Scarf&gt;")
	assert.Contains(t, body, "$39.99")
	assert.Contains(t, body, "$79.98")
}

func TestOrderNotifier_SendsConfirmation(t *testing.T) {
	sender := &recordingSender{}
	n := NewOrderNotifier(newUsers(t), sender, zap.NewNop())

	require.NoError(t, n.HandleOrderEvent(context.Background(), createdEvent()))
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "ada@example.com", sender.to)
	assert.Equal(t, "Your PersonaShop order o-1", sender.subject)
}

func TestOrderNotifier_Edges(t *testing.T) {
	sender := &recordingSender{}
	n := NewOrderNotifier(newUsers(t), sender, zap.NewNop())
	ctx := context.Background()

	other := createdEvent()
	other.Type = "order.shipped"
	require.NoError(t, n.HandleOrderEvent(ctx, other))

	unknown := createdEvent()
	unknown.UserID = "ghost"
	require.NoError(t, n.HandleOrderEvent(ctx, unknown))
	assert.Zero(t, sender.calls)

	sender.err = errors.New("smtp down")
	assert.Error(t, n.HandleOrderEvent(ctx, createdEvent()))

	logOnly := NewOrderNotifier(newUsers(t), nil, zap.NewNop())
	assert.NoError(t, logOnly.HandleOrderEvent(ctx, createdEvent()))
}

func TestMailer_Message(t *testing.T) {
	m, err := NewMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "orders@example.com"})
	require.NoError(t, err)

	_, err = m.message("ada@example.com", "Hello", "<p>hi</p>")
	assert.NoError(t, err)

	_, err = m.message("not an address", "Hello", "<p>hi</p>")
	assert.Error(t, err)
}

func TestOrderNotifier_PublishInProcess(t *testing.T) {
	sender := &recordingSender{}
	n := NewOrderNotifier(newUsers(t), sender, zap.NewNop())

	require.NoError(t, n.PublishOrderCreated(context.Background(), createdEvent()))
	assert.Equal(t, 1, sender.calls)
	assert.Contains(t, sender.body, "o-1")
}
