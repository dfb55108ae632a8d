package repositories_test

import (
	"testing"

	"personashop/internal/database"
	"personashop/internal/models"
	"personashop/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMOrderRepository(t *testing.T) {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	repo := repositories.NewGORMOrderRepository(db)

	order := &models.Order{
		UserID:      "u-1",
		Items:       []models.OrderItem{{ProductID: "p-1", Name: "Wool Scarf", Quantity: 2, Price: 39.99}},
		TotalAmount: 79.98,
		Status:      models.OrderStatusPending,
	}
	require.NoError(t, repo.Create(order))

	got, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Items, got.Items)

	mine, err := repo.GetByUserID("u-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := repo.GetByUserID("u-2")
	require.NoError(t, err)
	assert.Empty(t, theirs)

	require.NoError(t, repo.UpdateStatus(order.ID, models.OrderStatusPending, models.OrderStatusProcessing))
	got, err = repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, got.Status)

	// a second writer still expecting the old status loses
	err = repo.UpdateStatus(order.ID, models.OrderStatusPending, models.OrderStatusCancelled)
	assert.ErrorIs(t, err, repositories.ErrConflict)
	got, err = repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus("missing", models.OrderStatusPending, models.OrderStatusShipped), repositories.ErrNotFound)
}
