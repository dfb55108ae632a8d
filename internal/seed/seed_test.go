package seed_test

import (
	"testing"

	"personashop/internal/database"
	"personashop/internal/repositories"
	"personashop/internal/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCatalogue_SeedsOnlyOnce(t *testing.T) {
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	repo := repositories.NewGORMProductRepository(db)

	n, err := seed.Catalogue(repo, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = seed.Catalogue(repo, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Len(t, all, 12)
	assert.Equal(t, "Leather Messenger Bag", all[0].Name, "newest product first")
}
