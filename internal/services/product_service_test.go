package services_test

import (
	"errors"
	"testing"

	"personashop/internal/cache"
	"personashop/internal/models"
	"personashop/internal/repositories"
	"personashop/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProductService(repo *MockProductRepository, profiles *MockStyleProfileRepository) *services.ProductService {
	return services.NewProductService(repo, profiles, cache.NewMemoryStorage(), zap.NewNop())
}

func TestProductService_ListProductsDefaults(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockStyleProfileRepository))

	want := models.ProductQuery{Page: 1, PerPage: 12, SortBy: "created_at", SortOrder: "desc"}
	products := []models.Product{{ID: "1", Name: "Product A"}, {ID: "2", Name: "Product B"}}
	mockRepo.On("List", want).Return(products, int64(25), nil).Once()

	page, err := service.ListProducts(models.ProductQuery{SortBy: "popularity", SortOrder: "sideways"})
	require.NoError(t, err)
	assert.Equal(t, products, page.Products)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 12, page.PerPage)
	assert.EqualValues(t, 25, page.TotalProducts)
	assert.Equal(t, 3, page.TotalPages)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ListProductsClampsAndPassesFilters(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockStyleProfileRepository))

	minPrice := 10.0
	mockRepo.On("List", mock.MatchedBy(func(q models.ProductQuery) bool {
		return q.PerPage == 100 && q.Page == 2 && q.SortBy == "price" && q.SortOrder == "asc" &&
			q.Search == "shirt" && q.Category == "formal" && q.MinPrice != nil && *q.MinPrice == 10
	})).Return(nil, int64(0), nil).Once()

	page, err := service.ListProducts(models.ProductQuery{
		Page: 2, PerPage: 500, SortBy: "price", SortOrder: "asc",
		Search: "  shirt ", Category: "formal", MinPrice: &minPrice,
	})
	require.NoError(t, err)
	assert.NotNil(t, page.Products)
	assert.Empty(t, page.Products)
	assert.Zero(t, page.TotalPages)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CategoriesCached(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockStyleProfileRepository))

	mockRepo.On("Categories").Return([]string{"casual", "formal"}, nil).Once()

	for i := 0; i < 2; i++ {
		categories, err := service.Categories()
		require.NoError(t, err)
		assert.Equal(t, []string{"casual", "formal"}, categories)
	}
	mockRepo.AssertExpectations(t)

	// a write invalidates the cache
	product := &models.Product{Name: "Rain Jacket", Price: 80, Categories: []string{"outerwear"}}
	mockRepo.On("Create", product).Return(nil).Once()
	require.NoError(t, service.CreateProduct(product))

	mockRepo.On("Categories").Return([]string{"casual", "formal", "outerwear"}, nil).Once()
	categories, err := service.Categories()
	require.NoError(t, err)
	assert.Contains(t, categories, "outerwear")
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetUpdateDelete(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := newProductService(mockRepo, new(MockStyleProfileRepository))

	expectedProduct := &models.Product{ID: "1", Name: "Product A", Price: 10.0, Stock: 100}
	mockRepo.On("GetByID", "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID("1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	mockRepo.On("GetByID", "99").Return(nil, notFound("product 99")).Once()
	_, err = service.GetProductByID("99")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	mockRepo.On("Update", expectedProduct).Return(nil).Once()
	assert.NoError(t, service.UpdateProduct(expectedProduct))

	mockRepo.On("Delete", "1").Return(nil).Once()
	assert.NoError(t, service.DeleteProduct("1"))

	mockRepo.On("Delete", "99").Return(notFound("product 99")).Once()
	assert.ErrorIs(t, service.DeleteProduct("99"), repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_RecommendationsWithoutProfile(t *testing.T) {
	mockRepo := new(MockProductRepository)
	profiles := new(MockStyleProfileRepository)
	service := newProductService(mockRepo, profiles)

	newest := []models.Product{{ID: "12"}, {ID: "11"}}
	profiles.On("GetByUserID", "u-1").Return(nil, notFound("profile")).Once()
	mockRepo.On("List", models.ProductQuery{SortBy: "created_at", SortOrder: "desc", Page: 1, PerPage: 6}).Return(newest, int64(2), nil).Once()

	products, message, err := service.Recommendations("u-1")
	require.NoError(t, err)
	assert.Equal(t, newest, products)
	assert.Equal(t, "Default recommendations (no style profile)", message)
	mockRepo.AssertExpectations(t)
	profiles.AssertExpectations(t)
}

func TestProductService_RecommendationsTopsUpMatches(t *testing.T) {
	mockRepo := new(MockProductRepository)
	profiles := new(MockStyleProfileRepository)
	service := newProductService(mockRepo, profiles)

	profiles.On("GetByUserID", "u-1").Return(&models.StyleProfile{
		UserID:      "u-1",
		Preferences: map[string]string{"occasion": "formal", "color_palette": "neutrals"},
	}, nil).Once()

	matched := []models.Product{{ID: "boots"}, {ID: "shirt"}}
	mockRepo.On("List", models.ProductQuery{
		Categories: []string{"formal", "business"},
		Colors:     []string{"black", "white", "gray", "beige"},
		SortBy:     "created_at", SortOrder: "desc", Page: 1, PerPage: 6,
	}).Return(matched, int64(2), nil).Once()

	extra := []models.Product{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	mockRepo.On("List", models.ProductQuery{
		ExcludeIDs: []string{"boots", "shirt"},
		SortBy:     "created_at", SortOrder: "desc", Page: 1, PerPage: 4,
	}).Return(extra, int64(10), nil).Once()

	products, message, err := service.Recommendations("u-1")
	require.NoError(t, err)
	assert.Len(t, products, 6)
	assert.Equal(t, "boots", products[0].ID)
	assert.Equal(t, "Personalized recommendations based on style profile", message)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ProductWithStyleMatch(t *testing.T) {
	mockRepo := new(MockProductRepository)
	profiles := new(MockStyleProfileRepository)
	service := newProductService(mockRepo, profiles)

	boots := &models.Product{ID: "boots", Price: 129.99, Categories: []string{"footwear", "formal"}, Attributes: map[string]string{"color": "black"}}
	mockRepo.On("GetByID", "boots").Return(boots, nil)

	profiles.On("GetByUserID", "styled").Return(&models.StyleProfile{Preferences: map[string]string{"occasion": "formal", "color_palette": "neutrals"}}, nil).Once()
	product, match, err := service.ProductWithStyleMatch("boots", "styled")
	require.NoError(t, err)
	assert.Equal(t, boots, product)
	assert.True(t, match.HasStyleProfile)
	assert.Equal(t, 50, match.MatchScore)
	assert.Len(t, match.MatchReasons, 2)

	profiles.On("GetByUserID", "plain").Return(nil, notFound("profile")).Once()
	_, match, err = service.ProductWithStyleMatch("boots", "plain")
	require.NoError(t, err)
	assert.False(t, match.HasStyleProfile)
	assert.Zero(t, match.MatchScore)

	profiles.On("GetByUserID", "broken").Return(nil, errors.New("db down")).Once()
	_, _, err = service.ProductWithStyleMatch("boots", "broken")
	assert.Error(t, err)
}
