package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"personashop/internal/cache"
	"personashop/internal/models"
	"personashop/internal/repositories"
	"personashop/internal/style"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	defaultPerPage       = 12
	maxPerPage           = 100
	recommendationCount  = 6
	categoriesCacheKey   = "catalog:categories"
	categoriesCacheTTL   = 5 * time.Minute
	defaultRecommendText = "Default recommendations (no style profile)"
	personalizedText     = "Personalized recommendations based on style profile"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	profiles repositories.StyleProfileRepository
	store    fiber.Storage
	logger   *zap.Logger
}

// NewProductService creates a new ProductService. store caches the category list.
func NewProductService(repo repositories.ProductRepository, profiles repositories.StyleProfileRepository, store fiber.Storage, logger *zap.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		profiles: profiles,
		store:    store,
		logger:   logger,
	}
}

// normalizeQuery applies listing defaults and clamps out-of-range values.
func normalizeQuery(q models.ProductQuery) models.ProductQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	switch q.SortBy {
	case "created_at", "price", "name":
	default:
		q.SortBy = "created_at"
	}
	if q.SortOrder != "asc" {
		q.SortOrder = "desc"
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)
	return q
}

// ListProducts returns one page of the filtered catalogue.
func (s *ProductService) ListProducts(q models.ProductQuery) (*models.ProductPage, error) {
	q = normalizeQuery(q)
	products, total, err := s.repo.List(q)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	pages := int((total + int64(q.PerPage) - 1) / int64(q.PerPage))
	return &models.ProductPage{
		Products:      products,
		Page:          q.Page,
		PerPage:       q.PerPage,
		TotalProducts: total,
		TotalPages:    pages,
	}, nil
}

// Categories returns the distinct product categories, served from the cache
// when possible.
func (s *ProductService) Categories() ([]string, error) {
	var categories []string
	if ok, err := cache.GetJSON(s.store, categoriesCacheKey, &categories); err != nil {
		s.logger.Warn("Failed to read cached categories", zap.Error(err))
	} else if ok {
		return categories, nil
	}

	categories, err := s.repo.Categories()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(s.store, categoriesCacheKey, categories, categoriesCacheTTL); err != nil {
		s.logger.Warn("Failed to cache categories", zap.Error(err))
	}
	return categories, nil
}

func (s *ProductService) invalidateCategories() {
	if err := s.store.Delete(categoriesCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate cached categories", zap.Error(err))
	}
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.invalidateCategories()
	s.logger.Info("Product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return nil
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.invalidateCategories()
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidateCategories()
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

// styleProfile returns the user's profile, or nil when they have none.
func (s *ProductService) styleProfile(userID string) (*models.StyleProfile, error) {
	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(profile.Preferences) == 0 {
		return nil, nil
	}
	return profile, nil
}

// Recommendations returns up to six products for the user and a message
// describing how they were chosen.
func (s *ProductService) Recommendations(userID string) ([]models.Product, string, error) {
	profile, err := s.styleProfile(userID)
	if err != nil {
		return nil, "", err
	}

	newest := models.ProductQuery{SortBy: "created_at", SortOrder: "desc", Page: 1, PerPage: recommendationCount}
	if profile == nil {
		products, _, err := s.repo.List(newest)
		if err != nil {
			return nil, "", err
		}
		return nonNil(products), defaultRecommendText, nil
	}

	categories, colors := style.Filters(profile.Preferences)
	matched, _, err := s.repo.List(models.ProductQuery{
		Categories: categories,
		Colors:     colors,
		SortBy:     "created_at",
		SortOrder:  "desc",
		Page:       1,
		PerPage:    recommendationCount,
	})
	if err != nil {
		return nil, "", err
	}

	if missing := recommendationCount - len(matched); missing > 0 {
		exclude := make([]string, len(matched))
		for i, p := range matched {
			exclude[i] = p.ID
		}
		newest.PerPage = missing
		newest.ExcludeIDs = exclude
		extra, _, err := s.repo.List(newest)
		if err != nil {
			return nil, "", err
		}
		matched = append(matched, extra...)
	}
	return nonNil(matched), personalizedText, nil
}

// ProductWithStyleMatch returns the product and how well it suits the user's
// style profile.
func (s *ProductService) ProductWithStyleMatch(productID, userID string) (*models.Product, models.StyleMatch, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return nil, models.StyleMatch{}, err
	}
	profile, err := s.styleProfile(userID)
	if err != nil {
		return nil, models.StyleMatch{}, fmt.Errorf("failed to load style profile: %w", err)
	}
	return product, style.Match(profile, *product), nil
}

func nonNil(products []models.Product) []models.Product {
	if products == nil {
		return []models.Product{}
	}
	return products
}
