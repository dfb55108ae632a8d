package repositories

import (
	"personashop/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	// List returns the page of products matching q and the total match count.
	List(q models.ProductQuery) ([]models.Product, int64, error)
	Categories() ([]string, error)
	// AdjustStock adds delta to the product's stock, refusing to go below zero.
	AdjustStock(id string, delta int) error
}
