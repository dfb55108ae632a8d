package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"personashop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var sortColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"name":       "name",
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database, newest first.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("created_at desc").Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product with ID %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: product with ID %s already exists", ErrConflict, product.ID)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites every column of an existing product except created_at.
func (r *GORMProductRepository) Update(product *models.Product) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product with ID %s", ErrNotFound, product.ID)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id string) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product with ID %s", ErrNotFound, id)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// contains builds a LIKE pattern matching fragment literally anywhere in the
// column. Callers must use likeClause so the escape character is honoured.
func contains(fragment string) string {
	return "%" + likeEscaper.Replace(fragment) + "%"
}

func likeClause(column string) string {
	return column + ` LIKE ? ESCAPE '\'`
}

func quoted(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func (r *GORMProductRepository) filtered(q models.ProductQuery) *gorm.DB {
	tx := r.db.Model(&models.Product{})

	if q.Category != "" {
		tx = tx.Where(likeClause("categories"), contains(quoted(q.Category)))
	}
	if len(q.Categories) > 0 {
		group := r.db.Where(likeClause("categories"), contains(quoted(q.Categories[0])))
		for _, c := range q.Categories[1:] {
			group = group.Or(likeClause("categories"), contains(quoted(c)))
		}
		tx = tx.Where(group)
	}
	if len(q.Colors) > 0 {
		group := r.db.Where(likeClause("attributes"), contains(`"color":`+quoted(q.Colors[0])))
		for _, c := range q.Colors[1:] {
			group = group.Or(likeClause("attributes"), contains(`"color":`+quoted(c)))
		}
		tx = tx.Where(group)
	}
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		pattern := contains(strings.ToLower(s))
		tx = tx.Where(r.db.Where(likeClause("LOWER(name)"), pattern).Or(likeClause("LOWER(description)"), pattern))
	}
	if len(q.ExcludeIDs) > 0 {
		tx = tx.Where("id NOT IN ?", q.ExcludeIDs)
	}
	return tx
}

// List returns the products matching q, sorted and paginated, together with
// the number of products matching the filters.
func (r *GORMProductRepository) List(q models.ProductQuery) ([]models.Product, int64, error) {
	var total int64
	if err := r.filtered(q).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "desc"
	if q.SortOrder == "asc" {
		direction = "asc"
	}

	tx := r.filtered(q).Order(column + " " + direction).Order("id")
	if q.PerPage > 0 {
		tx = tx.Limit(q.PerPage).Offset(q.Offset())
	}

	var products []models.Product
	if err := tx.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// Categories returns every distinct category in the catalogue, sorted.
func (r *GORMProductRepository) Categories() ([]string, error) {
	var products []models.Product
	if err := r.db.Select("id", "categories").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range products {
		for _, c := range p.Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// AdjustStock adds delta to the product's stock in a single conditional update.
func (r *GORMProductRepository) AdjustStock(id string, delta int) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return fmt.Errorf("failed to adjust stock for product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(id); err != nil {
			return err
		}
		return fmt.Errorf("%w: insufficient stock for product %s", ErrConflict, id)
	}
	return nil
}
