package models

import "time"

// Product represents an item in the catalogue.
type Product struct {
	ID          string            `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string            `json:"name" gorm:"type:varchar(100);index" validate:"required,min=3,max=100"`
	Description string            `json:"description" validate:"omitempty,max=500"`
	Price       float64           `json:"price" gorm:"index" validate:"required,gt=0"`
	ImageURL    string            `json:"image_url" validate:"omitempty,url"`
	Categories  []string          `json:"categories" gorm:"type:text;serializer:json"`
	Attributes  map[string]string `json:"attributes" gorm:"type:text;serializer:json"`
	Stock       int               `json:"stock" validate:"gte=0"`
	CreatedAt   time.Time         `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Color returns the product's colour attribute, or "" when unset.
func (p Product) Color() string {
	if p.Attributes == nil {
		return ""
	}
	return p.Attributes["color"]
}

// HasCategory reports whether the product is tagged with any of the given categories.
func (p Product) HasCategory(categories ...string) bool {
	for _, have := range p.Categories {
		for _, want := range categories {
			if have == want {
				return true
			}
		}
	}
	return false
}

// ProductQuery describes a filtered, sorted and paginated catalogue listing.
type ProductQuery struct {
	Category   string
	Categories []string // any of
	Colors     []string // any of
	MinPrice   *float64
	MaxPrice   *float64
	Search     string
	ExcludeIDs []string
	SortBy     string
	SortOrder  string
	Page       int
	PerPage    int
}

// Offset returns the number of rows skipped for the query's page.
func (q ProductQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.PerPage
}

// ProductPage is one page of a catalogue listing.
type ProductPage struct {
	Products      []Product `json:"products"`
	Page          int       `json:"page"`
	PerPage       int       `json:"per_page"`
	TotalProducts int64     `json:"total_products"`
	TotalPages    int       `json:"total_pages"`
}
