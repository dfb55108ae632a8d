// Package seed fills an empty catalogue with the starter collection.
package seed

import (
	"fmt"
	"time"

	"personashop/internal/models"
	"personashop/internal/repositories"

	"go.uber.org/zap"
)

// Products returns the starter catalogue. CreatedAt is staggered so that the
// first product is the oldest.
func Products() []models.Product {
	unisex := func(color, material string) map[string]string {
		return map[string]string{"color": color, "material": material, "gender": "unisex"}
	}
	products := []models.Product{
		{Name: "Classic White Shirt", Description: "A timeless white button-up shirt suitable for any formal occasion.", Price: 49.99, ImageURL: "https://example.com/white-shirt.jpg", Categories: []string{"clothing", "formal", "shirts"}, Attributes: unisex("white", "cotton"), Stock: 40},
		{Name: "Navy Blue Blazer", Description: "A sophisticated navy blazer that adds polish to any outfit.", Price: 129.99, ImageURL: "https://example.com/navy-blazer.jpg", Categories: []string{"clothing", "formal", "outerwear"}, Attributes: unisex("navy", "wool"), Stock: 15},
		{Name: "Black Slim-Fit Jeans", Description: "Modern slim-fit jeans in classic black.", Price: 59.99, ImageURL: "https://example.com/black-jeans.jpg", Categories: []string{"clothing", "casual", "jeans"}, Attributes: unisex("black", "denim"), Stock: 35},
		{Name: "Beige Chino Pants", Description: "Versatile chino pants perfect for casual and business-casual settings.", Price: 45.99, ImageURL: "https://example.com/beige-chinos.jpg", Categories: []string{"clothing", "casual", "pants"}, Attributes: unisex("beige", "cotton"), Stock: 30},
		{Name: "Gray Cashmere Sweater", Description: "Luxurious cashmere sweater for unmatched comfort and warmth.", Price: 149.99, ImageURL: "https://example.com/gray-sweater.jpg", Categories: []string{"clothing", "casual", "knitwear"}, Attributes: unisex("gray", "cashmere"), Stock: 12},
		{Name: "Brown Leather Belt", Description: "Classic brown leather belt with a timeless buckle design.", Price: 35.99, ImageURL: "https://example.com/brown-belt.jpg", Categories: []string{"accessories", "belts"}, Attributes: unisex("brown", "leather"), Stock: 50},
		{Name: "Minimalist Watch", Description: "Sleek minimalist watch with a black leather strap.", Price: 89.99, ImageURL: "https://example.com/minimalist-watch.jpg", Categories: []string{"accessories", "watches"}, Attributes: unisex("black", "leather"), Stock: 20},
		{Name: "Canvas Tote Bag", Description: "Sturdy canvas tote for everyday use.", Price: 29.99, ImageURL: "https://example.com/tote-bag.jpg", Categories: []string{"accessories", "bags"}, Attributes: unisex("natural", "canvas"), Stock: 60},
		{Name: "White Sneakers", Description: "Clean, minimal white sneakers that go with everything.", Price: 79.99, ImageURL: "https://example.com/white-sneakers.jpg", Categories: []string{"footwear", "casual", "sneakers"}, Attributes: unisex("white", "leather"), Stock: 25},
		{Name: "Black Chelsea Boots", Description: "Classic Chelsea boots that transition seamlessly from day to night.", Price: 129.99, ImageURL: "https://example.com/chelsea-boots.jpg", Categories: []string{"footwear", "formal", "boots"}, Attributes: unisex("black", "leather"), Stock: 18},
		{Name: "Wool Scarf", Description: "Soft wool scarf to add warmth and style to any outfit.", Price: 39.99, ImageURL: "https://example.com/wool-scarf.jpg", Categories: []string{"accessories", "scarves"}, Attributes: unisex("gray", "wool"), Stock: 45},
		{Name: "Leather Messenger Bag", Description: "Professional leather messenger bag with multiple compartments.", Price: 149.99, ImageURL: "https://example.com/messenger-bag.jpg", Categories: []string{"accessories", "bags", "formal"}, Attributes: unisex("brown", "leather"), Stock: 10},
	}

	base := time.Now().Add(-time.Duration(len(products)) * time.Minute)
	for i := range products {
		products[i].CreatedAt = base.Add(time.Duration(i) * time.Minute)
		products[i].UpdatedAt = products[i].CreatedAt
	}
	return products
}

// Catalogue inserts the starter products when the repository is empty and
// returns how many were created.
func Catalogue(repo repositories.ProductRepository, logger *zap.Logger) (int, error) {
	existing, err := repo.GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to inspect catalogue: %w", err)
	}
	if len(existing) > 0 {
		logger.Debug("Catalogue already populated, skipping seed", zap.Int("products", len(existing)))
		return 0, nil
	}

	products := Products()
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			return i, fmt.Errorf("failed to seed product %s: %w", products[i].Name, err)
		}
		logger.Debug("Seeded product", zap.String("name", products[i].Name), zap.String("id", products[i].ID))
	}
	logger.Info("Seeded catalogue", zap.Int("products", len(products)))
	return len(products), nil
}
