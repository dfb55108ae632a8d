package handlers

import (
	"fmt"
	"strconv"

	"personashop/internal/middleware"
	"personashop/internal/models"
	"personashop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the catalogue.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, validate *validator.Validate, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

// RegisterRoutes registers the product routes. Browsing is public,
// recommendations and style matching need auth and catalogue writes are
// reserved for admins.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/list", h.HandleListProducts)
	productRoutes.Get("/categories", h.HandleCategories)
	productRoutes.Get("/recommendations", auth, h.HandleRecommendations)
	productRoutes.Get("/:id/with-style-match", auth, h.HandleProductWithStyleMatch)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", auth, admin, h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, admin, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, admin, h.HandleDeleteProduct)
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &v, nil
}

func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

func parseProductQuery(c *fiber.Ctx) (models.ProductQuery, error) {
	q := models.ProductQuery{
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sort_by", "created_at"),
		SortOrder: c.Query("sort_order", "desc"),
	}
	var err error
	if q.MinPrice, err = queryFloat(c, "min_price"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = queryFloat(c, "max_price"); err != nil {
		return q, err
	}
	if q.Page, err = queryInt(c, "page", 1); err != nil {
		return q, err
	}
	if q.PerPage, err = queryInt(c, "per_page", 12); err != nil {
		return q, err
	}
	return q, nil
}

// HandleListProducts returns one page of the filtered catalogue.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	q, err := parseProductQuery(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters", err)
	}
	page, err := h.service.ListProducts(q)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve products", err)
	}
	return c.JSON(page)
}

// HandleCategories returns every distinct category.
func (h *ProductHandler) HandleCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories()
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve categories", err)
	}
	return c.JSON(fiber.Map{"categories": categories})
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Product not found", err)
	}
	return c.JSON(fiber.Map{"product": product})
}

// HandleRecommendations returns products suited to the user's style profile.
func (h *ProductHandler) HandleRecommendations(c *fiber.Ctx) error {
	products, message, err := h.service.Recommendations(middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not build recommendations", err)
	}
	return c.JSON(fiber.Map{
		"products": products,
		"message":  message,
	})
}

// HandleProductWithStyleMatch returns a product and its match against the
// user's style profile.
func (h *ProductHandler) HandleProductWithStyleMatch(c *fiber.Ctx) error {
	product, match, err := h.service.ProductWithStyleMatch(c.Params("id"), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "Product not found", err)
	}
	return c.JSON(fiber.Map{
		"product":     product,
		"style_match": match,
	})
}

// HandleCreateProduct adds a product to the catalogue.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	product.ID = ""
	if err := h.validate.Struct(product); err != nil {
		return validationFailed(c, err)
	}
	if err := h.service.CreateProduct(&product); err != nil {
		return respondError(c, h.logger, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": product})
}

// HandleUpdateProduct replaces an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	product.ID = c.Params("id")
	if err := h.validate.Struct(product); err != nil {
		return validationFailed(c, err)
	}
	if err := h.service.UpdateProduct(&product); err != nil {
		return respondError(c, h.logger, "Could not update product", err)
	}
	updated, err := h.service.GetProductByID(product.ID)
	if err != nil {
		return respondError(c, h.logger, "Could not load updated product", err)
	}
	return c.JSON(fiber.Map{"product": updated})
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return respondError(c, h.logger, "Could not delete product", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
