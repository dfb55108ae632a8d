package handlers

import (
	"personashop/internal/cart"
	"personashop/internal/middleware"
	"personashop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler handles the signed-in user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCartHandler creates a CartHandler.
func NewCartHandler(service *services.CartService, validate *validator.Validate, logger *zap.Logger) *CartHandler {
	return &CartHandler{service: service, validate: validate, logger: logger}
}

// RegisterRoutes registers the cart routes behind auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:productId", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:productId", h.HandleRemoveItem)
}

func cartBody(c *cart.Cart) fiber.Map {
	return fiber.Map{
		"items": c.Items,
		"total": c.Total(),
		"count": c.Count(),
	}
}

// HandleGetCart returns the cart with its total and item count.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	current, err := h.service.GetCart(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve cart", err)
	}
	return c.JSON(cartBody(current))
}

// AddItemRequest is the body of POST /cart/items.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1"`
}

// HandleAddItem adds a product to the cart; quantity defaults to one.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	updated, err := h.service.AddItem(c.UserContext(), middleware.UserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, h.logger, "Could not add item to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(cartBody(updated))
}

// UpdateItemRequest is the body of PATCH /cart/items/:productId.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// HandleUpdateItem sets a line's quantity; zero or less removes it.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	updated, err := h.service.UpdateItemQuantity(c.UserContext(), middleware.UserID(c), c.Params("productId"), *req.Quantity)
	if err != nil {
		return respondError(c, h.logger, "Could not update cart item", err)
	}
	return c.JSON(cartBody(updated))
}

// HandleRemoveItem drops a product from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	updated, err := h.service.RemoveItem(c.UserContext(), middleware.UserID(c), c.Params("productId"))
	if err != nil {
		return respondError(c, h.logger, "Could not remove cart item", err)
	}
	return c.JSON(cartBody(updated))
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(c.UserContext(), middleware.UserID(c)); err != nil {
		return respondError(c, h.logger, "Could not clear cart", err)
	}
	return c.JSON(cartBody(cart.New(nil)))
}
