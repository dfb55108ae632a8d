package handlers

import (
	"personashop/internal/middleware"
	"personashop/internal/models"
	"personashop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, validate *validator.Validate, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validate,
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes. throttle guards the
// credential endpoints and auth the ones that need a signed-in user.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, throttle, auth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", throttle, h.HandleRegister)
	authRoutes.Post("/login", throttle, h.HandleLogin)
	authRoutes.Get("/profile", auth, h.HandleProfile)
	authRoutes.Post("/logout", auth, h.HandleLogout)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	user := models.User{Username: req.Username, Email: req.Email, Password: req.Password}
	if err := h.authService.RegisterUser(&user); err != nil {
		return respondError(c, h.logger, "Registration failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user.Sanitized(),
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationFailed(c, err)
	}

	token, user, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		return respondError(c, h.logger, "Invalid email or password", err)
	}

	return c.JSON(fiber.Map{
		"message":  "Login successful",
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// HandleProfile returns the signed-in user.
func (h *AuthHandler) HandleProfile(c *fiber.Ctx) error {
	user, err := h.authService.GetProfile(middleware.UserID(c))
	if err != nil {
		return respondError(c, h.logger, "User not found", err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// HandleLogout revokes the token used for the request.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if err := h.authService.RevokeToken(middleware.Claims(c)); err != nil {
		return respondError(c, h.logger, "Logout failed", err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}
