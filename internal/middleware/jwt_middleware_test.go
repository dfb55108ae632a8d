package middleware_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"personashop/internal/middleware"
	"personashop/internal/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeValidator map[string]jwt.MapClaims

func (f fakeValidator) ValidateToken(token string) (jwt.MapClaims, error) {
	claims, ok := f[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func newApp() *fiber.App {
	validator := fakeValidator{"good": {"user_id": "u-1", "username": "ada"}}
	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(validator, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(middleware.UserID(c) + ":" + middleware.Claims(c)["username"].(string))
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	app := newApp()

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header is required"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "header format must be"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "Invalid or expired token"},
		{"valid token", "Bearer good", http.StatusOK, "u-1:ada"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestAdminRequired(t *testing.T) {
	validator := fakeValidator{
		"shopper": {"user_id": "u-1", "username": "ada", "role": "customer"},
		"legacy":  {"user_id": "u-2", "username": "bob"},
		"staff":   {"user_id": "u-3", "username": "cy", "role": models.RoleAdmin},
	}
	app := fiber.New()
	app.Delete("/products/:id",
		middleware.AuthRequired(validator, zap.NewNop()),
		middleware.AdminRequired(zap.NewNop()),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusNoContent)
		})

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"customer role", "shopper", http.StatusForbidden},
		{"token without role", "legacy", http.StatusForbidden},
		{"admin role", "staff", http.StatusNoContent},
		{"unauthenticated", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/products/p-1", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusForbidden {
				body, _ := io.ReadAll(resp.Body)
				assert.Contains(t, string(body), "Admin access required")
			}
		})
	}
}
