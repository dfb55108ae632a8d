package services

import (
	"errors"

	"personashop/internal/cart"
	"personashop/internal/style"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("order status change not allowed")
	ErrForbidden          = errors.New("forbidden")

	ErrInvalidQuantity    = cart.ErrInvalidQuantity
	ErrCartItemNotFound   = cart.ErrItemNotFound
	ErrInvalidPreferences = style.ErrInvalidPreferences
)
