package repositories

import "personashop/internal/models"

// UserRepository defines the interface for user data access. Lookups of
// unknown users return an error wrapping ErrNotFound.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	// GetByID also loads the user's style profile, when there is one.
	GetByID(id string) (*models.User, error)
	UpdateRole(email, role string) error
}
