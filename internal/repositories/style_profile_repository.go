package repositories

import (
	"errors"
	"fmt"
	"time"

	"personashop/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StyleProfileRepository defines the interface for style profile data access.
type StyleProfileRepository interface {
	GetByUserID(userID string) (*models.StyleProfile, error)
	// Upsert creates the user's profile or replaces its preferences and analysis.
	Upsert(profile *models.StyleProfile) error
}

// GORMStyleProfileRepository is a GORM implementation of StyleProfileRepository.
type GORMStyleProfileRepository struct {
	db *gorm.DB
}

// NewGORMStyleProfileRepository creates a new instance of GORMStyleProfileRepository.
func NewGORMStyleProfileRepository(db *gorm.DB) *GORMStyleProfileRepository {
	return &GORMStyleProfileRepository{db: db}
}

// GetByUserID retrieves the style profile owned by userID.
func (r *GORMStyleProfileRepository) GetByUserID(userID string) (*models.StyleProfile, error) {
	var profile models.StyleProfile
	if err := r.db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: style profile for user %s", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get style profile for user %s: %w", userID, err)
	}
	return &profile, nil
}

// Upsert writes profile, keyed by its UserID. On return profile holds the
// stored ID and timestamps.
func (r *GORMStyleProfileRepository) Upsert(profile *models.StyleProfile) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.StyleProfile
		err := tx.First(&existing, "user_id = ?", profile.UserID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if profile.ID == "" {
				profile.ID = uuid.New().String()
			}
			if err := tx.Create(profile).Error; err != nil {
				return fmt.Errorf("failed to create style profile: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("failed to load style profile: %w", err)
		}

		existing.Preferences = profile.Preferences
		existing.Analysis = profile.Analysis
		existing.UpdatedAt = time.Now()
		if err := tx.Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to update style profile: %w", err)
		}
		*profile = existing
		return nil
	})
}
