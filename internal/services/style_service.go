package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"personashop/internal/models"
	"personashop/internal/repositories"
	"personashop/internal/style"

	"go.uber.org/zap"
)

// StyleService stores questionnaire answers and their generated analysis.
type StyleService struct {
	profiles repositories.StyleProfileRepository
	analyzer style.Analyzer
	logger   *zap.Logger
	now      func() time.Time
}

// NewStyleService creates a new StyleService. analyzer may be nil, in which
// case every profile gets the fallback analysis.
func NewStyleService(profiles repositories.StyleProfileRepository, analyzer style.Analyzer, logger *zap.Logger) *StyleService {
	return &StyleService{
		profiles: profiles,
		analyzer: analyzer,
		logger:   logger,
		now:      time.Now,
	}
}

// Questionnaire returns the style questions and their options.
func (s *StyleService) Questionnaire() []style.Question {
	return style.Questionnaire()
}

// SaveProfile validates prefs, generates an analysis and stores the profile,
// replacing any earlier one.
func (s *StyleService) SaveProfile(ctx context.Context, userID string, prefs map[string]string) (*models.StyleProfile, error) {
	if err := style.ValidatePreferences(prefs); err != nil {
		return nil, err
	}

	analysis := style.Analyze(ctx, s.analyzer, prefs, s.now())
	if analysis.Error != "" {
		s.logger.Warn("Using fallback style analysis", zap.String("user_id", userID), zap.String("error", analysis.Error))
	}

	profile := &models.StyleProfile{
		UserID:      userID,
		Preferences: prefs,
		Analysis:    analysis,
	}
	if err := s.profiles.Upsert(profile); err != nil {
		return nil, fmt.Errorf("failed to save style profile: %w", err)
	}
	s.logger.Info("Style profile saved", zap.String("user_id", userID), zap.Strings("keywords", analysis.Keywords))
	return profile, nil
}

// GetProfile returns the user's style profile and whether one exists.
func (s *StyleService) GetProfile(userID string) (*models.StyleProfile, bool, error) {
	profile, err := s.profiles.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return profile, true, nil
}
