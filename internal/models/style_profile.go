package models

import "time"

// StyleAnalysis is the generated description of a shopper's style preferences.
type StyleAnalysis struct {
	Description string     `json:"description"`
	Keywords    []string   `json:"keywords,omitempty"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// StyleProfile records a shopper's questionnaire answers and their analysis.
type StyleProfile struct {
	ID          string            `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID      string            `json:"user_id" gorm:"type:varchar(36);uniqueIndex"`
	Preferences map[string]string `json:"preferences" gorm:"type:text;serializer:json"`
	Analysis    StyleAnalysis     `json:"ai_analysis" gorm:"type:text;serializer:json"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// StyleMatch describes how well a product fits a style profile.
type StyleMatch struct {
	HasStyleProfile bool     `json:"has_style_profile"`
	MatchScore      int      `json:"match_score"`
	MatchReasons    []string `json:"match_reasons"`
}
