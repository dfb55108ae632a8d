// Package style holds the style questionnaire, the analysis of a shopper's
// answers and the rules that score products against a style profile.
package style

import (
	"errors"
	"fmt"
)

// ErrInvalidPreferences is returned for answers that do not fit the questionnaire.
var ErrInvalidPreferences = errors.New("invalid style preferences")

// Option is one selectable answer.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is one questionnaire category.
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []Option `json:"options"`
}

var questionnaire = []Question{
	{
		ID:       "occasion",
		Question: "What occasions do you typically dress for?",
		Options: []Option{
			{"casual", "Casual everyday wear"},
			{"work", "Work/Professional settings"},
			{"formal", "Formal events"},
			{"athletic", "Athletic/Sports activities"},
			{"mixed", "A mix of different occasions"},
		},
	},
	{
		ID:       "style_influence",
		Question: "Which style aesthetic appeals to you most?",
		Options: []Option{
			{"classic", "Classic and timeless"},
			{"trendy", "Modern and on-trend"},
			{"bohemian", "Bohemian/Artistic"},
			{"minimalist", "Minimalist/Simple"},
			{"vintage", "Vintage/Retro inspired"},
			{"streetwear", "Streetwear/Urban"},
		},
	},
	{
		ID:       "fit_preference",
		Question: "What type of fit do you prefer for your clothing?",
		Options: []Option{
			{"loose", "Loose/Relaxed fit"},
			{"regular", "Regular/Standard fit"},
			{"fitted", "Fitted/Tailored"},
			{"mixed", "Varies depending on item"},
		},
	},
	{
		ID:       "color_palette",
		Question: "What colors do you typically wear?",
		Options: []Option{
			{"neutrals", "Neutrals (black, white, gray, beige)"},
			{"earth_tones", "Earth tones (brown, olive, rust)"},
			{"bold_colors", "Bold colors (red, blue, yellow)"},
			{"pastels", "Pastels (light pink, baby blue, mint)"},
			{"varied", "Wide variety of colors"},
		},
	},
	{
		ID:       "budget",
		Question: "What is your typical budget for clothing items?",
		Options: []Option{
			{"budget", "Budget-friendly/Affordable"},
			{"mid_range", "Mid-range"},
			{"premium", "Premium/High-end"},
			{"mixed", "Mix of price points depending on item"},
		},
	},
	{
		ID:       "pattern_preference",
		Question: "Do you prefer patterns or solid colors?",
		Options: []Option{
			{"solids", "Mostly solid colors"},
			{"subtle_patterns", "Subtle patterns (small stripes, dots)"},
			{"bold_patterns", "Bold patterns (floral, geometric)"},
			{"mixed", "Mix of patterns and solids"},
		},
	},
	{
		ID:       "comfort_importance",
		Question: "How important is comfort in your clothing choices?",
		Options: []Option{
			{"very_important", "Very important - comfort first"},
			{"balanced", "Balance of comfort and style"},
			{"style_first", "Style comes first, willing to sacrifice some comfort"},
		},
	},
}

// Questionnaire returns the questions in the order they are asked.
func Questionnaire() []Question {
	out := make([]Question, len(questionnaire))
	for i, q := range questionnaire {
		q.Options = append([]Option(nil), q.Options...)
		out[i] = q
	}
	return out
}

func findQuestion(id string) (Question, bool) {
	for _, q := range questionnaire {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

func (q Question) hasOption(value string) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// ValidatePreferences checks that every question is answered exactly once
// with one of its options.
func ValidatePreferences(prefs map[string]string) error {
	if len(prefs) == 0 {
		return fmt.Errorf("%w: preferences are required", ErrInvalidPreferences)
	}
	for key, value := range prefs {
		q, ok := findQuestion(key)
		if !ok {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidPreferences, key)
		}
		if !q.hasOption(value) {
			return fmt.Errorf("%w: %q is not an option for %s", ErrInvalidPreferences, value, key)
		}
	}
	for _, q := range questionnaire {
		if _, ok := prefs[q.ID]; !ok {
			return fmt.Errorf("%w: %s is not answered", ErrInvalidPreferences, q.ID)
		}
	}
	return nil
}
