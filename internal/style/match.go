package style

import (
	"personashop/internal/models"
)

const (
	matchPoints   = 25
	maxMatchScore = 100
)

type occasionRule struct {
	categories []string
	reason     string
}

var occasionRules = map[string]occasionRule{
	"formal":   {[]string{"formal", "business"}, "Matches your formal style preference"},
	"casual":   {[]string{"casual", "everyday"}, "Perfect for your casual style"},
	"work":     {[]string{"business", "formal"}, "Suits your professional wardrobe"},
	"athletic": {[]string{"athletic", "sports"}, "Ready for your active lifestyle"},
}

type paletteRule struct {
	colors []string
	reason string
}

var paletteRules = map[string]paletteRule{
	"neutrals":    {[]string{"black", "white", "gray", "beige"}, "Fits your neutral color palette"},
	"earth_tones": {[]string{"brown", "olive", "rust"}, "Complements your earth tone preference"},
	"bold_colors": {[]string{"red", "blue", "yellow"}, "Stands out like your bold color choices"},
	"pastels":     {[]string{"pink", "baby blue", "mint"}, "Matches your soft pastel palette"},
}

func budgetMatch(budget string, price float64) (string, bool) {
	switch budget {
	case "budget":
		return "Within your budget-friendly range", price < 50
	case "mid_range":
		return "Sits in your mid-range budget", price >= 50 && price <= 120
	case "premium":
		return "A premium piece for your high-end taste", price > 120
	}
	return "", false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Match scores product against profile. Each satisfied rule adds 25 points
// and a reason; the score never exceeds 100.
func Match(profile *models.StyleProfile, product models.Product) models.StyleMatch {
	match := models.StyleMatch{MatchReasons: []string{}}
	if profile == nil || len(profile.Preferences) == 0 {
		return match
	}
	match.HasStyleProfile = true
	prefs := profile.Preferences

	if rule, ok := occasionRules[prefs["occasion"]]; ok && product.HasCategory(rule.categories...) {
		match.MatchScore += matchPoints
		match.MatchReasons = append(match.MatchReasons, rule.reason)
	}
	if rule, ok := paletteRules[prefs["color_palette"]]; ok && contains(rule.colors, product.Color()) {
		match.MatchScore += matchPoints
		match.MatchReasons = append(match.MatchReasons, rule.reason)
	}
	if reason, ok := budgetMatch(prefs["budget"], product.Price); ok {
		match.MatchScore += matchPoints
		match.MatchReasons = append(match.MatchReasons, reason)
	}

	if match.MatchScore > maxMatchScore {
		match.MatchScore = maxMatchScore
	}
	return match
}

// Filters returns the categories and colours that recommendations for prefs
// should draw from. Either may be empty.
func Filters(prefs map[string]string) (categories, colors []string) {
	if rule, ok := occasionRules[prefs["occasion"]]; ok {
		categories = append(categories, rule.categories...)
	}
	if rule, ok := paletteRules[prefs["color_palette"]]; ok {
		colors = append(colors, rule.colors...)
	}
	return categories, colors
}
