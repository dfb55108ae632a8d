package style

import (
	"context"
	"sort"
	"strings"
	"time"

	"personashop/internal/models"
)

// FallbackDescription is stored when no analysis could be generated.
const FallbackDescription = "Unable to generate style analysis at this time."

const systemInstruction = "You are a professional fashion stylist and personal shopper with expertise in analyzing style preferences."

var keywordVocabulary = []string{
	"casual", "formal", "bohemian", "preppy", "vintage", "minimalist",
	"classic", "edgy", "streetwear", "elegant", "sophisticated",
	"athletic", "sporty", "comfortable", "trendy", "conservative",
}

var fallbackKeywords = []string{"personalized", "balanced", "thoughtful"}

const maxKeywords = 5

// Analyzer turns an analysis prompt into free text.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

// orderedKeys lists questionnaire categories first, in questionnaire order,
// then any other keys alphabetically.
func orderedKeys(prefs map[string]string) []string {
	keys := make([]string, 0, len(prefs))
	seen := make(map[string]bool, len(prefs))
	for _, q := range questionnaire {
		if _, ok := prefs[q.ID]; ok {
			keys = append(keys, q.ID)
			seen[q.ID] = true
		}
	}
	var rest []string
	for k := range prefs {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func titleCase(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// Prompt builds the analysis request for a set of answers.
func Prompt(prefs map[string]string) string {
	var b strings.Builder
	b.WriteString("Based on the following style preferences, provide a comprehensive analysis of this person's style profile:\n\n")
	for _, k := range orderedKeys(prefs) {
		b.WriteString("- ")
		b.WriteString(titleCase(k))
		b.WriteString(": ")
		b.WriteString(prefs[k])
		b.WriteString("\n")
	}
	b.WriteString("\nPlease provide:\n")
	b.WriteString("1. A summary of their overall style aesthetic\n")
	b.WriteString("2. Key style elements that define their look\n")
	b.WriteString("3. Recommendations for clothing items and accessories\n")
	b.WriteString("4. Color palette suggestions\n")
	b.WriteString("5. Brands or stores that would match their style\n")
	return b.String()
}

// ExtractKeywords scans text for known style words. Fewer than three hits
// yield a generic set; at most five are returned.
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, word := range keywordVocabulary {
		if strings.Contains(lower, word) {
			found = append(found, word)
		}
	}
	if len(found) < 3 {
		return append([]string(nil), fallbackKeywords...)
	}
	if len(found) > maxKeywords {
		found = found[:maxKeywords]
	}
	return found
}

// Analyze produces the stored analysis for prefs. A nil analyzer or a failed
// call yields the fallback analysis carrying the error text.
func Analyze(ctx context.Context, analyzer Analyzer, prefs map[string]string, now time.Time) models.StyleAnalysis {
	if analyzer == nil {
		return models.StyleAnalysis{Description: FallbackDescription, Error: "style analysis is not configured"}
	}
	text, err := analyzer.Analyze(ctx, Prompt(prefs))
	if err != nil {
		return models.StyleAnalysis{Description: FallbackDescription, Error: err.Error()}
	}
	generated := now.UTC()
	return models.StyleAnalysis{
		Description: text,
		Keywords:    ExtractKeywords(text),
		GeneratedAt: &generated,
	}
}
