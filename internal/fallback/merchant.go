package fallback

import (
	"regexp"
	"strings"
)

var merchantPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^([A-Z\s&]+)\s+\d+`),                  // MERCHANT NAME followed by numbers
	regexp.MustCompile(`^([A-Z][A-Za-z\s&]+?)(?:\s+\d|\s*$)`), // capitalized leading phrase
	regexp.MustCompile(`([A-Z]{2,}(?:\s+[A-Z]{2,})*)`),        // all-caps word runs
}

// extractMerchant pulls a merchant name out of a description with ordered
// regex heuristics; when nothing matches it falls back to the first three
// words, truncated to 20 characters.
func extractMerchant(description string) string {
	desc := strings.TrimSpace(description)

	for _, pattern := range merchantPatterns {
		groups := pattern.FindStringSubmatch(desc)
		if groups != nil && len(strings.TrimSpace(groups[1])) > 2 {
			return strings.TrimSpace(groups[1])
		}
	}

	words := strings.Fields(desc)
	if len(words) > 3 {
		words = words[:3]
	}
	joined := strings.Join(words, " ")
	if len(joined) > 20 {
		return joined[:20] + "..."
	}
	return joined
}
