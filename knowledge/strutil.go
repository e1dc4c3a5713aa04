package knowledge

import (
	"strings"

	"github.com/agext/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// StringSimilarity scores how alike two strings are on a [0,1] scale.
// Pluggable so the matcher's cutoff and algorithm can be tuned and tested
// independently of its control flow.
type StringSimilarity interface {
	Similarity(a, b string) float64
}

// LevenshteinSimilarity scores strings by normalized edit distance.
type LevenshteinSimilarity struct{}

// Similarity returns 1 for identical strings and approaches 0 as more
// edits are needed to turn one into the other.
func (LevenshteinSimilarity) Similarity(a, b string) float64 {
	return levenshtein.Similarity(a, b, nil)
}

// normalizeText lowercases and NFKC-normalizes free text and collapses
// runs of whitespace, so matching is insensitive to composed characters
// and stray spacing.
func normalizeText(s string) string {
	s = norm.NFKC.String(s)
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(fields, " "))
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
