package knowledge

import (
	"regexp"
	"strings"
)

// fuzzyCutoff is the minimum normalized similarity for a whole-input
// closest-name match. Below it the matcher reports no result rather than
// guessing.
const fuzzyCutoff = 0.6

// emergencyTerms are matched as literal substrings of the lowercased
// input. Any hit routes the conversation to the emergency advisory before
// condition matching runs.
var emergencyTerms = []string{
	"trouble breathing",
	"swelling face",
	"high fever",
	"severe pain",
	"rapid spreading",
	"skin peeling",
}

// offTopicPatterns match whole words only, so "sports" deflects while
// "sunspots" does not.
var offTopicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(politics|politician|election|government)\b`),
	regexp.MustCompile(`\b(sport|sports|football|soccer|cricket|basketball)\b`),
	regexp.MustCompile(`\b(celebrity|celebrities|actor|actress|singer)\b`),
	regexp.MustCompile(`\b(finance|stocks?|crypto|bitcoin|investment)\b`),
	regexp.MustCompile(`\b(movie|movies|film|films|netflix)\b`),
}

// ConditionMatcher maps free text to a knowledge-store record. It only
// reads the store and is safe for concurrent use.
type ConditionMatcher struct {
	store *Store
	fuzzy StringSimilarity
}

// NewConditionMatcher builds a matcher over the given store. A nil fuzzy
// strategy falls back to normalized Levenshtein similarity.
func NewConditionMatcher(store *Store, fuzzy StringSimilarity) *ConditionMatcher {
	if fuzzy == nil {
		fuzzy = LevenshteinSimilarity{}
	}
	return &ConditionMatcher{store: store, fuzzy: fuzzy}
}

// Match resolves free text to a condition record, or nil when nothing
// fits. Conditions are scanned in document order and the first hit wins:
// a record matches when its name appears in the text or any of its
// keywords does. Only when the whole scan fails does the matcher fall
// back to a closest-name fuzzy comparison over the entire input.
func (m *ConditionMatcher) Match(text string) *ConditionRecord {
	text = normalizeText(text)
	if text == "" {
		return nil
	}
	conditions := m.store.Conditions()
	for i := range conditions {
		c := &conditions[i]
		if strings.Contains(text, strings.ToLower(c.Name)) {
			return c
		}
		for _, kw := range c.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				return c
			}
		}
	}
	return m.closestByName(text)
}

// closestByName compares the whole input against each condition name and
// returns the best scorer at or above the cutoff.
func (m *ConditionMatcher) closestByName(text string) *ConditionRecord {
	conditions := m.store.Conditions()
	var best *ConditionRecord
	bestScore := fuzzyCutoff
	for i := range conditions {
		c := &conditions[i]
		score := m.fuzzy.Similarity(text, strings.ToLower(c.Name))
		if score > bestScore || (best == nil && score == bestScore) {
			best = c
			bestScore = score
		}
	}
	return best
}

// IsEmergency reports whether the text contains any emergency phrase.
func IsEmergency(text string) bool {
	return containsAny(normalizeText(text), emergencyTerms)
}

// IsOffTopic reports whether the text is about one of the deflected
// topics rather than skin health.
func IsOffTopic(text string) bool {
	lowered := normalizeText(text)
	for _, pattern := range offTopicPatterns {
		if pattern.MatchString(lowered) {
			return true
		}
	}
	return false
}
