package knowledge

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) error {
	t.Helper()
	return os.WriteFile(path, []byte(content), 0o644)
}

func testMatcher(t *testing.T) *ConditionMatcher {
	t.Helper()
	return NewConditionMatcher(testStore(t), nil)
}

func TestMatchByName(t *testing.T) {
	m := testMatcher(t)
	c := m.Match("I think I might have Psoriasis on my elbows")
	require.NotNil(t, c)
	assert.Equal(t, "Psoriasis", c.Name)
}

func TestMatchByKeywordBeatsFuzzy(t *testing.T) {
	m := testMatcher(t)
	// "itchy" is an Eczema keyword; the record must come from the keyword
	// scan, not the fuzzy fallback, even with "eczema" misspelled away.
	c := m.Match("itchy red patches, eczma flare")
	require.NotNil(t, c)
	assert.Equal(t, "Eczema", c.Name)
}

func TestMatchStoreOrderFirstWins(t *testing.T) {
	doc := Document{
		Conditions: []ConditionRecord{
			{
				Name: "First", Description: "first record",
				Symptoms: []string{"s"}, Keywords: []string{"shared-term"},
				Treatments: Treatments{Topical: []string{"t"}},
			},
			{
				Name: "Second", Description: "second record",
				Symptoms: []string{"s"}, Keywords: []string{"shared-term"},
				Treatments: Treatments{Topical: []string{"t"}},
			},
		},
		GeneralAdvice: GeneralAdvice{DailyCare: []string{"care"}},
		DiagnosticTools: DiagnosticTools{MolesABCDE: map[string]string{
			"A": "a", "B": "b", "C": "c", "D": "d", "E": "e",
		}},
	}
	store, err := NewStore(doc)
	require.NoError(t, err)
	m := NewConditionMatcher(store, nil)

	c := m.Match("I noticed a shared-term thing")
	require.NotNil(t, c)
	assert.Equal(t, "First", c.Name)
}

func TestMatchFuzzyFallback(t *testing.T) {
	m := testMatcher(t)
	c := m.Match("exzema")
	require.NotNil(t, c)
	assert.Equal(t, "Eczema", c.Name)

	assert.Nil(t, m.Match("completely unrelated question about nothing dermatological"))
	assert.Nil(t, m.Match(""))
}

func TestIsEmergency(t *testing.T) {
	assert.True(t, IsEmergency("I have trouble breathing and a rash"))
	assert.True(t, IsEmergency("HIGH FEVER since last night"))
	assert.True(t, IsEmergency("the rash is rapid spreading"))
	assert.False(t, IsEmergency("a mild itch on my arm"))
	assert.False(t, IsEmergency(""))
}

func TestIsOffTopic(t *testing.T) {
	assert.True(t, IsOffTopic("what do you think about politics?"))
	assert.True(t, IsOffTopic("Did you watch the football game"))
	assert.True(t, IsOffTopic("should I buy crypto"))
	// Whole-word boundaries: "sunspots" is on-topic despite containing
	// no boundary-separated topic word.
	assert.False(t, IsOffTopic("I have sunspots on my shoulder"))
	assert.False(t, IsOffTopic("my skin is peeling after sunburn"))
}

func TestLevenshteinSimilarity(t *testing.T) {
	s := LevenshteinSimilarity{}
	assert.InDelta(t, 1.0, s.Similarity("eczema", "eczema"), 1e-9)
	assert.Greater(t, s.Similarity("eczema", "exzema"), 0.6)
	assert.Less(t, s.Similarity("eczema", "zzzzzz"), 0.2)
}
