package knowledge

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) *Engine {
	t.Helper()
	store := testStore(t)
	return NewEngine(store, nil, rand.New(rand.NewSource(1)))
}

func TestRespondEmptyInput(t *testing.T) {
	e := testEngine(t)
	_, err := e.Respond("   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestRespondEmergencyPrecedence(t *testing.T) {
	e := testEngine(t)

	// "itchy" is an Eczema keyword, but the emergency phrase must win.
	reply, err := e.Respond("I have trouble breathing and an itchy rash")
	require.NoError(t, err)
	assert.Contains(t, reply, "Potential Medical Emergency")
	assert.NotContains(t, reply, "Eczema")

	plain, err := e.Respond("severe pain on my leg")
	require.NoError(t, err)
	assert.Equal(t, reply, plain, "emergency block is fixed text")
}

func TestRespondOffTopicDeflects(t *testing.T) {
	e := testEngine(t)
	reply, err := e.Respond("let's talk about politics")
	require.NoError(t, err)
	assert.Contains(t, deflections, reply)
}

func TestRespondConditionMatch(t *testing.T) {
	e := testEngine(t)
	reply, err := e.Respond("my psoriasis plaques are back")
	require.NoError(t, err)
	assert.Contains(t, reply, "**Psoriasis**")
	assert.Contains(t, reply, "*Common Symptoms*")
	assert.Contains(t, reply, "*Recommended Treatments*")
	assert.Contains(t, reply, "Seek Immediate Care For")
}

func TestRespondGeneralAdvice(t *testing.T) {
	e := testEngine(t)

	reply, err := e.Respond("what is a good skin care routine?")
	require.NoError(t, err)
	assert.Contains(t, reply, "**Daily Skin Care**")

	reply, err = e.Respond("how much sun is safe?")
	require.NoError(t, err)
	assert.Contains(t, reply, "Sun Protection")
	assert.Contains(t, reply, "SPF 30+")
}

func TestRespondMoleRule(t *testing.T) {
	e := testEngine(t)
	reply, err := e.Respond("how do I check a mole?")
	require.NoError(t, err)
	assert.Contains(t, reply, "ABCDE")
	for _, letter := range []string{"**A**", "**B**", "**C**", "**D**", "**E**"} {
		assert.Contains(t, reply, letter)
	}
}

func TestRespondFallback(t *testing.T) {
	e := testEngine(t)
	reply, err := e.Respond("hello there")
	require.NoError(t, err)
	assert.Contains(t, reply, "I specialize in skin health")
}

func TestConditionInfoCaseInsensitive(t *testing.T) {
	e := testEngine(t)
	lower, ok := e.ConditionInfo("eczema")
	require.True(t, ok)
	upper, ok := e.ConditionInfo("Eczema")
	require.True(t, ok)
	assert.Equal(t, lower, upper)

	_, ok = e.ConditionInfo("quantum foam")
	assert.False(t, ok)
}

func TestConditionInfoNeverFuzzyMatches(t *testing.T) {
	e := testEngine(t)
	// Respond would fuzzy-match this; the exact lookup must not.
	_, ok := e.ConditionInfo("exzema")
	assert.False(t, ok)
}

func TestFormatConditionTruncation(t *testing.T) {
	c := &ConditionRecord{
		Name:        "Test",
		Description: "desc",
		Symptoms:    []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7"},
		Treatments:  Treatments{Topical: []string{"t1", "t2", "t3", "t4"}},
	}
	out := formatCondition(c)
	assert.Contains(t, out, "s5")
	assert.NotContains(t, out, "s6")
	assert.Contains(t, out, "t3")
	assert.NotContains(t, out, "t4")
	assert.NotContains(t, out, "Seek Immediate Care")
}

func TestRespondConditionBeatsMoleRule(t *testing.T) {
	e := testEngine(t)
	// "changing mole" is a Melanoma keyword, so the condition step should
	// claim it before the general mole-rule trigger.
	reply, err := e.Respond("I have a changing mole")
	require.NoError(t, err)
	assert.True(t, strings.Contains(reply, "**Melanoma**"), "got: %s", reply)
}
