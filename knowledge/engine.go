package knowledge

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
)

// ErrEmptyInput is returned when the user message is blank.
var ErrEmptyInput = errors.New("empty input text")

const (
	maxSymptoms   = 5
	maxTreatments = 3
)

var emergencyBlock = strings.Join([]string{
	"🚨 **Potential Medical Emergency** 🚨",
	"",
	"1. Stop all current treatments",
	"2. Call emergency services if:",
	"   - Difficulty breathing/swallowing",
	"   - Swelling of face/lips",
	"   - High fever with rash",
	"3. Take photos for documentation",
	"4. Avoid scratching affected areas",
}, "\n")

var sunProtectionBlock = strings.Join([]string{
	"**Sun Protection** ☀️",
	"- Use SPF 30+ broad spectrum",
	"- Reapply every 2 hours outdoors",
	"- Wear UPF clothing and hats",
	"- Seek shade 10AM-4PM",
}, "\n")

var fallbackBlock = strings.Join([]string{
	"I specialize in skin health. Try asking about:",
	"- Specific conditions (acne, eczema)",
	"- Skin care routines",
	"- Treatment options",
	"- Symptom explanations",
}, "\n")

var deflections = []string{
	"That one is outside my area. I am here for skin health questions.",
	"I'd rather stick to dermatology. Anything about your skin I can help with?",
	"Not my field, I'm afraid. Ask me about rashes, moles or skin care instead.",
}

// Engine turns free-text user input into advisory text. Responses are
// markdown-flavored; the presentation layer renders them verbatim.
type Engine struct {
	store   *Store
	matcher *ConditionMatcher
	rng     *rand.Rand
}

// NewEngine builds an engine over the store. rng may be nil, in which
// case the global source picks deflection phrases.
func NewEngine(store *Store, matcher *ConditionMatcher, rng *rand.Rand) *Engine {
	if matcher == nil {
		matcher = NewConditionMatcher(store, nil)
	}
	return &Engine{store: store, matcher: matcher, rng: rng}
}

// Respond evaluates the input through a strict precedence chain: the
// emergency check runs before everything, then off-topic deflection, then
// condition matching, then general-advice triggers, then a clarifying
// fallback. Each step either returns or falls through; nothing later can
// override an earlier hit.
func (e *Engine) Respond(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}
	if IsEmergency(text) {
		return emergencyBlock, nil
	}
	if IsOffTopic(text) {
		return e.deflect(), nil
	}
	if c := e.matcher.Match(text); c != nil {
		return formatCondition(c), nil
	}
	return e.generalResponse(text), nil
}

// ConditionInfo formats the record whose name equals the given one,
// case-insensitively. Used to annotate a diagnosis label with educational
// text; unlike Respond it never keyword- or fuzzy-matches.
func (e *Engine) ConditionInfo(name string) (string, bool) {
	c, ok := e.store.Condition(name)
	if !ok {
		return "", false
	}
	return formatCondition(c), true
}

func (e *Engine) generalResponse(text string) string {
	lowered := normalizeText(text)
	if containsAny(lowered, []string{"routine", "prevent"}) {
		return "**Daily Skin Care**:\n- " + strings.Join(e.store.DailyCare(), "\n- ")
	}
	if containsAny(lowered, []string{"sun", "uv"}) {
		return sunProtectionBlock
	}
	if containsAny(lowered, []string{"mole", "abcde"}) {
		return formatABCDE(e.store.MolesABCDE())
	}
	return fallbackBlock
}

func (e *Engine) deflect() string {
	if e.rng != nil {
		return deflections[e.rng.Intn(len(deflections))]
	}
	return deflections[rand.Intn(len(deflections))]
}

// formatCondition renders one record: name, description, up to five
// symptoms, the top three topical treatments, and red flags if present.
func formatCondition(c *ConditionRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n\n", c.Name)
	fmt.Fprintf(&sb, "*Description*: %s\n\n", c.Description)

	symptoms := c.Symptoms
	if len(symptoms) > maxSymptoms {
		symptoms = symptoms[:maxSymptoms]
	}
	sb.WriteString("*Common Symptoms*:\n- " + strings.Join(symptoms, "\n- ") + "\n\n")

	treatments := c.Treatments.Topical
	if len(treatments) > maxTreatments {
		treatments = treatments[:maxTreatments]
	}
	sb.WriteString("*Recommended Treatments*:\n- " + strings.Join(treatments, "\n- "))

	if len(c.RedFlags) > 0 {
		sb.WriteString("\n\n⚠️ *Seek Immediate Care For*:\n- " + strings.Join(c.RedFlags, "\n- "))
	}
	return sb.String()
}

func formatABCDE(rule map[string]string) string {
	letters := make([]string, 0, len(rule))
	for letter := range rule {
		letters = append(letters, letter)
	}
	sort.Strings(letters)
	var sb strings.Builder
	sb.WriteString("**The ABCDE Rule for Moles** 🔍\n")
	for _, letter := range letters {
		fmt.Fprintf(&sb, "- **%s**: %s\n", letter, rule[letter])
	}
	sb.WriteString("See a dermatologist promptly if any of these apply.")
	return sb.String()
}
