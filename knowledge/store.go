package knowledge

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var abcdeLetters = []string{"A", "B", "C", "D", "E"}

// Store is the validated, read-only view over a knowledge Document. It is
// built once at process start and safe for concurrent use afterwards.
type Store struct {
	doc    Document
	byName map[string]*ConditionRecord
}

// NewStore validates a document and builds the lookup structures. Any
// missing required field fails here, before a single request is served.
func NewStore(doc Document) (*Store, error) {
	if len(doc.Conditions) == 0 {
		return nil, fmt.Errorf("knowledge document has no conditions")
	}
	byName := make(map[string]*ConditionRecord, len(doc.Conditions))
	for i := range doc.Conditions {
		c := &doc.Conditions[i]
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("condition %d has no name", i)
		}
		if strings.TrimSpace(c.Description) == "" {
			return nil, fmt.Errorf("condition %q has no description", c.Name)
		}
		if len(c.Symptoms) == 0 {
			return nil, fmt.Errorf("condition %q has no symptoms", c.Name)
		}
		if len(c.Treatments.Topical) == 0 {
			return nil, fmt.Errorf("condition %q has no topical treatments", c.Name)
		}
		key := strings.ToLower(strings.TrimSpace(c.Name))
		if _, dup := byName[key]; dup {
			return nil, fmt.Errorf("duplicate condition name %q", c.Name)
		}
		byName[key] = c
	}
	if len(doc.GeneralAdvice.DailyCare) == 0 {
		return nil, fmt.Errorf("knowledge document has no general_advice.daily_care entries")
	}
	for _, letter := range abcdeLetters {
		if strings.TrimSpace(doc.DiagnosticTools.MolesABCDE[letter]) == "" {
			return nil, fmt.Errorf("diagnostic_tools.moles_abcde is missing entry %q", letter)
		}
	}
	return &Store{doc: doc, byName: byName}, nil
}

// LoadStore reads and validates a YAML knowledge document from disk.
func LoadStore(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge document: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode knowledge document: %w", err)
	}
	store, err := NewStore(doc)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return store, nil
}

// Conditions returns the records in document order. The slice is shared;
// callers must not modify it.
func (s *Store) Conditions() []ConditionRecord { return s.doc.Conditions }

// Condition performs an exact, case-insensitive name lookup. No keyword
// or fuzzy fallback: that is MatchCondition's job.
func (s *Store) Condition(name string) (*ConditionRecord, bool) {
	c, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// DailyCare returns the condition-independent daily-care advice lines.
func (s *Store) DailyCare() []string { return s.doc.GeneralAdvice.DailyCare }

// MolesABCDE returns the mole self-evaluation rule keyed by letter.
func (s *Store) MolesABCDE() map[string]string { return s.doc.DiagnosticTools.MolesABCDE }

// SaveDocument writes a document as YAML, used by the init command to
// give users an editable starting point.
func SaveDocument(path string, doc Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode knowledge document: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write knowledge document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename knowledge document: %w", err)
	}
	return nil
}
