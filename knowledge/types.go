package knowledge

// Treatments groups treatment options by route. Topical options come
// first when a record is formatted.
type Treatments struct {
	Topical  []string `yaml:"topical" json:"topical"`
	Systemic []string `yaml:"systemic,omitempty" json:"systemic,omitempty"`
}

// ConditionRecord describes one skin condition. Records are loaded once
// at startup and never mutated; identity is the case-insensitive name.
type ConditionRecord struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description" json:"description"`
	Symptoms    []string   `yaml:"symptoms" json:"symptoms"`
	Keywords    []string   `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	Treatments  Treatments `yaml:"treatments" json:"treatments"`
	RedFlags    []string   `yaml:"red_flags,omitempty" json:"red_flags,omitempty"`
}

// GeneralAdvice holds condition-independent guidance.
type GeneralAdvice struct {
	DailyCare []string `yaml:"daily_care" json:"daily_care"`
}

// DiagnosticTools holds self-evaluation rules surfaced in chat.
type DiagnosticTools struct {
	// MolesABCDE maps the five letters A-E to one labeled criterion each.
	MolesABCDE map[string]string `yaml:"moles_abcde" json:"moles_abcde"`
}

// Document is the on-disk shape of the knowledge base. The order of
// Conditions is significant: free-text matching scans it front to back
// and the first hit wins.
type Document struct {
	Conditions      []ConditionRecord `yaml:"conditions" json:"conditions"`
	GeneralAdvice   GeneralAdvice     `yaml:"general_advice" json:"general_advice"`
	DiagnosticTools DiagnosticTools   `yaml:"diagnostic_tools" json:"diagnostic_tools"`
}
