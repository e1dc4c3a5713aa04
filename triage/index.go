package triage

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// ReferenceEntry is one precomputed embedding in the reference set.
type ReferenceEntry struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"vector"`
}

// ReferenceIndex finds the nearest reference embedding by cosine
// similarity. The reference set is loaded once, kept in its file order and
// never mutated afterwards; equal-score ties resolve to the earliest
// entry, which keeps results stable across runs.
type ReferenceIndex struct {
	entries   []ReferenceEntry
	threshold float32
}

// NewReferenceIndex builds an index over the given entries with the given
// default threshold. Entries are copied so later caller mutation cannot
// leak in.
func NewReferenceIndex(entries []ReferenceEntry, threshold float32) *ReferenceIndex {
	if threshold == 0 {
		threshold = 0.9
	}
	copied := make([]ReferenceEntry, len(entries))
	for i, e := range entries {
		vec := make([]float32, len(e.Vector))
		copy(vec, e.Vector)
		copied[i] = ReferenceEntry{ID: e.ID, Vector: vec}
	}
	return &ReferenceIndex{entries: copied, threshold: threshold}
}

// Size returns the number of reference embeddings.
func (idx *ReferenceIndex) Size() int { return len(idx.entries) }

// FindNearest scans every reference and returns the best match when its
// similarity clears the index threshold. BestScore always carries the
// maximum similarity seen: thresholds gate decisions, not visibility.
func (idx *ReferenceIndex) FindNearest(vec []float32) SimilarityMatch {
	return idx.FindNearestWithThreshold(vec, idx.threshold)
}

// FindNearestWithThreshold is FindNearest with an explicit cutoff.
func (idx *ReferenceIndex) FindNearestWithThreshold(vec []float32, threshold float32) SimilarityMatch {
	match := SimilarityMatch{}
	if len(idx.entries) == 0 || len(vec) == 0 {
		return match
	}
	bestScore := float32(math.Inf(-1))
	bestID := ""
	for _, entry := range idx.entries {
		score := CosineSimilarity(vec, entry.Vector)
		if score > bestScore {
			bestScore = score
			bestID = entry.ID
		}
	}
	match.BestScore = bestScore
	if bestScore >= threshold {
		match.Matched = true
		match.ReferenceID = bestID
		match.Score = bestScore
	}
	return match
}

// CosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either has no magnitude.
func CosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		fa := float64(a[i])
		fb := float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// LoadReferenceSet reads a JSON reference file produced by the build-index
// command. A missing or malformed file is fatal configuration: the
// similarity index must not serve with a partial set.
func LoadReferenceSet(path string) ([]ReferenceEntry, error) {
	if path == "" {
		return nil, &ConfigError{Field: "index.referencePath"}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Field: "index.referencePath", Err: err}
	}
	var entries []ReferenceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &ConfigError{Field: "index.referencePath", Err: fmt.Errorf("decode reference set: %w", err)}
	}
	dim := -1
	for i, e := range entries {
		if e.ID == "" {
			return nil, &ConfigError{Field: "index.referencePath", Err: fmt.Errorf("entry %d has no id", i)}
		}
		if len(e.Vector) == 0 {
			return nil, &ConfigError{Field: "index.referencePath", Err: fmt.Errorf("entry %q has an empty vector", e.ID)}
		}
		if dim == -1 {
			dim = len(e.Vector)
		} else if len(e.Vector) != dim {
			return nil, &ConfigError{Field: "index.referencePath", Err: fmt.Errorf("entry %q has dimension %d, want %d", e.ID, len(e.Vector), dim)}
		}
	}
	return entries, nil
}

// SaveReferenceSet writes a reference file atomically.
func SaveReferenceSet(path string, entries []ReferenceEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode reference set: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create reference dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp reference set: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename reference set: %w", err)
	}
	return nil
}
