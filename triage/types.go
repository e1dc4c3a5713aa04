package triage

// UrgencyTier classifies how urgently a diagnosis should be acted on.
// It drives emphasis in the presentation layer and nothing else.
type UrgencyTier string

const (
	// TierHealthy means no condition was found.
	TierHealthy UrgencyTier = "healthy"
	// TierRoutine means the condition can wait for a routine appointment.
	TierRoutine UrgencyTier = "routine"
	// TierWarning means the condition may need first aid or prompt care.
	TierWarning UrgencyTier = "warning"
)

// BoundingBox is a detection rectangle in pixel coordinates.
type BoundingBox struct {
	X1 float32 `json:"x1"`
	Y1 float32 `json:"y1"`
	X2 float32 `json:"x2"`
	Y2 float32 `json:"y2"`
}

// Detection is a single region returned by the body-part detector.
type Detection struct {
	Label      string       `json:"label"`
	Confidence float32      `json:"confidence"`
	Box        *BoundingBox `json:"box,omitempty"`
}

// Classification carries either a successful disease prediction or the
// reason it could not be produced. Callers branch on Err, never on a
// recovered panic or a sentinel label.
type Classification struct {
	Label      string  `json:"label,omitempty"`
	Confidence float32 `json:"confidence,omitempty"`
	Err        string  `json:"error,omitempty"`
}

// OK reports whether the classification produced a label.
func (c Classification) OK() bool {
	return c.Err == "" && c.Label != ""
}

// SimilarityMatch is the nearest reference image for a query embedding.
// BestScore is always populated with the maximum similarity seen, even
// when no reference cleared the threshold and Matched is false.
type SimilarityMatch struct {
	ReferenceID string  `json:"reference_id,omitempty"`
	Score       float32 `json:"score,omitempty"`
	Matched     bool    `json:"matched"`
	BestScore   float32 `json:"best_score"`
}

// DiagnosisResult aggregates the outputs of one pipeline run.
type DiagnosisResult struct {
	BodyPart       string          `json:"body_part"`
	Classification Classification  `json:"classification"`
	Similarity     SimilarityMatch `json:"similarity"`
	Tier           UrgencyTier     `json:"tier,omitempty"`
	Advice         string          `json:"advice,omitempty"`
	ConditionInfo  string          `json:"condition_info,omitempty"`
}
