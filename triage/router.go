package triage

import (
	"context"
	"errors"
	"image"
	"log"
)

// Advisory sentences attached per tier for the presentation layer.
const (
	healthyAdvice = "Your skin appears to be healthy! Keep up with good skincare practices."
	warningAdvice = "This condition may require first aid or medical attention. Please take necessary precautions."
	routineAdvice = "Consider discussing this finding with a dermatologist at a routine appointment."
)

// ConditionAnnotator supplies educational text for a diagnosis label.
// Satisfied by the knowledge store; optional.
type ConditionAnnotator interface {
	ConditionInfo(name string) (string, bool)
}

// Pipeline composes the detector, classifier, embedder and similarity
// index into a single diagnosis run. All dependencies are injected so
// tests can substitute doubles; the pipeline itself holds no mutable
// state and is safe for concurrent use.
type Pipeline struct {
	detector   BodyPartDetector
	classifier DiseaseClassifier
	embedder   ImageEmbedder
	index      *ReferenceIndex
	allowList  []string
	annotator  ConditionAnnotator
	logger     *log.Logger
}

// NewPipeline wires the pipeline together. Detector, classifier, embedder
// and index are required; annotator and logger may be nil.
func NewPipeline(detector BodyPartDetector, classifier DiseaseClassifier, embedder ImageEmbedder, index *ReferenceIndex, allowList []string, annotator ConditionAnnotator, logger *log.Logger) (*Pipeline, error) {
	if detector == nil || classifier == nil || embedder == nil {
		return nil, errors.New("detector, classifier and embedder are required")
	}
	if index == nil {
		return nil, errors.New("reference index is required")
	}
	if len(allowList) == 0 {
		allowList = DefaultBodyPartAllowList()
	}
	return &Pipeline{
		detector:   detector,
		classifier: classifier,
		embedder:   embedder,
		index:      index,
		allowList:  allowList,
		annotator:  annotator,
		logger:     logger,
	}, nil
}

// DiagnoseBytes decodes raw image bytes and runs Diagnose.
func (p *Pipeline) DiagnoseBytes(ctx context.Context, data []byte) (DiagnosisResult, error) {
	img, err := DecodeImage(data)
	if err != nil {
		return DiagnosisResult{}, err
	}
	return p.Diagnose(ctx, img)
}

// Diagnose runs the three model passes over one image and aggregates the
// results. The localizer, classifier and embedding paths are independent
// of each other; only the source image is shared. Per-call inference
// failures degrade (body part to Unknown, classification to a carried
// error, similarity to no match) and never abort the request.
func (p *Pipeline) Diagnose(ctx context.Context, img image.Image) (DiagnosisResult, error) {
	if img == nil {
		return DiagnosisResult{}, &InputError{Reason: "nil image"}
	}

	result := DiagnosisResult{BodyPart: UnknownBodyPart}

	detections, err := p.detector.Detect(ctx, img)
	if err != nil {
		p.logf("body-part detection failed: %v", err)
	} else {
		result.BodyPart = FirstAllowedBodyPart(detections, p.allowList)
	}

	result.Classification = p.classifier.Classify(ctx, img)

	if vec, err := p.embedder.Embed(ctx, img); err != nil {
		p.logf("embedding failed: %v", err)
	} else {
		result.Similarity = p.index.FindNearest(vec)
	}

	if !result.Classification.OK() {
		return result, nil
	}
	result.Tier = TierFor(result.Classification.Label)
	result.Advice = adviceFor(result.Tier)
	if p.annotator != nil {
		if info, ok := p.annotator.ConditionInfo(result.Classification.Label); ok {
			result.ConditionInfo = info
		}
	}
	return result, nil
}

// TierFor assigns the urgency tier for a disease label. The rules are
// evaluated in this exact sequence; keep it a chain, not a lookup table,
// so later rules can shadow earlier ones as the label set grows.
func TierFor(label string) UrgencyTier {
	if label == "Healthy Skin" {
		return TierHealthy
	}
	if label == "Cuts" || label == "Burns" {
		return TierWarning
	}
	return TierRoutine
}

func adviceFor(tier UrgencyTier) string {
	switch tier {
	case TierHealthy:
		return healthyAdvice
	case TierWarning:
		return warningAdvice
	default:
		return routineAdvice
	}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}
