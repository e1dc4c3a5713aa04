package triage

import (
	"context"
	"fmt"
	"image"
	"math"
)

// DiseaseClassifier predicts a single disease label for an image. A failed
// prediction is carried inside the Classification value; the error return
// is reserved for caller mistakes such as a cancelled context.
type DiseaseClassifier interface {
	Classify(ctx context.Context, img image.Image) Classification
}

// OrtClassifier wraps an image-classification ONNX model producing logits
// over a fixed ordered label set.
type OrtClassifier struct {
	sess *session
	cfg  ClassifierConfig
}

// NewOrtClassifier loads the classifier model described by cfg.
func NewOrtClassifier(libraryPath string, cfg ClassifierConfig) (*OrtClassifier, error) {
	if len(cfg.Labels) == 0 {
		return nil, &ConfigError{Field: "classifier.labels"}
	}
	sess, err := newSession("classifier", libraryPath, cfg.ModelConfig)
	if err != nil {
		return nil, err
	}
	return &OrtClassifier{sess: sess, cfg: cfg}, nil
}

// Classify runs one forward pass and selects the argmax label. Confidence
// is the softmax probability scaled to [0,100]. Any processing failure is
// folded into the returned value so the pipeline never crashes on a bad
// frame.
func (c *OrtClassifier) Classify(ctx context.Context, img image.Image) Classification {
	if err := ctx.Err(); err != nil {
		return Classification{Err: err.Error()}
	}
	tensor, err := Normalize(img, c.cfg.Preprocess)
	if err != nil {
		return Classification{Err: err.Error()}
	}
	values, _, err := c.sess.run(tensor)
	if err != nil {
		return Classification{Err: (&ModelError{Model: "classifier", Err: err}).Error()}
	}
	if len(values) < len(c.cfg.Labels) {
		err := fmt.Errorf("got %d logits for %d labels", len(values), len(c.cfg.Labels))
		return Classification{Err: (&ModelError{Model: "classifier", Err: err}).Error()}
	}
	probs := Softmax(values[:len(c.cfg.Labels)])
	idx := Argmax(probs)
	return Classification{
		Label:      c.cfg.Labels[idx],
		Confidence: probs[idx] * 100,
	}
}

// Close releases the classifier session.
func (c *OrtClassifier) Close() error { return c.sess.Close() }

// Softmax converts logits to a probability distribution.
func Softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}
	out := make([]float32, len(logits))
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - max))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}

// Argmax returns the index of the maximum value. Ties resolve to the
// earliest index so the result is deterministic for a fixed label order.
func Argmax(values []float32) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
