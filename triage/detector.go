package triage

import (
	"context"
	"fmt"
	"image"
)

// UnknownBodyPart is reported when no allowed region is detected or the
// detector itself fails. Detector failures never abort a diagnosis.
const UnknownBodyPart = "Unknown"

// BodyPartDetector locates body regions in an image.
type BodyPartDetector interface {
	Detect(ctx context.Context, img image.Image) ([]Detection, error)
}

// OrtDetector wraps an object-detection ONNX model. The model output is
// expected as rows of (x1, y1, x2, y2, score, class) in detector order.
type OrtDetector struct {
	sess *session
	cfg  DetectorConfig
}

// NewOrtDetector loads the detector model described by cfg.
func NewOrtDetector(libraryPath string, cfg DetectorConfig) (*OrtDetector, error) {
	sess, err := newSession("detector", libraryPath, cfg.ModelConfig)
	if err != nil {
		return nil, err
	}
	return &OrtDetector{sess: sess, cfg: cfg}, nil
}

// Detect runs the model once and returns all detections above the score
// floor, preserving the model's own output order.
func (d *OrtDetector) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tensor, err := Normalize(img, d.cfg.Preprocess)
	if err != nil {
		return nil, err
	}
	values, shape, err := d.sess.run(tensor)
	if err != nil {
		return nil, &ModelError{Model: "detector", Err: err}
	}
	return d.decode(values, shape)
}

func (d *OrtDetector) decode(values []float32, shape []int64) ([]Detection, error) {
	const stride = 6
	if len(shape) < 2 {
		return nil, &ModelError{Model: "detector", Err: fmt.Errorf("unexpected output shape %v", shape)}
	}
	if len(values)%stride != 0 {
		return nil, &ModelError{Model: "detector", Err: fmt.Errorf("output length %d not divisible by %d", len(values), stride)}
	}
	var out []Detection
	for off := 0; off+stride <= len(values); off += stride {
		score := values[off+4]
		if score < d.cfg.MinScore {
			continue
		}
		class := int(values[off+5])
		if class < 0 || class >= len(d.cfg.Labels) {
			continue
		}
		out = append(out, Detection{
			Label:      d.cfg.Labels[class],
			Confidence: score,
			Box: &BoundingBox{
				X1: values[off], Y1: values[off+1],
				X2: values[off+2], Y2: values[off+3],
			},
		})
	}
	return out, nil
}

// Close releases the detector session.
func (d *OrtDetector) Close() error { return d.sess.Close() }

// FirstAllowedBodyPart selects the body part to report from raw
// detections: the first detection, in detector output order, whose label
// is in the allow list. Not the highest-confidence one; the ordering is
// part of the contract. Returns UnknownBodyPart when nothing qualifies.
func FirstAllowedBodyPart(detections []Detection, allowList []string) string {
	for _, det := range detections {
		for _, allowed := range allowList {
			if det.Label == allowed {
				return det.Label
			}
		}
	}
	return UnknownBodyPart
}
