package triage

import (
	"context"
	"image"
)

// ImageEmbedder produces a fixed-length feature vector for an image.
type ImageEmbedder interface {
	Embed(ctx context.Context, img image.Image) ([]float32, error)
}

// OrtEmbedder wraps a feature-backbone ONNX model (classification head
// removed). Embeddings are recomputed on every call; the pipeline already
// pays for a detector and classifier pass per request, so a cache would
// buy little.
type OrtEmbedder struct {
	sess *session
}

// NewOrtEmbedder loads the embedding model described by cfg.
func NewOrtEmbedder(libraryPath string, cfg ModelConfig) (*OrtEmbedder, error) {
	sess, err := newSession("embedder", libraryPath, cfg)
	if err != nil {
		return nil, err
	}
	return &OrtEmbedder{sess: sess}, nil
}

// Embed runs one forward pass and returns the flattened feature vector.
func (e *OrtEmbedder) Embed(ctx context.Context, img image.Image) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tensor, err := Normalize(img, e.sess.cfg.Preprocess)
	if err != nil {
		return nil, err
	}
	values, _, err := e.sess.run(tensor)
	if err != nil {
		return nil, &ModelError{Model: "embedder", Err: err}
	}
	return values, nil
}

// Close releases the embedder session.
func (e *OrtEmbedder) Close() error { return e.sess.Close() }
