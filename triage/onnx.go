package triage

import (
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortInit    sync.Once
	ortInitErr error
)

// initRuntime initializes the shared ONNX Runtime environment once per
// process. libraryPath may be empty when the runtime is on the default
// search path.
func initRuntime(libraryPath string) error {
	ortInit.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return &ConfigError{Field: "ortLibrary", Err: ortInitErr}
	}
	return nil
}

// session wraps one ONNX model with its preprocessing record. Sessions are
// created at startup and shared read-only afterwards; the mutex serializes
// Run calls because a single ORT session is not guaranteed reentrant.
type session struct {
	mu   sync.Mutex
	sess *ort.DynamicAdvancedSession
	cfg  ModelConfig
}

// newSession loads a model from disk. A missing weights file is a fatal
// configuration problem, reported before any request is served.
func newSession(name, libraryPath string, cfg ModelConfig) (*session, error) {
	if cfg.Path == "" {
		return nil, &ConfigError{Field: name + ".path"}
	}
	if _, err := os.Stat(cfg.Path); err != nil {
		return nil, &ConfigError{Field: name + ".path", Err: err}
	}
	if err := initRuntime(libraryPath); err != nil {
		return nil, err
	}
	sess, err := ort.NewDynamicAdvancedSession(cfg.Path,
		[]string{cfg.InputName}, []string{cfg.OutputName}, nil)
	if err != nil {
		return nil, &ConfigError{Field: name, Err: fmt.Errorf("create session: %w", err)}
	}
	return &session{sess: sess, cfg: cfg}, nil
}

// run normalizes the image tensor data through the model and returns the
// flat output values together with the output shape.
func (s *session) run(data []float32) ([]float32, []int64, error) {
	shape := ort.NewShape(1, 3, int64(s.cfg.Preprocess.Height), int64(s.cfg.Preprocess.Width))
	input, err := ort.NewTensor(shape, data)
	if err != nil {
		return nil, nil, fmt.Errorf("create input tensor: %w", err)
	}
	defer input.Destroy()

	outputs := []ort.Value{nil}
	s.mu.Lock()
	err = s.sess.Run([]ort.Value{input}, outputs)
	s.mu.Unlock()
	if err != nil {
		return nil, nil, fmt.Errorf("run session: %w", err)
	}
	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		if outputs[0] != nil {
			outputs[0].Destroy()
		}
		return nil, nil, fmt.Errorf("unexpected output type %T", outputs[0])
	}
	defer out.Destroy()

	values := make([]float32, len(out.GetData()))
	copy(values, out.GetData())
	return values, out.GetShape(), nil
}

// Close releases the underlying ORT session.
func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess != nil {
		err := s.sess.Destroy()
		s.sess = nil
		return err
	}
	return nil
}
