package triage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfigFile = "config.json"

// Preprocess describes the tensor a model consumer expects. Each model
// carries its own record; resolutions and statistics are never shared.
type Preprocess struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Mean   []float32 `json:"mean"`
	Std    []float32 `json:"std"`
}

// ModelConfig locates one ONNX model and its preprocessing.
type ModelConfig struct {
	Path       string     `json:"path"`
	InputName  string     `json:"inputName"`
	OutputName string     `json:"outputName"`
	Preprocess Preprocess `json:"preprocess"`
}

// DetectorConfig extends ModelConfig with post-processing knobs.
type DetectorConfig struct {
	ModelConfig
	Labels    []string `json:"labels"`
	AllowList []string `json:"allowList"`
	MinScore  float32  `json:"minScore"`
}

// ClassifierConfig extends ModelConfig with the ordered label set.
type ClassifierConfig struct {
	ModelConfig
	Labels []string `json:"labels"`
}

// IndexConfig locates the reference similarity set.
type IndexConfig struct {
	ReferencePath string  `json:"referencePath"`
	Threshold     float32 `json:"threshold"`
}

// Config aggregates runtime settings persisted to config.json.
type Config struct {
	OrtLibrary    string           `json:"ortLibrary"`
	Detector      DetectorConfig   `json:"detector"`
	Classifier    ClassifierConfig `json:"classifier"`
	Embedder      ModelConfig      `json:"embedder"`
	Index         IndexConfig      `json:"index"`
	KnowledgePath string           `json:"knowledgePath"`
	ListenAddr    string           `json:"listenAddr"`
}

// DefaultDiseaseLabels is the ordered label set of the disease classifier.
// Order matters: argmax ties resolve to the earliest label, and the tier
// rules key off the literal label strings.
func DefaultDiseaseLabels() []string {
	return []string{
		"Melanoma", "Melanocytic Nevus", "Basal Cell Carcinoma",
		"Actinic Keratosis", "Benign Keratosis", "Dermatofibroma", "Vascular Lesion",
		"Squamous Cell Carcinoma", "Eczema", "Psoriasis", "Lentigo Maligna", "Tinea Ringworm",
		"Healthy Skin", "Cuts", "Burns",
	}
}

// DefaultBodyPartLabels is the detector's class list in model output order.
func DefaultBodyPartLabels() []string {
	return []string{"hand", "arm", "face", "leg", "foot", "torso", "neck", "scalp"}
}

// DefaultBodyPartAllowList is the ordered subset of detector labels the
// pipeline reports on.
func DefaultBodyPartAllowList() []string {
	return []string{"hand", "arm", "face", "leg"}
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if len(c.Detector.Labels) == 0 {
		c.Detector.Labels = DefaultBodyPartLabels()
	}
	if len(c.Detector.AllowList) == 0 {
		c.Detector.AllowList = DefaultBodyPartAllowList()
	}
	if c.Detector.MinScore == 0 {
		c.Detector.MinScore = 0.25
	}
	if len(c.Classifier.Labels) == 0 {
		c.Classifier.Labels = DefaultDiseaseLabels()
	}
	if c.Index.Threshold == 0 {
		c.Index.Threshold = 0.9
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	applyModelDefaults(&c.Detector.ModelConfig, 640, 640)
	applyModelDefaults(&c.Classifier.ModelConfig, 256, 256)
	applyModelDefaults(&c.Embedder, 224, 224)
}

func applyModelDefaults(m *ModelConfig, w, h int) {
	if m.Preprocess.Width == 0 {
		m.Preprocess.Width = w
	}
	if m.Preprocess.Height == 0 {
		m.Preprocess.Height = h
	}
	if len(m.Preprocess.Mean) == 0 {
		m.Preprocess.Mean = []float32{0.485, 0.456, 0.406}
	}
	if len(m.Preprocess.Std) == 0 {
		m.Preprocess.Std = []float32{0.229, 0.224, 0.225}
	}
	if m.InputName == "" {
		m.InputName = "input"
	}
	if m.OutputName == "" {
		m.OutputName = "output"
	}
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// LoadConfig loads configuration from the given path or the default
// config.json. A missing file yields defaults rather than an error.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyDefaults()
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}
