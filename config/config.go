package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frame sources understood by the capture layer.
const (
	SourceScreen    = "screen"
	SourceVideo     = "video"
	SourceCamera    = "camera"
	SourceSynthetic = "synthetic"
)

// Config holds runtime configuration for sampling, estimation and app behavior.
// Fields may be loaded from a JSON or YAML file and overridden by command-line flags.
type Config struct {
	Debug bool `json:"debug" yaml:"debug"`

	// Estimation parameters
	FrameRate      float64 `json:"frame_rate" yaml:"frame_rate"` // nominal, not measured
	SessionSeconds int     `json:"session_seconds" yaml:"session_seconds"`
	MinSeconds     float64 `json:"min_seconds" yaml:"min_seconds"`
	BandPass       bool    `json:"band_pass" yaml:"band_pass"`
	BandLowHz      float64 `json:"band_low_hz" yaml:"band_low_hz"`
	BandHighHz     float64 `json:"band_high_hz" yaml:"band_high_hz"`

	// Frame source
	Source       string  `json:"source" yaml:"source"`
	VideoPath    string  `json:"video_path" yaml:"video_path"`
	CameraIndex  int     `json:"camera_index" yaml:"camera_index"`
	SyntheticBPM float64 `json:"synthetic_bpm" yaml:"synthetic_bpm"`

	// Face localization
	CascadePath      string  `json:"cascade_path" yaml:"cascade_path"`
	FaceTemplatePath string  `json:"face_template_path" yaml:"face_template_path"`
	FaceThreshold    float64 `json:"face_threshold" yaml:"face_threshold"`
	FaceBoxX         float64 `json:"face_box_x" yaml:"face_box_x"`
	FaceBoxY         float64 `json:"face_box_y" yaml:"face_box_y"`
	FaceBoxW         float64 `json:"face_box_w" yaml:"face_box_w"`
	FaceBoxH         float64 `json:"face_box_h" yaml:"face_box_h"`
	ForeheadFraction float64 `json:"forehead_fraction" yaml:"forehead_fraction"`

	// Selection rectangle persistence (screen source)
	SelectionX int `json:"selection_x" yaml:"selection_x"`
	SelectionY int `json:"selection_y" yaml:"selection_y"`
	SelectionW int `json:"selection_w" yaml:"selection_w"`
	SelectionH int `json:"selection_h" yaml:"selection_h"`

	// Outbound readings; empty disables.
	NATSURL     string `json:"nats_url" yaml:"nats_url"`
	NATSSubject string `json:"nats_subject" yaml:"nats_subject"`
	HTTPAddr    string `json:"http_addr" yaml:"http_addr"`

	// Scheduling
	SampleIntervalMs   int `json:"sample_interval_ms" yaml:"sample_interval_ms"`
	EstimateIntervalMs int `json:"estimate_interval_ms" yaml:"estimate_interval_ms"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:              false,
		FrameRate:          30,
		SessionSeconds:     60,
		MinSeconds:         5,
		BandPass:           false,
		BandLowHz:          0.7,
		BandHighHz:         4.0,
		Source:             SourceScreen,
		SyntheticBPM:       72,
		FaceThreshold:      0.60,
		FaceBoxX:           0.30,
		FaceBoxY:           0.15,
		FaceBoxW:           0.40,
		FaceBoxH:           0.60,
		ForeheadFraction:   0.20,
		NATSSubject:        "hrm.readings",
		SampleIntervalMs:   10,
		EstimateIntervalMs: 1000,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	if c.FrameRate <= 0 || c.FrameRate > 240 {
		c.FrameRate = 30
	}
	if c.SessionSeconds <= 0 {
		c.SessionSeconds = 60
	}
	if c.MinSeconds <= 0 || c.MinSeconds >= float64(c.SessionSeconds) {
		c.MinSeconds = 5
	}
	if c.BandLowHz <= 0 {
		c.BandLowHz = 0.7
	}
	if c.BandHighHz <= c.BandLowHz || c.BandHighHz >= c.FrameRate/2 {
		c.BandHighHz = c.FrameRate / 2 * 0.8
		if c.BandHighHz > 4.0 {
			c.BandHighHz = 4.0
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Source)) {
	case SourceScreen, SourceVideo, SourceCamera, SourceSynthetic:
		c.Source = strings.ToLower(strings.TrimSpace(c.Source))
	default:
		c.Source = SourceScreen
	}
	if c.CameraIndex < 0 {
		c.CameraIndex = 0
	}
	if c.SyntheticBPM <= 0 || c.SyntheticBPM > 220 {
		c.SyntheticBPM = 72
	}
	if c.FaceThreshold <= 0 || c.FaceThreshold > 1 {
		c.FaceThreshold = 0.60
	}
	if c.FaceBoxW <= 0 || c.FaceBoxH <= 0 || c.FaceBoxX < 0 || c.FaceBoxY < 0 ||
		c.FaceBoxX+c.FaceBoxW > 1 || c.FaceBoxY+c.FaceBoxH > 1 {
		c.FaceBoxX, c.FaceBoxY, c.FaceBoxW, c.FaceBoxH = 0.30, 0.15, 0.40, 0.60
	}
	if c.ForeheadFraction <= 0 || c.ForeheadFraction > 1 {
		c.ForeheadFraction = 0.20
	}
	if c.NATSSubject == "" {
		c.NATSSubject = "hrm.readings"
	}
	if c.SampleIntervalMs <= 0 {
		c.SampleIntervalMs = 10
	}
	if c.EstimateIntervalMs < c.SampleIntervalMs {
		c.EstimateIntervalMs = 1000
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load attempts to read configuration from the given JSON or YAML file path. If the file does
// not exist it returns DefaultConfig(). On decode error it returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	if isYAML(path) {
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return DefaultConfig(), err
		}
	} else if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return DefaultConfig(), err
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path, as YAML for .yaml/.yml and JSON otherwise.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		defer enc.Close()
		return enc.Encode(c)
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
