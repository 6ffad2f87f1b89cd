package view

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/soocke/hrm-go/config"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ConfigPanel encapsulates the configuration form widgets and apply logic.
// It owns its widgets and writes back into *config.Config on ApplyChanges.
type ConfigPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetEditable(enabled bool)
	ApplyChanges() // parses widget text into underlying config and persists
}

type configPanel struct {
	cfg      *config.Config
	cfgPath  string
	logger   *slog.Logger
	applyBtn *ButtonWidget
	widgets  map[string]*TextWidget // keyed by field id
	fields   []field
	onApply  func(*config.Config)
}

// field binds one form row to a config value.
type field struct {
	id, label string
	format    func(c *config.Config) string
	apply     func(c *config.Config, s string) bool
}

func floatField(id, label, verb string, ptr func(*config.Config) *float64) field {
	return field{
		id: id, label: label,
		format: func(c *config.Config) string { return fmt.Sprintf(verb, *ptr(c)) },
		apply: func(c *config.Config, s string) bool {
			f, ok := parseFloatField(s)
			if ok {
				*ptr(c) = f
			}
			return ok
		},
	}
}

func intField(id, label string, ptr func(*config.Config) *int) field {
	return field{
		id: id, label: label,
		format: func(c *config.Config) string { return strconv.Itoa(*ptr(c)) },
		apply: func(c *config.Config, s string) bool {
			i, ok := parseIntField(s)
			if ok {
				*ptr(c) = i
			}
			return ok
		},
	}
}

func boolField(id, label string, ptr func(*config.Config) *bool) field {
	return field{
		id: id, label: label,
		format: func(c *config.Config) string { return strconv.FormatBool(*ptr(c)) },
		apply: func(c *config.Config, s string) bool {
			b, ok := parseBoolLoose(s)
			if ok {
				*ptr(c) = b
			}
			return ok
		},
	}
}

// stringField keeps the old value when the widget is left empty.
func stringField(id, label string, ptr func(*config.Config) *string) field {
	return field{
		id: id, label: label,
		format: func(c *config.Config) string { return *ptr(c) },
		apply: func(c *config.Config, s string) bool {
			if s == "" {
				return false
			}
			*ptr(c) = s
			return true
		},
	}
}

func panelFields() []field {
	return []field{
		floatField("frameRate", "Frame Rate (nominal)", "%.1f", func(c *config.Config) *float64 { return &c.FrameRate }),
		intField("sessionSeconds", "Session Seconds", func(c *config.Config) *int { return &c.SessionSeconds }),
		floatField("minSeconds", "Min Seconds Before Estimate", "%.1f", func(c *config.Config) *float64 { return &c.MinSeconds }),
		boolField("bandPass", "Band-Pass (true/false)", func(c *config.Config) *bool { return &c.BandPass }),
		floatField("bandLowHz", "Band Low Hz", "%.2f", func(c *config.Config) *float64 { return &c.BandLowHz }),
		floatField("bandHighHz", "Band High Hz", "%.2f", func(c *config.Config) *float64 { return &c.BandHighHz }),
		stringField("videoPath", "Video Path", func(c *config.Config) *string { return &c.VideoPath }),
		intField("cameraIndex", "Camera Index", func(c *config.Config) *int { return &c.CameraIndex }),
		floatField("syntheticBPM", "Synthetic BPM", "%.0f", func(c *config.Config) *float64 { return &c.SyntheticBPM }),
		floatField("faceThreshold", "Face Threshold", "%.3f", func(c *config.Config) *float64 { return &c.FaceThreshold }),
		floatField("faceBoxX", "Face Box X (0-1)", "%.2f", func(c *config.Config) *float64 { return &c.FaceBoxX }),
		floatField("faceBoxY", "Face Box Y (0-1)", "%.2f", func(c *config.Config) *float64 { return &c.FaceBoxY }),
		floatField("faceBoxW", "Face Box W (0-1)", "%.2f", func(c *config.Config) *float64 { return &c.FaceBoxW }),
		floatField("faceBoxH", "Face Box H (0-1)", "%.2f", func(c *config.Config) *float64 { return &c.FaceBoxH }),
		floatField("foreheadFraction", "Forehead Fraction", "%.2f", func(c *config.Config) *float64 { return &c.ForeheadFraction }),
	}
}

// NewConfigPanel creates the view bound to cfg. onApply, if set, runs after a
// change was accepted.
func NewConfigPanel(cfg *config.Config, cfgPath string, logger *slog.Logger, onApply func(*config.Config)) ConfigPanel {
	return &configPanel{cfg: cfg, cfgPath: cfgPath, logger: logger, widgets: make(map[string]*TextWidget), fields: panelFields(), onApply: onApply}
}

func (v *configPanel) Build(startRow int) (row int) {
	row = startRow
	for _, f := range v.fields {
		lbl := Label(Txt(f.label), Anchor("w"))
		Grid(lbl, Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(24))
		Grid(w, Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		if v.cfg != nil {
			w.Insert("1.0", f.format(v.cfg))
		}
		v.widgets[f.id] = w
		row++
	}
	v.applyBtn = Button(Txt("Apply Changes"), Command(func() { v.ApplyChanges() }))
	Grid(v.applyBtn, Row(row), Column(0), Columnspan(2), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	row++
	return row
}

func (v *configPanel) SetEditable(enabled bool) {
	state := "disabled"
	if enabled {
		state = "normal"
	}
	for _, w := range v.widgets {
		if w != nil {
			w.Configure(State(state))
		}
	}
	if v.applyBtn != nil {
		v.applyBtn.Configure(State(state))
	}
}

func (v *configPanel) text(w *TextWidget) string {
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

// ApplyChanges parses every row into a copy of the config, validates it and
// saves it. Unparseable rows keep their previous value.
func (v *configPanel) ApplyChanges() {
	if v.cfg == nil {
		return
	}
	values := make(map[string]string, len(v.widgets))
	for id, w := range v.widgets {
		values[id] = v.text(w)
	}
	cfg := applyFields(*v.cfg, v.fields, values)
	if err := cfg.Validate(); err != nil {
		if v.logger != nil {
			v.logger.Warn("config rejected", "error", err)
		}
		return
	}
	*v.cfg = cfg
	if v.onApply != nil {
		v.onApply(v.cfg)
	}
	if v.cfgPath == "" {
		return
	}
	if err := v.cfg.Save(v.cfgPath); err != nil {
		if v.logger != nil {
			v.logger.Error("config save failed", "error", err)
		}
	} else if v.logger != nil {
		v.logger.Info("config saved", "path", v.cfgPath)
	}
}

// applyFields copies values into cfg for every field that parses.
func applyFields(cfg config.Config, fields []field, values map[string]string) config.Config {
	for _, f := range fields {
		s, ok := values[f.id]
		if !ok {
			continue
		}
		f.apply(&cfg, strings.TrimSpace(s))
	}
	return cfg
}

// parsing helpers (unexported)
func parseFloatField(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
func parseBoolLoose(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "t":
		return true, true
	case "false", "0", "no", "n", "off", "f":
		return false, true
	default:
		return false, false
	}
}
