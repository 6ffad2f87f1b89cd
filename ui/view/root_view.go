package view

import (
	"image"
	"log/slog"
	"strconv"
	"time"

	"github.com/soocke/hrm-go/config"
	"github.com/soocke/hrm-go/domain/heartrate"
	"github.com/soocke/hrm-go/domain/measurement"
	"github.com/soocke/hrm-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Sources lists the frame sources offered in the source selector, in display order.
var Sources = []string{config.SourceScreen, config.SourceCamera, config.SourceVideo, config.SourceSynthetic}

// Handlers are the user actions the root view forwards to presenters.
type Handlers struct {
	OnStart         func()
	OnStop          func()
	OnToggleCapture func()
	OnSelectionGrid func()
	OnToggleTheme   func()
	OnExit          func()
	OnSourceChanged func(source string)
	OnConfigApplied func(cfg *config.Config)
}

// RootView composes the top-level application layout and wires UI callbacks.
// It owns high-level subviews but exposes minimal exported fields for presenters.
type RootView struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger

	// Subviews
	Session     SessionStats
	ConfigPanel ConfigPanel
	CapturePrev CapturePreview
	Chart       ChartView

	// Widgets
	BPMLabel     *TLabelWidget
	StateLabel   *TLabelWidget
	StartBtn     *TButtonWidget
	StopBtn      *TButtonWidget
	SourceSelect *TComboboxWidget
	captureRow   int
}

// UI abstracts the subset of view operations needed by presenters, enabling decoupling
// from the concrete RootView implementation.
type UI interface {
	SetBPM(text string)
	SetChart(png []byte)
	SetStateLabel(text string)
	SetMeasuring(measuring bool)
	SetConfigEditable(enabled bool)
	UpdateCapture(img image.Image)
	UpdateDetection(img image.Image)
	SetSession(period, total time.Duration)
	SetRemaining(d time.Duration)
	PreviewReset()
	ConfigEditable(bool)
}

var _ UI = (*RootView)(nil)

func NewRootView(cfg *config.Config, cfgPath string, logger *slog.Logger) *RootView {
	return &RootView{cfg: cfg, cfgPath: cfgPath, logger: logger}
}

// Build constructs the layout and binds h to the buttons.
func (rv *RootView) Build(h Handlers) {
	if rv == nil {
		return
	}
	// Row 0: reading, state, session stats, buttons frame
	rv.BPMLabel = TLabel(Txt(heartrate.Placeholder), Style(theme.ReadingStyle(false)), Width(14))
	Grid(rv.BPMLabel, Row(0), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.3m"))
	rv.StateLabel = TLabel(Txt("State: idle"), Style(theme.StateStyle(false)))
	Grid(rv.StateLabel, Row(0), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.3m"))

	stats := Frame()
	Grid(stats, Row(0), Column(2), Columnspan(2), Sticky("w"), Padx("0.3m"))
	rv.Session = NewSessionStats(stats, 0, 0)

	btnFrame := Frame()
	Grid(btnFrame, Row(0), Column(4), Sticky("ne"), Padx("0.3m"), Pady("0.3m"))
	rv.StartBtn = TButton(Txt("Start"), Style(theme.StyleStartButton), Command(h.OnStart))
	Grid(rv.StartBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.StopBtn = TButton(Txt("Stop"), Style(theme.StyleStopButton), Command(h.OnStop), State("disabled"))
	Grid(rv.StopBtn, In(btnFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	captureBtn := Button(Txt("Toggle Capture"), Command(h.OnToggleCapture))
	Grid(captureBtn, In(btnFrame), Row(1), Column(0), Columnspan(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	rv.SourceSelect = TCombobox(Values(Sources), Width(26))
	Grid(rv.SourceSelect, In(btnFrame), Row(2), Column(0), Columnspan(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	rv.SourceSelect.Current(sourceIndex(rv.cfg))
	Bind(rv.SourceSelect, "<<ComboboxSelected>>", Command(func() {
		if rv.SourceSelect == nil || h.OnSourceChanged == nil {
			return
		}
		idx, err := strconv.Atoi(rv.SourceSelect.Current(nil))
		if err != nil || idx < 0 || idx >= len(Sources) {
			if rv.logger != nil {
				rv.logger.Error("source selection parse error", "error", err)
			}
			return
		}
		h.OnSourceChanged(Sources[idx])
	}))

	selectionBtn := Button(Txt("Selection Grid"), Command(h.OnSelectionGrid))
	Grid(selectionBtn, In(btnFrame), Row(3), Column(0), Columnspan(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	themeBtn := Button(Txt("Dark / Light"), Command(h.OnToggleTheme))
	Grid(themeBtn, In(btnFrame), Row(4), Column(0), Columnspan(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))
	exitBtn := Button(Txt("Exit"), Command(h.OnExit))
	Grid(exitBtn, In(btnFrame), Row(5), Column(0), Columnspan(2), Sticky("we"), Padx("0.2m"), Pady("0.2m"))

	// Config panel rows
	rv.ConfigPanel = NewConfigPanel(rv.cfg, rv.cfgPath, rv.logger, h.OnConfigApplied)
	endRow := rv.ConfigPanel.Build(1)
	rv.captureRow = endRow

	rv.CapturePrev = NewCapturePreview(rv.captureRow)
	rv.Chart = NewChartView(rv.captureRow+1, ChartW, ChartH)
}

func sourceIndex(cfg *config.Config) int {
	if cfg == nil {
		return 0
	}
	for i, s := range Sources {
		if s == cfg.Source {
			return i
		}
	}
	return 0
}

// SetBPM updates the heart-rate label.
func (rv *RootView) SetBPM(text string) {
	if rv != nil && rv.BPMLabel != nil {
		waiting := text == heartrate.Placeholder || text == measurement.MeasuringLabel
		rv.BPMLabel.Configure(Txt(text), Style(theme.ReadingStyle(!waiting)))
	}
}

// SetChart shows png in the chart panel, the placeholder when png is nil.
func (rv *RootView) SetChart(png []byte) {
	if rv != nil && rv.Chart != nil {
		rv.Chart.SetChart(png)
	}
}

// SetStateLabel updates the state label text.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetMeasuring enables Stop while measuring and Start otherwise. Start stays
// enabled during a measurement so it can restart the period.
func (rv *RootView) SetMeasuring(measuring bool) {
	if rv == nil || rv.StopBtn == nil {
		return
	}
	if rv.StateLabel != nil {
		rv.StateLabel.Configure(Style(theme.StateStyle(measuring)))
	}
	if measuring {
		rv.StopBtn.Configure(State("normal"))
		rv.StartBtn.Configure(Txt("Restart"))
		return
	}
	rv.StopBtn.Configure(State("disabled"))
	rv.StartBtn.Configure(Txt("Start"))
}

// SetConfigEditable toggles config panel editability.
func (rv *RootView) SetConfigEditable(enabled bool) {
	if rv != nil && rv.ConfigPanel != nil {
		rv.ConfigPanel.SetEditable(enabled)
	}
	if rv != nil && rv.SourceSelect != nil {
		state := "disabled"
		if enabled {
			state = "readonly"
		}
		rv.SourceSelect.Configure(State(state))
	}
}

// UpdateCapture proxies to underlying capture preview view.
func (rv *RootView) UpdateCapture(img image.Image) {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.UpdateCapture(img)
	}
}

// UpdateDetection proxies to underlying capture preview view.
func (rv *RootView) UpdateDetection(img image.Image) {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.UpdateDetection(img)
	}
}

// SetSession updates both period and total measuring durations.
func (rv *RootView) SetSession(period, total time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetSession(period)
	rv.Session.SetTotal(total)
}

func (rv *RootView) SetRemaining(d time.Duration) {
	if rv == nil || rv.Session == nil {
		return
	}
	rv.Session.SetRemaining(d)
}

// --- CapturePresenter view contract methods ---
// PreviewReset clears the capture preview canvas.
func (rv *RootView) PreviewReset() {
	if rv != nil && rv.CapturePrev != nil {
		rv.CapturePrev.Reset()
	}
}

// ConfigEditable redirects to SetConfigEditable to satisfy CaptureView interface.
func (rv *RootView) ConfigEditable(b bool) { rv.SetConfigEditable(b) }
