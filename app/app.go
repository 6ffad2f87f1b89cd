package app

import (
	"fmt"
	"log/slog"
	"time"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"

	"github.com/soocke/hrm-go/config"
	"github.com/soocke/hrm-go/debug"
	"github.com/soocke/hrm-go/ui/presenter"
	"github.com/soocke/hrm-go/ui/theme"
	"github.com/soocke/hrm-go/ui/view"
)

type app struct {
	title   string
	width   int
	height  int
	logger  *slog.Logger
	c       *AppContainer
	tick    time.Duration
	afterID string
	closed  bool
}

// NewApp prepares the application window and all components behind it.
func NewApp(title string, width, height int, cfg *config.Config, cfgPath string, logger *slog.Logger) *app {
	c := BuildContainer(cfg, logger, cfgPath)
	return &app{
		title:  title,
		width:  width,
		height: height,
		logger: logger,
		c:      c,
		tick:   time.Duration(c.Config.SampleIntervalMs) * time.Millisecond,
	}
}

// Start builds the UI, runs the Tk event loop and tears everything down when
// the window closes.
func (a *app) Start() {
	theme.InitStyles()
	App.WmTitle(a.title)
	WmProtocol(App, "WM_DELETE_WINDOW", a.exitHandler)
	WmGeometry(App, fmt.Sprintf("%dx%d+100+100", a.width, a.height))

	c := a.c
	c.RootView.Build(view.Handlers{
		OnStart:         c.CapturePresenter.StartMeasurement,
		OnStop:          c.CapturePresenter.StopMeasurement,
		OnToggleCapture: c.CapturePresenter.Toggle,
		OnSelectionGrid: c.Selection.OpenOrFocus,
		OnToggleTheme: func() {
			theme.ToggleDark()
			c.HeartRatePresenter.Restyle()
		},
		OnExit:          a.exitHandler,
		OnSourceChanged: func(source string) {
			if err := c.SwitchSource(source); err != nil && a.logger != nil {
				a.logger.Error("source change", "error", err, "source", source)
			}
		},
		OnConfigApplied: c.Reconfigure,
	})

	estimateEvery := time.Duration(c.Config.EstimateIntervalMs) * time.Millisecond
	c.Loop = presenter.NewLoop(c.Measurement, c.StatePresenter, c.SessionPresenter, c.SamplingPresenter,
		c.HeartRatePresenter, estimateEvery, a.scheduleUpdate)
	a.scheduleUpdate()

	if a.logger != nil {
		a.logger.Info("app started", "source", c.Config.Source, "frame_rate", c.Config.FrameRate,
			"session_seconds", c.Config.SessionSeconds)
	}
	App.Wait()
	a.shutdown()
}

// Gauges exposes pipeline counters for the debug memory logger.
func (a *app) Gauges() []debug.Gauge {
	c := a.c
	return []debug.Gauge{
		{Name: "buffered_samples", Value: func() uint64 { return uint64(c.Measurement.Len()) }},
		{Name: "frames", Value: c.Capture.Frames},
		{Name: "samples_ingested", Value: c.SamplingPresenter.Ingested},
		{Name: "frames_dropped", Value: c.SamplingPresenter.Dropped},
	}
}

func (a *app) exitHandler() {
	// Cancel scheduled after event if any.
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
		a.afterID = ""
	}
	a.closed = true
	Destroy(App)
}

func (a *app) scheduleUpdate() {
	if a.closed {
		return
	}
	// TclAfter keeps every presenter tick on Tk's event loop thread.
	a.afterID = TclAfter(a.tick, func() { a.c.Loop.Tick() })
}

func (a *app) shutdown() {
	a.c.Close()
	if a.logger != nil {
		stats := a.c.CaptureSvc.Stats()
		a.logger.Info("app stopped",
			"captures", stats.Captures,
			"frames", a.c.Capture.Frames(),
			"samples_ingested", a.c.SamplingPresenter.Ingested(),
			"frames_dropped", a.c.SamplingPresenter.Dropped(),
			"periods_completed", a.c.Session.Completed(),
		)
	}
}
