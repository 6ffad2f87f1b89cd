package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/soocke/hrm-go/config"
	"github.com/soocke/hrm-go/domain/capture"
	"github.com/soocke/hrm-go/domain/face"
	"github.com/soocke/hrm-go/domain/heartrate"
	"github.com/soocke/hrm-go/domain/measurement"
	"github.com/soocke/hrm-go/publish"
	"github.com/soocke/hrm-go/ui/model"
	"github.com/soocke/hrm-go/ui/presenter"
	"github.com/soocke/hrm-go/ui/theme"
	"github.com/soocke/hrm-go/ui/view"
)

// ErrCaptureRunning is returned when the frame source is changed while capturing.
var ErrCaptureRunning = errors.New("app: stop capture before changing the source")

// AppContainer assembles models, services, presenters and the root view.
type AppContainer struct {
	Config  *config.Config
	CfgPath string
	Logger  *slog.Logger

	// Models
	Capture   *model.CaptureModel
	Session   *model.SessionModel
	Detection *model.DetectionModel

	// Domain
	Measurement *measurement.Session
	Estimator   *heartrate.Estimator
	Grabber     *capture.SwitchGrabber
	CaptureSvc  capture.CaptureService

	// Outbound
	Publisher *publish.Multi
	Hub       *publish.Hub
	Server    *http.Server

	// Views
	Selection view.SelectionOverlay
	RootView  *view.RootView
	UI        view.UI

	// Presenters
	CapturePresenter   *presenter.CapturePresenter
	SamplingPresenter  *presenter.SamplingPresenter
	HeartRatePresenter *presenter.HeartRatePresenter
	StatePresenter     *presenter.StatePresenter
	SessionPresenter   *presenter.SessionPresenter
	Loop               *presenter.Loop
}

// BuildContainer constructs all components. No widgets are created; the root
// view is built by the app once Tk is ready. Failing optional parts (frame
// source, detector assets, NATS) are logged and replaced by a fallback.
func BuildContainer(cfg *config.Config, logger *slog.Logger, cfgPath string) *AppContainer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	_ = cfg.Validate()
	c := &AppContainer{Config: cfg, CfgPath: cfgPath, Logger: logger}
	c.Capture = &model.CaptureModel{}
	c.Session = model.NewSessionModel()
	c.Detection = model.NewDetectionModel()

	period := time.Duration(cfg.SessionSeconds) * time.Second
	c.Measurement = measurement.NewSession(logger, measurement.Options{
		Duration: period,
		Capacity: int(cfg.FrameRate * float64(cfg.SessionSeconds)),
	})
	c.Estimator = newEstimator(cfg)

	c.Selection = view.NewSelectionOverlay(cfg, cfgPath, logger)
	c.Grabber = capture.NewSwitchGrabber(nil)
	if g, err := capture.NewGrabber(cfg, c.Selection.ActiveRect); err != nil {
		c.logError("frame source unavailable", err, "source", cfg.Source)
	} else {
		_ = c.Grabber.Swap(g)
	}
	c.CaptureSvc = capture.NewCaptureService(logger, c.Grabber, cfg.FrameRate)

	c.Publisher = publish.NewMulti()
	if cfg.NATSURL != "" {
		if p, err := publish.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubject); err != nil {
			c.logError("nats publisher disabled", err, "url", cfg.NATSURL)
		} else {
			c.Publisher.Add(p)
		}
	}
	if cfg.HTTPAddr != "" {
		c.Hub = publish.NewHub()
		c.Server = c.Hub.Serve(cfg.HTTPAddr, logger)
		c.Publisher.Add(c.Hub)
	}
	var pub publish.Publisher
	if c.Publisher.Len() > 0 {
		pub = c.Publisher
	}

	c.RootView = view.NewRootView(cfg, cfgPath, logger)
	c.UI = c.RootView

	c.CapturePresenter = presenter.NewCapturePresenter(c.Capture, c.CaptureSvc, c.Measurement, c.UI)
	c.SamplingPresenter = presenter.NewSamplingPresenter(c.Capture.Enabled, c.CaptureSvc, c.Measurement,
		c.newDetector(cfg), c.Capture, c.UI, c.Detection, cfg.ForeheadFraction, logger)
	c.HeartRatePresenter = presenter.NewHeartRatePresenter(c.Measurement, c.Estimator, c.UI, pub,
		float64(cfg.SessionSeconds), view.ChartW, view.ChartH, logger)
	c.HeartRatePresenter.Colors = theme.ChartColors
	c.StatePresenter = presenter.NewStatePresenter(c.UI)
	c.SessionPresenter = presenter.NewSessionPresenter(c.Session, c.Measurement, c.UI)
	c.Measurement.AddListener(c.StatePresenter.OnState)
	c.Measurement.AddListener(c.SessionPresenter.OnState)
	c.Measurement.AddListener(c.HeartRatePresenter.OnState)
	return c
}

func newEstimator(cfg *config.Config) *heartrate.Estimator {
	est := heartrate.NewEstimator(cfg.FrameRate)
	est.MinSeconds = cfg.MinSeconds
	if cfg.BandPass {
		est.Filter = &heartrate.BandPass{LowHz: cfg.BandLowHz, HighHz: cfg.BandHighHz}
	}
	return est
}

func (c *AppContainer) newDetector(cfg *config.Config) face.Detector {
	d, err := face.NewDetector(cfg)
	if err != nil {
		c.logError("face detector fallback to fixed box", err)
		return face.FixedDetector{Box: face.Region{X: cfg.FaceBoxX, Y: cfg.FaceBoxY, W: cfg.FaceBoxW, H: cfg.FaceBoxH}}
	}
	return d
}

// SwitchSource changes the frame source. Capture must be disabled.
func (c *AppContainer) SwitchSource(source string) error {
	if c.Capture.Enabled() {
		return ErrCaptureRunning
	}
	next := *c.Config
	next.Source = source
	_ = next.Validate()
	g, err := capture.NewGrabber(&next, c.Selection.ActiveRect)
	if err != nil {
		return fmt.Errorf("app: switch to %s: %w", source, err)
	}
	if err := c.Grabber.Swap(g); err != nil {
		c.logError("close previous source", err)
	}
	c.Config.Source = next.Source
	if c.Logger != nil {
		c.Logger.Info("frame source changed", "source", next.Source)
	}
	return c.save()
}

// Reconfigure applies an accepted config to the running components. The
// session length takes effect with the next Start.
func (c *AppContainer) Reconfigure(cfg *config.Config) {
	if cfg == nil {
		return
	}
	est := newEstimator(cfg)
	*c.Estimator = *est
	c.Measurement.SetDuration(time.Duration(cfg.SessionSeconds) * time.Second)
	c.HeartRatePresenter.Window = float64(cfg.SessionSeconds)
	c.SamplingPresenter.ForeheadFraction = cfg.ForeheadFraction
	c.SamplingPresenter.Detector = c.newDetector(cfg)
	// video path or synthetic rate may have changed
	if !c.Capture.Enabled() {
		if err := c.SwitchSource(cfg.Source); err != nil {
			c.logError("reopen frame source", err, "source", cfg.Source)
		}
	}
}

func (c *AppContainer) save() error {
	if c.CfgPath == "" {
		return nil
	}
	return c.Config.Save(c.CfgPath)
}

// Close stops capture and releases the frame source and publishers.
func (c *AppContainer) Close() {
	c.Measurement.Stop()
	c.CaptureSvc.Stop()
	c.SamplingPresenter.Close()
	if err := c.Grabber.Close(); err != nil {
		c.logError("close frame source", err)
	}
	if err := c.Publisher.Close(); err != nil {
		c.logError("close publishers", err)
	}
	if c.Server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(ctx); err != nil {
			c.logError("http shutdown", err)
		}
	}
}

func (c *AppContainer) logError(msg string, err error, args ...any) {
	if c.Logger == nil {
		return
	}
	c.Logger.Error(msg, append([]any{"error", err}, args...)...)
}
