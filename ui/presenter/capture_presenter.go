package presenter

import (
	"github.com/soocke/hrm-go/domain/capture"
)

// CaptureModel provides enabled state access.
type CaptureModel interface {
	Enabled() bool
	SetEnabled(bool)
}

// LifecycleContract narrows what presenter needs from the capture layer.
type LifecycleContract interface {
	Start()
	Stop()
}

// MeasurementControl starts and stops measuring periods.
type MeasurementControl interface {
	Start()
	Stop()
}

// CaptureView updates UI elements affected by capture toggling.
type CaptureView interface {
	PreviewReset()
	ConfigEditable(bool)
}

// CapturePresenter owns presentation logic for toggling capture and for the
// Start/Stop measurement buttons.
type CapturePresenter struct {
	model   CaptureModel
	service LifecycleContract // narrowed from full capture.CaptureService
	session MeasurementControl
	view    CaptureView
}

func NewCapturePresenter(model CaptureModel, service capture.CaptureService, session MeasurementControl, view CaptureView) *CapturePresenter {
	return &CapturePresenter{model: model, service: service, session: session, view: view}
}

func (c *CapturePresenter) ready() bool {
	return c != nil && c.model != nil && c.service != nil && c.view != nil && c.session != nil
}

// Enable starts the capture service and locks the config panel. Idempotent.
func (c *CapturePresenter) Enable() {
	if !c.ready() || c.model.Enabled() {
		return
	}
	c.service.Start()
	c.model.SetEnabled(true)
	c.view.ConfigEditable(false)
}

// Disable ends any measurement, stops the capture service and resets the preview. Idempotent.
func (c *CapturePresenter) Disable() {
	if !c.ready() || !c.model.Enabled() {
		return
	}
	c.session.Stop()
	c.service.Stop()
	c.model.SetEnabled(false)
	c.view.PreviewReset()
	c.view.ConfigEditable(true)
}

// Toggle flips enabled state delegating to Enable/Disable.
func (c *CapturePresenter) Toggle() {
	if !c.ready() {
		return
	}
	if c.model.Enabled() {
		c.Disable()
		return
	}
	c.Enable()
}

// StartMeasurement enables capture if needed and starts a new measuring
// period. Pressing it while measuring restarts the period.
func (c *CapturePresenter) StartMeasurement() {
	if !c.ready() {
		return
	}
	c.Enable()
	c.session.Start()
}

// StopMeasurement ends the current period. Capture keeps running.
func (c *CapturePresenter) StopMeasurement() {
	if !c.ready() {
		return
	}
	c.session.Stop()
}
