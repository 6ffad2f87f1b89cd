package presenter

import (
	"testing"

	cap "github.com/soocke/hrm-go/domain/capture"
)

type mockModel struct{ enabled bool }

func (m *mockModel) Enabled() bool     { return m.enabled }
func (m *mockModel) SetEnabled(b bool) { m.enabled = b }

type mockService struct{ started, stopped int }

func (s *mockService) Start()                         { s.started++ }
func (s *mockService) Stop()                          { s.stopped++ }
func (s *mockService) LatestFrame() cap.FrameSnapshot { return cap.FrameSnapshot{} }
func (s *mockService) Running() bool                  { return s.started > s.stopped }
func (s *mockService) Stats() cap.CaptureStats        { return cap.CaptureStats{} }

var _ cap.CaptureService = (*mockService)(nil)

type mockControl struct{ starts, stops int }

func (m *mockControl) Start() { m.starts++ }
func (m *mockControl) Stop()  { m.stops++ }

type mockView struct {
	reset, editableCalls int
	lastEditable         bool
}

func (v *mockView) PreviewReset()         { v.reset++ }
func (v *mockView) ConfigEditable(b bool) { v.editableCalls++; v.lastEditable = b }

func TestCapturePresenter_EnableDisable_Idempotent(t *testing.T) {
	m := &mockModel{}
	svc := &mockService{}
	ctl := &mockControl{}
	view := &mockView{}
	p := NewCapturePresenter(m, svc, ctl, view)

	p.Enable()
	if !m.Enabled() || svc.started != 1 || view.lastEditable || view.editableCalls != 1 {
		t.Fatalf("enable failed: enabled=%v started=%d editableCalls=%d lastEditable=%v", m.Enabled(), svc.started, view.editableCalls, view.lastEditable)
	}
	p.Enable()
	if svc.started != 1 {
		t.Fatalf("enable not idempotent: started=%d", svc.started)
	}

	p.Disable()
	if m.Enabled() || svc.stopped != 1 || ctl.stops != 1 || view.reset != 1 || !view.lastEditable || view.editableCalls != 2 {
		t.Fatalf("disable failed: enabled=%v stopped=%d stops=%d reset=%d editableCalls=%d", m.Enabled(), svc.stopped, ctl.stops, view.reset, view.editableCalls)
	}
	p.Disable()
	if svc.stopped != 1 || ctl.stops != 1 || view.reset != 1 {
		t.Fatalf("disable not idempotent: stopped=%d stops=%d reset=%d", svc.stopped, ctl.stops, view.reset)
	}
}

func TestCapturePresenter_Toggle(t *testing.T) {
	m := &mockModel{}
	svc := &mockService{}
	view := &mockView{}
	p := NewCapturePresenter(m, svc, &mockControl{}, view)
	p.Toggle()
	if !m.Enabled() || svc.started != 1 {
		t.Fatalf("toggle enable failed")
	}
	p.Toggle()
	if m.Enabled() || svc.stopped != 1 || view.reset != 1 {
		t.Fatalf("toggle disable failed")
	}
}

func TestCapturePresenter_StartStopMeasurement(t *testing.T) {
	m := &mockModel{}
	svc := &mockService{}
	ctl := &mockControl{}
	p := NewCapturePresenter(m, svc, ctl, &mockView{})

	p.StartMeasurement()
	if !m.Enabled() || svc.started != 1 || ctl.starts != 1 {
		t.Fatalf("start measurement should enable capture and start session")
	}
	p.StartMeasurement()
	if svc.started != 1 || ctl.starts != 2 {
		t.Fatalf("restart should not restart capture: started=%d starts=%d", svc.started, ctl.starts)
	}
	p.StopMeasurement()
	if ctl.stops != 1 || !m.Enabled() {
		t.Fatalf("stop measurement must keep capture running")
	}

	var nilPresenter *CapturePresenter
	nilPresenter.StartMeasurement()
	nilPresenter.Toggle()
}
