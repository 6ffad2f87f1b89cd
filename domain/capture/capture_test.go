package capture

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/soocke/hrm-go/config"
	"github.com/soocke/hrm-go/domain/face"
	"github.com/soocke/hrm-go/domain/heartrate"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeGrabber replays a script of results, then returns io.EOF.
type fakeGrabber struct {
	mu     sync.Mutex
	script []error // nil entry yields a frame
	calls  int
	closed bool
}

func (g *fakeGrabber) Grab() (*image.RGBA, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.calls >= len(g.script) {
		return nil, io.EOF
	}
	err := g.script[g.calls]
	g.calls++
	if err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func (g *fakeGrabber) Close() error {
	g.closed = true
	return nil
}

func waitStopped(t *testing.T, s CaptureService) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.Running() {
		if time.Now().After(deadline) {
			t.Fatalf("capture loop did not stop")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestCaptureService_CountsAndStopsOnEOF(t *testing.T) {
	g := &fakeGrabber{script: []error{nil, ErrNoFrame, nil, errors.New("device busy"), nil}}
	s := NewCaptureService(discardLogger, g, 500)
	s.Start()
	waitStopped(t, s)

	st := s.Stats()
	if st.Captures != 3 || st.Skipped != 1 || st.Errors != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
	snap := s.LatestFrame()
	if snap.Image == nil || snap.Sequence != 3 || st.Sequence != 3 {
		t.Fatalf("unexpected latest frame seq=%d", snap.Sequence)
	}
}

func TestCaptureService_StartStopIdempotent(t *testing.T) {
	g := &fakeGrabber{script: make([]error, 100000)}
	s := NewCaptureService(discardLogger, g, 1000)
	if s.LatestFrame().Image != nil {
		t.Fatalf("expected no frame before start")
	}
	s.Start()
	s.Start()
	if !s.Running() {
		t.Fatalf("expected running")
	}
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	s.Stop()
	if s.Running() {
		t.Fatalf("expected stopped")
	}
	seq := s.LatestFrame().Sequence
	if seq == 0 {
		t.Fatalf("expected frames while running")
	}
	time.Sleep(10 * time.Millisecond)
	if s.LatestFrame().Sequence != seq {
		t.Fatalf("frames captured after stop")
	}
}

func TestCaptureService_NilGrabber(t *testing.T) {
	s := NewCaptureService(nil, nil, 30)
	s.Start()
	if s.Running() {
		t.Fatalf("service without grabber must not run")
	}
}

func TestSyntheticGrabber_FrameLimit(t *testing.T) {
	g := NewSyntheticGrabber(SyntheticOptions{Width: 32, Height: 24, Frames: 2})
	for i := 0; i < 2; i++ {
		img, err := g.Grab()
		if err != nil || img.Bounds().Dx() != 32 {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if _, err := g.Grab(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestSyntheticGrabber_RecoversConfiguredRate(t *testing.T) {
	g := NewSyntheticGrabber(SyntheticOptions{FPS: 30, BPM: 72})
	values := make([]float64, 0, 300)
	for i := 0; i < 300; i++ {
		img, err := g.Grab()
		if err != nil {
			t.Fatalf("grab: %v", err)
		}
		forehead := face.Forehead(g.Face(), 0.2)
		v, ok := face.MeanSaturation(img, forehead)
		if !ok {
			t.Fatalf("no forehead scalar at frame %d", i)
		}
		values = append(values, v)
	}
	r := heartrate.Estimate(values, 30)
	if !r.Valid || r.BPM < 70 || r.BPM > 74 {
		t.Fatalf("expected ~72 BPM, got %+v", r)
	}
}

func TestNewGrabber(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Source = config.SourceSynthetic
	g, err := NewGrabber(cfg, nil)
	if err != nil {
		t.Fatalf("synthetic: %v", err)
	}
	if _, ok := g.(*SyntheticGrabber); !ok {
		t.Fatalf("expected synthetic grabber, got %T", g)
	}

	cfg.Source = config.SourceVideo
	cfg.VideoPath = ""
	if g, err := NewGrabber(cfg, nil); err == nil || g != nil {
		t.Fatalf("video without path must fail, got %v", g)
	}

	cfg.Source = config.SourceScreen
	if g, _ := NewGrabber(cfg, nil); g == nil {
		t.Fatalf("expected screen grabber")
	}

	cfg.Source = "nope"
	if _, err := NewGrabber(cfg, nil); err == nil {
		t.Fatalf("unknown source must fail")
	}
}

func TestSwitchGrabber(t *testing.T) {
	sw := NewSwitchGrabber(nil)
	if _, err := sw.Grab(); !errors.Is(err, ErrNoFrame) {
		t.Fatalf("empty switch should report ErrNoFrame, got %v", err)
	}
	first := &fakeGrabber{script: []error{nil}}
	if err := sw.Swap(first); err != nil {
		t.Fatalf("swap: %v", err)
	}
	if img, err := sw.Grab(); err != nil || img == nil {
		t.Fatalf("expected frame from first grabber, err=%v", err)
	}
	second := &fakeGrabber{}
	_ = sw.Swap(second)
	if !first.closed {
		t.Fatalf("previous grabber must be closed on swap")
	}
	if _, err := sw.Grab(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF from second grabber, got %v", err)
	}
	_ = sw.Close()
	if !second.closed {
		t.Fatalf("close must close the current grabber")
	}
}
