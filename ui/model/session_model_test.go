package model

import (
	"image"
	"sync"
	"testing"
	"time"
)

func TestSessionModel_BasicLifecycle(t *testing.T) {
	m := NewSessionModel()
	base := time.Unix(0, 0)

	// Measure for 5s.
	m.OnTick(true, base)
	m.OnTick(true, base.Add(5*time.Second))
	period, total := m.Values()
	if period != 5*time.Second || total != 5*time.Second {
		t.Fatalf("expected 5s period & total; got period=%v total=%v", period, total)
	}

	// Stop at 5s.
	m.OnTick(false, base.Add(5*time.Second))
	period, total = m.Values()
	if period != 5*time.Second || total != 5*time.Second || m.Completed() != 1 {
		t.Fatalf("after stop expected persisted 5s; got period=%v total=%v", period, total)
	}

	// Idle ticks change nothing.
	m.OnTick(false, base.Add(7*time.Second))
	p2, t2 := m.Values()
	if p2 != period || t2 != total {
		t.Fatalf("idle tick changed durations: %v %v", p2, t2)
	}

	// Second period at 10s lasting 3s.
	m.OnTick(true, base.Add(10*time.Second))
	m.OnTick(true, base.Add(13*time.Second))
	p3, t3 := m.Values()
	if p3 != 3*time.Second || t3 != 8*time.Second {
		t.Fatalf("expected 3s period, 8s total; got %v %v", p3, t3)
	}

	m.OnTick(false, base.Add(13*time.Second))
	if _, tf := m.Values(); tf != 8*time.Second || m.Completed() != 2 {
		t.Fatalf("final total %v completed %d", tf, m.Completed())
	}
}

func TestSessionModel_Restart(t *testing.T) {
	m := NewSessionModel()
	base := time.Unix(0, 0)
	m.OnTick(true, base)
	m.Restart(base.Add(4 * time.Second))
	m.OnTick(true, base.Add(6*time.Second))
	period, total := m.Values()
	if period != 2*time.Second || total != 6*time.Second {
		t.Fatalf("expected period 2s total 6s, got %v %v", period, total)
	}
	if m.Completed() != 0 {
		t.Fatalf("restart must not count as completed")
	}
}

func TestCaptureModel_Observe(t *testing.T) {
	var m CaptureModel
	if m.Observe(0) {
		t.Fatalf("sequence 0 is never a frame")
	}
	if !m.Observe(1) || m.Observe(1) || !m.Observe(2) {
		t.Fatalf("unexpected observe results")
	}
	if m.Frames() != 2 {
		t.Fatalf("expected 2 frames, got %d", m.Frames())
	}
	m.SetEnabled(true)
	m.SetEnabled(false)
	if !m.Observe(2) {
		t.Fatalf("disable should reset the last sequence")
	}
	var nilModel *CaptureModel
	if nilModel.Enabled() || nilModel.Observe(3) {
		t.Fatalf("nil model must be inert")
	}
}

func TestDetectionModel(t *testing.T) {
	m := NewDetectionModel()
	face := image.Rect(10, 10, 60, 80)
	fh := image.Rect(10, 10, 60, 24)
	m.SetFace(face, fh)
	if m.Face() != face || m.Forehead() != fh || m.Misses() != 0 {
		t.Fatalf("unexpected state")
	}
	m.SetFace(image.Rectangle{}, fh)
	m.SetFace(image.Rectangle{}, fh)
	if !m.Face().Empty() || !m.Forehead().Empty() || m.Misses() != 2 {
		t.Fatalf("miss not recorded: %v %d", m.Face(), m.Misses())
	}
	m.Clear()
	if m.Misses() != 0 {
		t.Fatalf("clear should reset misses")
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.SetFace(face, fh)
				_ = m.Face()
			}
		}()
	}
	wg.Wait()
}
