package capture

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const captureStatsLogInterval = 5 * time.Second

// CaptureService acquires frames from a Grabber and exposes the latest capture
// alongside instrumentation data. Use NewCaptureService to construct an instance.
type CaptureService interface {
	Start()
	Stop()
	LatestFrame() FrameSnapshot
	Running() bool
	Stats() CaptureStats
}

type captureService struct {
	running      atomic.Bool
	latest       atomic.Pointer[FrameSnapshot]
	grabber      Grabber
	interval     time.Duration
	logger       *slog.Logger
	captures     atomic.Uint64
	skipped      atomic.Uint64
	errors       atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64

	mu   sync.Mutex
	done chan struct{}
}

func newCaptureService(logger *slog.Logger, g Grabber, fps float64) *captureService {
	interval := time.Second / 30
	if fps > 0 {
		interval = time.Duration(float64(time.Second) / fps)
	}
	return &captureService{grabber: g, interval: interval, logger: logger}
}

// NewCaptureService constructs a capture service that grabs at most fps frames
// per second from g.
func NewCaptureService(logger *slog.Logger, g Grabber, fps float64) CaptureService {
	return newCaptureService(logger, g, fps)
}

func (s *captureService) LatestFrame() FrameSnapshot {
	snap := s.latest.Load()
	if snap == nil {
		return FrameSnapshot{}
	}
	return *snap
}

func (s *captureService) Running() bool { return s.running.Load() }

func (s *captureService) Stats() CaptureStats {
	captures := s.captures.Load()
	total := s.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	snapshot := s.LatestFrame()
	age := time.Duration(0)
	if !snapshot.CapturedAt.IsZero() {
		age = time.Since(snapshot.CapturedAt)
	}
	return CaptureStats{
		Captures:         captures,
		Skipped:          s.skipped.Load(),
		Errors:           s.errors.Load(),
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      snapshot.CapturedAt,
		LatestFrameAge:   age,
		Sequence:         snapshot.Sequence,
	}
}

func (s *captureService) Start() {
	if s.grabber == nil || !s.running.CompareAndSwap(false, true) {
		return
	}
	done := make(chan struct{})
	s.mu.Lock()
	s.done = done
	s.mu.Unlock()
	go s.loop(done)
}

// Stop requests the loop to exit and waits for the in-flight grab to finish.
func (s *captureService) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (s *captureService) loop(done chan struct{}) {
	defer close(done)
	defer func() {
		if r := recover(); r != nil {
			s.running.Store(false)
			if s.logger != nil {
				s.logger.Error("capture loop panic", "error", r)
			}
		}
	}()
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()
	next := time.Now()
	for s.running.Load() {
		if wait := time.Until(next); wait > 0 {
			time.Sleep(wait)
		}
		next = next.Add(s.interval)
		if now := time.Now(); next.Before(now) {
			// fell behind; don't burst to catch up
			next = now
		}

		start := time.Now()
		img, err := s.grabber.Grab()
		switch {
		case errors.Is(err, io.EOF):
			if s.logger != nil {
				s.logger.Info("capture source exhausted", "captures", s.captures.Load())
			}
			s.running.Store(false)
			return
		case errors.Is(err, ErrNoFrame):
			s.skipped.Add(1)
			continue
		case err != nil:
			s.errors.Add(1)
			if s.logger != nil {
				s.logger.Error("capture grab", "error", err)
			}
			continue
		case img == nil:
			s.skipped.Add(1)
			continue
		}

		elapsed := time.Since(start)
		s.captureNanos.Add(uint64(elapsed.Nanoseconds()))
		s.captures.Add(1)
		seq := s.sequence.Add(1)
		s.latest.Store(&FrameSnapshot{Image: img, CapturedAt: time.Now(), Sequence: seq})

		select {
		case <-logTicker.C:
			s.logStats()
		default:
		}
	}
}

func (s *captureService) logStats() {
	if s.logger == nil {
		return
	}
	stats := s.Stats()
	s.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"skipped", stats.Skipped,
		"errors", stats.Errors,
		"avg_capture", stats.AvgCapture,
		"age", stats.LatestFrameAge,
	)
}
