package capture

import (
	"errors"
	"image"
	"time"
)

// ErrNoFrame reports that a grabber has nothing to deliver right now. The
// service counts it as a skip and tries again on the next interval.
var ErrNoFrame = errors.New("capture: no frame available")

// Grabber produces frames from one source. Grab may return io.EOF when a finite
// source is exhausted; the capture loop then stops.
type Grabber interface {
	Grab() (*image.RGBA, error)
	Close() error
}

// FrameSnapshot carries the latest captured frame and metadata.
type FrameSnapshot struct {
	Image      *image.RGBA
	CapturedAt time.Time
	Sequence   uint64
}

// CaptureStats summarises capture loop behaviour for instrumentation.
type CaptureStats struct {
	Captures         uint64
	Skipped          uint64
	Errors           uint64
	AvgCapture       time.Duration
	AvgCaptureMicros float64
	LastCapture      time.Time
	LatestFrameAge   time.Duration
	Sequence         uint64
}

// FrameSource provides read-only access to captured frames.
// LatestFrame returns the freshest snapshot while Running reports activity.
type FrameSource interface {
	LatestFrame() FrameSnapshot
	Running() bool
}

// ServiceContract exposes basic lifecycle control for capture services.
type ServiceContract interface {
	Start()
	Stop()
	Running() bool
}
