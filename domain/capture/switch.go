package capture

import (
	"image"
	"sync"
)

// SwitchGrabber forwards to a replaceable Grabber so the frame source can be
// changed without rebuilding the capture service. Grab returns ErrNoFrame
// while no grabber is set.
type SwitchGrabber struct {
	mu sync.Mutex
	g  Grabber
}

func NewSwitchGrabber(g Grabber) *SwitchGrabber { return &SwitchGrabber{g: g} }

// Swap installs g and closes the previous grabber.
func (s *SwitchGrabber) Swap(g Grabber) error {
	s.mu.Lock()
	prev := s.g
	s.g = g
	s.mu.Unlock()
	if prev != nil && prev != g {
		return prev.Close()
	}
	return nil
}

func (s *SwitchGrabber) Grab() (*image.RGBA, error) {
	s.mu.Lock()
	g := s.g
	s.mu.Unlock()
	if g == nil {
		return nil, ErrNoFrame
	}
	return g.Grab()
}

// Close closes the current grabber and leaves the switch empty.
func (s *SwitchGrabber) Close() error { return s.Swap(nil) }
