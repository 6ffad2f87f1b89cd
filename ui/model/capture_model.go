package model

import (
	"sync/atomic"
)

// CaptureModel tracks whether capture is enabled and which frame sequence was
// last consumed. The zero value is disabled and usable.
// Concurrency-safe because UI callbacks and presenter ticks may race.
type CaptureModel struct {
	enabled atomic.Bool
	lastSeq atomic.Uint64
	frames  atomic.Uint64
}

// Enabled reports whether capture is currently enabled.
func (m *CaptureModel) Enabled() bool {
	if m == nil {
		return false
	}
	return m.enabled.Load()
}

// SetEnabled stores the enabled flag. Disabling forgets the last sequence so a
// restarted service is picked up from its first frame.
func (m *CaptureModel) SetEnabled(b bool) {
	if m == nil {
		return
	}
	if m.enabled.Swap(b) == b {
		return
	}
	if !b {
		m.lastSeq.Store(0)
	}
}

// Observe records seq as consumed and reports whether it is a frame not seen
// before. Sequence zero means "no frame" and is never new.
func (m *CaptureModel) Observe(seq uint64) bool {
	if m == nil || seq == 0 {
		return false
	}
	for {
		prev := m.lastSeq.Load()
		if seq == prev {
			return false
		}
		if m.lastSeq.CompareAndSwap(prev, seq) {
			m.frames.Add(1)
			return true
		}
	}
}

// Frames reports how many distinct frames were observed.
func (m *CaptureModel) Frames() uint64 {
	if m == nil {
		return 0
	}
	return m.frames.Load()
}
