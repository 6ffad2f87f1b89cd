package model

import (
	"image"
	"sync"
)

// DetectionModel holds the most recent face and forehead rectangles in frame
// coordinates. Results arrive from the sampling worker while the view reads on
// the UI tick, so access is guarded.
type DetectionModel struct {
	mu       sync.RWMutex
	face     image.Rectangle
	forehead image.Rectangle
	misses   int
}

func NewDetectionModel() *DetectionModel { return &DetectionModel{} }

// SetFace stores a detection. An empty face clears both rectangles and counts
// as a miss.
func (m *DetectionModel) SetFace(face, forehead image.Rectangle) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if face.Empty() {
		m.face, m.forehead = image.Rectangle{}, image.Rectangle{}
		m.misses++
		return
	}
	m.face, m.forehead = face, forehead
	m.misses = 0
}

// Clear forgets the last detection without counting a miss.
func (m *DetectionModel) Clear() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.face, m.forehead = image.Rectangle{}, image.Rectangle{}
	m.misses = 0
	m.mu.Unlock()
}

// Face returns the current face rectangle (may be empty).
func (m *DetectionModel) Face() image.Rectangle {
	if m == nil {
		return image.Rectangle{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.face
}

// Forehead returns the current forehead rectangle (may be empty).
func (m *DetectionModel) Forehead() image.Rectangle {
	if m == nil {
		return image.Rectangle{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.forehead
}

// Misses reports consecutive frames without a face.
func (m *DetectionModel) Misses() int {
	if m == nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.misses
}
