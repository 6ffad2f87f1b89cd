// Package publish forwards heart-rate readings to external consumers.
package publish

import (
	"errors"
	"sync"
)

// Reading is the wire form of one estimate, encoded as JSON.
type Reading struct {
	Ts      int64  `json:"ts"` // unix milliseconds
	BPM     int    `json:"bpm"`
	Valid   bool   `json:"valid"`
	State   string `json:"state"`
	Samples int    `json:"samples"`
	Label   string `json:"label"`
}

// Publisher sends readings somewhere.
type Publisher interface {
	Publish(Reading) error
}

// Closer is implemented by publishers holding connections.
type Closer interface {
	Close() error
}

// Multi fans a reading out to several publishers. Every publisher is tried;
// errors are joined.
type Multi struct {
	mu   sync.RWMutex
	pubs []Publisher
}

// NewMulti returns a Multi over pubs, skipping nil entries.
func NewMulti(pubs ...Publisher) *Multi {
	m := &Multi{}
	for _, p := range pubs {
		m.Add(p)
	}
	return m
}

func (m *Multi) Add(p Publisher) {
	if p == nil {
		return
	}
	m.mu.Lock()
	m.pubs = append(m.pubs, p)
	m.mu.Unlock()
}

// Len reports how many publishers are attached.
func (m *Multi) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pubs)
}

func (m *Multi) Publish(r Reading) error {
	m.mu.RLock()
	pubs := m.pubs
	m.mu.RUnlock()
	var errs []error
	for _, p := range pubs {
		if err := p.Publish(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every publisher that implements Closer.
func (m *Multi) Close() error {
	m.mu.Lock()
	pubs := m.pubs
	m.pubs = nil
	m.mu.Unlock()
	var errs []error
	for _, p := range pubs {
		if c, ok := p.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
