package signal

import "sync"

// Sample is one scalar reading taken at Elapsed seconds after session start.
type Sample struct {
	Value   float64
	Elapsed float64
}

// Buffer is an append-only sequence of samples. It is safe for concurrent use:
// Append, Clear and Snapshot are mutually exclusive, so a snapshot never observes
// a buffer that is being cleared. The zero value is ready to use.
type Buffer struct {
	mu      sync.Mutex
	samples []Sample
}

// NewBuffer returns a Buffer with room for capacity samples before growing.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{samples: make([]Sample, 0, capacity)}
}

// Append adds one sample. Elapsed values that would go backwards are pinned to the
// previous sample's time so the sequence stays non-decreasing.
func (b *Buffer) Append(value, elapsed float64) {
	if elapsed < 0 {
		elapsed = 0
	}
	b.mu.Lock()
	if n := len(b.samples); n > 0 && elapsed < b.samples[n-1].Elapsed {
		elapsed = b.samples[n-1].Elapsed
	}
	b.samples = append(b.samples, Sample{Value: value, Elapsed: elapsed})
	b.mu.Unlock()
}

// Clear removes all samples, keeping the allocated capacity.
func (b *Buffer) Clear() {
	b.mu.Lock()
	clear(b.samples)
	b.samples = b.samples[:0]
	b.mu.Unlock()
}

// Len reports the number of samples currently held.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples)
}

// Snapshot returns a copy of the samples in append order.
func (b *Buffer) Snapshot() []Sample {
	b.mu.Lock()
	out := make([]Sample, len(b.samples))
	copy(out, b.samples)
	b.mu.Unlock()
	return out
}

// Values returns the sample values of s in order.
func Values(s []Sample) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = v.Value
	}
	return out
}

// Times returns the elapsed times of s in order.
func Times(s []Sample) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = v.Elapsed
	}
	return out
}
