package measurement

import (
	"time"

	"github.com/soocke/hrm-go/domain/heartrate"
	"github.com/soocke/hrm-go/domain/signal"
)

// State enumerates the finite states of a measurement session.
type State int

const (
	StateIdle State = iota
	StateMeasuring
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMeasuring:
		return "measuring"
	default:
		return "unknown"
	}
}

// DefaultDuration is the fixed length of one measuring period.
const DefaultDuration = 60 * time.Second

// MeasuringLabel is displayed while samples are collected but no estimate exists yet.
const MeasuringLabel = "Measuring..."

// StateListener is called on each state transition, outside the session lock.
type StateListener func(prev, next State)

// Clock returns the current time. Tests substitute a fake.
type Clock func() time.Time

// Interface slices for consumers (presenters).
type StateSource interface{ Current() State }
type SampleSink interface {
	Ingest(value float64, at time.Time) bool
}
type SampleSource interface {
	Snapshot() []signal.Sample
}
type Lifecycle interface {
	Start()
	Stop()
	Tick(now time.Time)
}
type Timing interface {
	Elapsed(now time.Time) time.Duration
	Remaining(now time.Time) time.Duration
}

// SessionContract aggregate for DI.
type SessionContract interface {
	StateSource
	SampleSink
	SampleSource
	Lifecycle
	Timing
	AddListener(StateListener)
}

// Status renders the label shown for a session state and the latest reading.
// Idle always shows the placeholder, even if a valid reading exists.
func Status(s State, r heartrate.Reading) string {
	if s != StateMeasuring {
		return heartrate.Placeholder
	}
	if !r.Valid {
		return MeasuringLabel
	}
	return r.Label()
}
