package measurement

import (
	"log/slog"
	"sync"
	"time"

	"github.com/soocke/hrm-go/domain/signal"
)

// Options configures a Session. Zero values select defaults.
type Options struct {
	Duration time.Duration // length of one measuring period
	Capacity int           // initial buffer capacity in samples
	Clock    Clock
}

// Session owns the sample buffer and the Idle/Measuring state machine.
// It is concurrency-safe; sampling, estimation and UI callbacks may call it
// from any goroutine. Auto-stop is a stored deadline compared against the
// clock on every observation, so a new Start simply replaces it.
type Session struct {
	mu        sync.Mutex
	state     State
	logger    *slog.Logger
	clock     Clock
	duration  time.Duration
	startedAt time.Time
	deadline  time.Time
	buffer    *signal.Buffer
	listeners []StateListener
}

// NewSession constructs an idle session.
func NewSession(logger *slog.Logger, opts Options) *Session {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Capacity <= 0 {
		// 60 s at 30 fps
		opts.Capacity = 1800
	}
	return &Session{
		state:    StateIdle,
		logger:   logger,
		clock:    opts.Clock,
		duration: opts.Duration,
		buffer:   signal.NewBuffer(opts.Capacity),
	}
}

// AddListener registers a listener for state transitions.
func (s *Session) AddListener(l StateListener) {
	if l == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

// Start begins a new measuring period, discarding samples of the previous one.
// Calling Start while measuring restarts the period and re-arms the deadline.
func (s *Session) Start() {
	now := s.clock()
	s.mu.Lock()
	prev := s.state
	s.buffer.Clear()
	s.startedAt = now
	s.deadline = now.Add(s.duration)
	s.state = StateMeasuring
	listeners := s.listeners
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Info("measurement started", "restart", prev == StateMeasuring, "deadline", s.duration)
	}
	s.notify(listeners, prev, StateMeasuring)
}

// Stop ends the measuring period. Collected samples stay readable until the next Start.
func (s *Session) Stop() {
	s.mu.Lock()
	changed := s.stopLocked()
	listeners := s.listeners
	n := s.buffer.Len()
	s.mu.Unlock()
	if !changed {
		return
	}
	if s.logger != nil {
		s.logger.Info("measurement stopped", "reason", "manual", "samples", n)
	}
	s.notify(listeners, StateMeasuring, StateIdle)
}

// SetDuration changes the period length used by the next Start. A running
// period keeps its deadline.
func (s *Session) SetDuration(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	s.duration = d
	s.mu.Unlock()
}

// Duration reports the configured period length.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

// Tick applies the auto-stop deadline at now.
func (s *Session) Tick(now time.Time) {
	s.expire(now)
}

// Current reports the state as observed at the session clock's current time.
func (s *Session) Current() State {
	s.expire(s.clock())
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Ingest appends value sampled at wall-clock time at. It is a silent no-op
// unless the session is measuring at that instant and at is not earlier than
// the start of the current period. It reports whether the sample was stored.
func (s *Session) Ingest(value float64, at time.Time) bool {
	s.expire(at)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateMeasuring || at.Before(s.startedAt) {
		return false
	}
	s.buffer.Append(value, at.Sub(s.startedAt).Seconds())
	return true
}

// Snapshot returns a consistent copy of the current period's samples.
func (s *Session) Snapshot() []signal.Sample { return s.buffer.Snapshot() }

// Len reports how many samples the current period holds.
func (s *Session) Len() int { return s.buffer.Len() }

// StartedAt returns the start of the most recent period (zero if never started).
func (s *Session) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// Deadline returns the auto-stop instant of the most recent period.
func (s *Session) Deadline() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deadline
}

// Elapsed reports time spent in the current period, capped at the period length.
func (s *Session) Elapsed(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startedAt.IsZero() {
		return 0
	}
	d := now.Sub(s.startedAt)
	if d < 0 {
		return 0
	}
	if d > s.duration {
		return s.duration
	}
	return d
}

// Remaining reports time until auto-stop, zero when idle.
func (s *Session) Remaining(now time.Time) time.Duration {
	s.expire(now)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateMeasuring {
		return 0
	}
	return s.deadline.Sub(now)
}

func (s *Session) expire(now time.Time) {
	s.mu.Lock()
	if s.state != StateMeasuring || now.Before(s.deadline) {
		s.mu.Unlock()
		return
	}
	s.stopLocked()
	listeners := s.listeners
	n := s.buffer.Len()
	s.mu.Unlock()
	if s.logger != nil {
		s.logger.Info("measurement stopped", "reason", "auto", "samples", n)
	}
	s.notify(listeners, StateMeasuring, StateIdle)
}

func (s *Session) stopLocked() bool {
	if s.state != StateMeasuring {
		return false
	}
	s.state = StateIdle
	return true
}

func (s *Session) notify(listeners []StateListener, prev, next State) {
	for _, l := range listeners {
		func() {
			defer recoverLog(s.logger, "session listener panic")
			l(prev, next)
		}()
	}
}

func recoverLog(logger *slog.Logger, msg string) {
	if r := recover(); r != nil {
		if logger != nil {
			logger.Error(msg, "error", r)
		}
	}
}

// Ensure contract satisfaction
var _ SessionContract = (*Session)(nil)
