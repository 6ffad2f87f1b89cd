package measurement

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/soocke/hrm-go/domain/heartrate"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

func newTestSession() (*Session, *fakeClock) {
	clk := &fakeClock{now: time.Unix(1000, 0)}
	return NewSession(discardLogger, Options{Clock: clk.Now}), clk
}

type transitionRecorder struct {
	mu  sync.Mutex
	seq []State
}

// listener records transitions.
func (r *transitionRecorder) listener(prev, next State) {
	r.mu.Lock()
	r.seq = append(r.seq, next)
	r.mu.Unlock()
}

func TestSession_StartsIdle(t *testing.T) {
	s, _ := newTestSession()
	if s.Current() != StateIdle {
		t.Fatalf("expected idle, got %v", s.Current())
	}
	if s.Ingest(1, time.Now()) {
		t.Fatalf("ingest while idle must be dropped")
	}
	if s.Len() != 0 {
		t.Fatalf("buffer grew while idle")
	}
}

func TestSession_IngestOnlyWhileMeasuring(t *testing.T) {
	s, clk := newTestSession()
	base := clk.Now()
	s.Start()
	if s.Len() != 0 {
		t.Fatalf("buffer must be empty at start")
	}
	prev := 0
	for i := 1; i <= 30; i++ {
		at := base.Add(time.Duration(i) * 33 * time.Millisecond)
		if !s.Ingest(float64(i), at) {
			t.Fatalf("sample %d dropped while measuring", i)
		}
		if n := s.Len(); n < prev {
			t.Fatalf("buffer shrank: %d -> %d", prev, n)
		}
		prev = s.Len()
	}
	s.Stop()
	if s.Ingest(99, base.Add(2*time.Second)) {
		t.Fatalf("ingest after stop must be dropped")
	}
	if s.Len() != 30 {
		t.Fatalf("expected 30 samples kept after stop, got %d", s.Len())
	}
	snap := s.Snapshot()
	if snap[0].Elapsed <= 0 || snap[29].Elapsed < 0.98 || snap[29].Elapsed > 1 {
		t.Fatalf("unexpected elapsed values: first=%v last=%v", snap[0].Elapsed, snap[29].Elapsed)
	}
}

func TestSession_RestartDiscardsSamples(t *testing.T) {
	s, clk := newTestSession()
	s.Start()
	for i := 0; i < 40; i++ {
		s.Ingest(float64(i), clk.Now())
	}
	if s.Len() != 40 {
		t.Fatalf("expected 40 samples, got %d", s.Len())
	}
	clk.Set(clk.Now().Add(10 * time.Second))
	s.Start()
	if s.Len() != 0 {
		t.Fatalf("restart should clear buffer, got %d", s.Len())
	}
	s.Ingest(7, clk.Now().Add(time.Second))
	snap := s.Snapshot()
	if len(snap) != 1 || snap[0].Value != 7 {
		t.Fatalf("expected only the new sample, got %+v", snap)
	}
}

func TestSession_StaleSampleAfterRestartDropped(t *testing.T) {
	s, clk := newTestSession()
	base := clk.Now()
	s.Start()
	for i := 0; i < 40; i++ {
		s.Ingest(float64(i), base.Add(time.Duration(i)*100*time.Millisecond))
	}
	clk.Set(base.Add(10 * time.Second))
	s.Start()
	// frame captured during the previous period, finished after the restart
	if s.Ingest(999, base.Add(5*time.Second)) {
		t.Fatalf("sample from before the restart must be dropped")
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty buffer, got %+v", s.Snapshot())
	}
	if !s.Ingest(1, base.Add(10*time.Second)) {
		t.Fatalf("sample at the start instant must be stored")
	}
	if snap := s.Snapshot(); len(snap) != 1 || snap[0].Value != 1 || snap[0].Elapsed != 0 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestSession_AutoStopAtDeadline(t *testing.T) {
	s, clk := newTestSession()
	base := clk.Now()
	s.Start()
	clk.Set(base.Add(59900 * time.Millisecond))
	if s.Current() != StateMeasuring {
		t.Fatalf("expected measuring at 59.9s")
	}
	clk.Set(base.Add(60100 * time.Millisecond))
	if s.Current() != StateIdle {
		t.Fatalf("expected idle at 60.1s")
	}
	// exactly at the deadline the period is over
	s.Start()
	clk.Set(clk.Now().Add(60 * time.Second))
	if s.Current() != StateIdle {
		t.Fatalf("expected idle at exactly 60s")
	}
}

func TestSession_IngestAfterDeadlineDropped(t *testing.T) {
	s, clk := newTestSession()
	base := clk.Now()
	s.Start()
	if !s.Ingest(1, base.Add(59*time.Second)) {
		t.Fatalf("sample before deadline dropped")
	}
	if s.Ingest(2, base.Add(61*time.Second)) {
		t.Fatalf("sample after deadline stored")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 sample, got %d", s.Len())
	}
}

func TestSession_RestartSupersedesDeadline(t *testing.T) {
	s, clk := newTestSession()
	r := &transitionRecorder{}
	s.AddListener(r.listener)
	base := clk.Now()
	s.Start()
	clk.Set(base.Add(50 * time.Second))
	s.Start()
	// the first period's deadline must not stop the second one
	s.Tick(base.Add(61 * time.Second))
	if s.Current() != StateMeasuring {
		t.Fatalf("old deadline stopped the newer session")
	}
	s.Tick(base.Add(110 * time.Second))
	clk.Set(base.Add(110 * time.Second))
	if s.Current() != StateIdle {
		t.Fatalf("expected idle after new deadline")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	want := []State{StateMeasuring, StateMeasuring, StateIdle}
	if len(r.seq) != len(want) {
		t.Fatalf("unexpected transitions %v", r.seq)
	}
	for i := range want {
		if r.seq[i] != want[i] {
			t.Fatalf("unexpected transitions %v", r.seq)
		}
	}
}

func TestSession_AutoStopFiresOnce(t *testing.T) {
	s, clk := newTestSession()
	r := &transitionRecorder{}
	s.AddListener(r.listener)
	base := clk.Now()
	s.Start()
	for i := 0; i < 5; i++ {
		s.Tick(base.Add(time.Duration(60+i) * time.Second))
	}
	s.Stop()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seq) != 2 || r.seq[1] != StateIdle {
		t.Fatalf("expected a single stop transition, got %v", r.seq)
	}
}

func TestSession_TimingHelpers(t *testing.T) {
	s, clk := newTestSession()
	base := clk.Now()
	if s.Elapsed(base) != 0 || s.Remaining(base) != 0 {
		t.Fatalf("idle session should report zero timing")
	}
	s.Start()
	now := base.Add(15 * time.Second)
	if s.Elapsed(now) != 15*time.Second || s.Remaining(now) != 45*time.Second {
		t.Fatalf("elapsed=%v remaining=%v", s.Elapsed(now), s.Remaining(now))
	}
	if !s.Deadline().Equal(base.Add(DefaultDuration)) || !s.StartedAt().Equal(base) {
		t.Fatalf("unexpected start/deadline %v %v", s.StartedAt(), s.Deadline())
	}
}

func TestSession_ListenerPanicRecovered(t *testing.T) {
	s, _ := newTestSession()
	s.AddListener(func(prev, next State) { panic("boom") })
	s.Start()
	if s.Current() != StateMeasuring {
		t.Fatalf("panicking listener broke the transition")
	}
}

func TestStatus(t *testing.T) {
	valid := heartrate.Reading{BPM: 72, Valid: true}
	if got := Status(StateIdle, valid); got != heartrate.Placeholder {
		t.Fatalf("idle must show placeholder, got %q", got)
	}
	if got := Status(StateMeasuring, heartrate.Reading{}); got != MeasuringLabel {
		t.Fatalf("expected measuring label, got %q", got)
	}
	if got := Status(StateMeasuring, valid); got != "72 BPM" {
		t.Fatalf("expected bpm label, got %q", got)
	}
}

func TestSession_SetDurationAppliesToNextStart(t *testing.T) {
	s, clk := newTestSession()
	base := clk.Now()
	s.Start()
	s.SetDuration(10 * time.Second)
	s.SetDuration(0) // ignored
	if !s.Deadline().Equal(base.Add(DefaultDuration)) {
		t.Fatalf("running period must keep its deadline, got %v", s.Deadline())
	}
	s.Start()
	if s.Duration() != 10*time.Second || !s.Deadline().Equal(base.Add(10*time.Second)) {
		t.Fatalf("duration=%v deadline=%v", s.Duration(), s.Deadline())
	}
}
