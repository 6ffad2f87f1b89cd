package presenter

import "time"

// DeadlineTicker applies the session's auto-stop deadline.
type DeadlineTicker interface{ Tick(now time.Time) }

// Loop aggregates feature presenters and drives periodic updates.
//
// Every Tick applies the session deadline, refreshes state and session
// labels and processes the latest frame. The heart-rate presenter runs once
// per SlowEvery and additionally on the first tick after a session transition. The zero value is usable (methods are nil-safe).
type Loop struct {
	Deadline  DeadlineTicker
	State     *StatePresenter
	Session   *SessionPresenter
	Sampling  *SamplingPresenter
	HeartRate *HeartRatePresenter
	SlowEvery time.Duration
	Schedule  func()
	Clock     func() time.Time

	lastSlow time.Time
}

func NewLoop(deadline DeadlineTicker, state *StatePresenter, sess *SessionPresenter, sampling *SamplingPresenter, hr *HeartRatePresenter, slowEvery time.Duration, schedule func()) *Loop {
	return &Loop{Deadline: deadline, State: state, Session: sess, Sampling: sampling, HeartRate: hr, SlowEvery: slowEvery, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	now := time.Now()
	if l.Clock != nil {
		now = l.Clock()
	}
	if l.Deadline != nil {
		l.Deadline.Tick(now)
	}
	if l.State != nil {
		l.State.Tick(now)
	}
	if l.Session != nil {
		l.Session.Tick(now)
	}
	if l.Sampling != nil {
		l.Sampling.ProcessFrame()
	}
	// a start or stop relabels right away; otherwise once per SlowEvery
	if l.HeartRate != nil && (l.HeartRate.takeTransition() || l.lastSlow.IsZero() || now.Sub(l.lastSlow) >= l.SlowEvery) {
		l.lastSlow = now
		l.HeartRate.Tick(now)
	}
	if l.Schedule != nil {
		l.Schedule()
	}
}
