package model

import (
	"time"
)

// SessionModel accumulates time spent measuring. It follows the measuring flag
// on each tick: the current period restarts on an off->on edge and is added to
// the total on an on->off edge. The zero value is ready to use.
type SessionModel struct {
	measuring   bool
	periodStart time.Time
	period      time.Duration
	accumulated time.Duration
	completed   int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick updates the model from the measuring flag observed at now.
func (m *SessionModel) OnTick(measuring bool, now time.Time) {
	if m == nil {
		return
	}
	switch {
	case measuring && !m.measuring:
		m.measuring = true
		m.periodStart = now
		m.period = 0
	case measuring:
		m.period = now.Sub(m.periodStart)
	case m.measuring:
		m.period = now.Sub(m.periodStart)
		m.accumulated += m.period
		m.measuring = false
		m.completed++
	}
}

// Restart begins a new period at now without closing the previous one as
// completed; used when a running measurement is restarted.
func (m *SessionModel) Restart(now time.Time) {
	if m == nil {
		return
	}
	if m.measuring {
		m.accumulated += now.Sub(m.periodStart)
	}
	m.measuring = true
	m.periodStart = now
	m.period = 0
}

// Values returns the current period length and the total measured time,
// including the ongoing period.
func (m *SessionModel) Values() (period, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	period = m.period
	total = m.accumulated
	if m.measuring {
		total += period
	}
	return
}

// Completed reports how many periods have ended.
func (m *SessionModel) Completed() int {
	if m == nil {
		return 0
	}
	return m.completed
}
