package presenter

import (
	"sync"
	"time"

	"github.com/soocke/hrm-go/domain/measurement"
	"github.com/soocke/hrm-go/ui/model"
)

// MeasuringSource reports the session state and the time left in the period.
type MeasuringSource interface {
	Current() measurement.State
	Remaining(now time.Time) time.Duration
}

// SessionView displays formatted period, total and remaining durations.
type SessionView interface {
	SetSession(period, total time.Duration)
	SetRemaining(d time.Duration)
}

// SessionPresenter formats measurement durations from the model to the view.
type SessionPresenter struct {
	sess *model.SessionModel
	src  MeasuringSource
	view SessionView

	mu      sync.Mutex
	restart bool
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, src MeasuringSource, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, src: src, view: view}
}

// OnState notes restarts (Measuring -> Measuring) so the next tick opens a new period.
func (p *SessionPresenter) OnState(prev, next measurement.State) {
	if p == nil || prev != measurement.StateMeasuring || next != measurement.StateMeasuring {
		return
	}
	p.mu.Lock()
	p.restart = true
	p.mu.Unlock()
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.src == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	restart := p.restart
	p.restart = false
	p.mu.Unlock()

	measuring := p.src.Current() == measurement.StateMeasuring
	if restart && measuring {
		p.sess.Restart(now)
	}
	p.sess.OnTick(measuring, now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
	p.view.SetRemaining(p.src.Remaining(now))
}
