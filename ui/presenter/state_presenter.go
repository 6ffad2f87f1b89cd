package presenter

import (
	"sync"
	"time"

	"github.com/soocke/hrm-go/domain/measurement"
)

// StateView sets the state label and switches the Start/Stop buttons.
type StateView interface {
	SetStateLabel(string)
	SetMeasuring(bool)
}

// StatePresenter receives session transitions from any goroutine and reflects
// the most recent one on the UI tick.
type StatePresenter struct {
	view StateView

	mu      sync.Mutex
	pending []measurement.State
	latest  measurement.State
	shown   bool
}

func NewStatePresenter(view StateView) *StatePresenter {
	return &StatePresenter{view: view}
}

// OnState queues a transition. It matches measurement.StateListener.
func (p *StatePresenter) OnState(prev, next measurement.State) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, next)
	p.mu.Unlock()
}

// Tick reflects the latest queued state in the view.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	last := p.latest
	if n := len(p.pending); n > 0 {
		last = p.pending[n-1]
		p.pending = p.pending[:0]
	}
	p.mu.Unlock()
	// the first tick paints the initial state
	if p.shown && last == p.latest {
		return
	}
	p.shown = true
	p.latest = last
	p.view.SetStateLabel("State: " + last.String())
	p.view.SetMeasuring(last == measurement.StateMeasuring)
}
