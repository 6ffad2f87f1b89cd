package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows the current period, total measured time and the time
// left before auto-stop.
type SessionStats interface {
	SetSession(d time.Duration)
	SetTotal(d time.Duration)
	SetRemaining(d time.Duration)
}

type sessionStats struct {
	sessionLbl   *LabelWidget
	totalLbl     *LabelWidget
	remainingLbl *LabelWidget
}

// NewSessionStats creates the three duration labels in one grid row starting
// at (row, startCol). If parent is nil, labels are positioned relative to the App root.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{sessionLbl: Label(Width(14)), totalLbl: Label(Width(14)), remainingLbl: Label(Width(16))}
	for i, l := range []*LabelWidget{s.sessionLbl, s.totalLbl, s.remainingLbl} {
		if parent != nil {
			Grid(l, In(parent), Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		} else {
			Grid(l, Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		}
	}
	s.SetSession(0)
	s.SetTotal(0)
	s.SetRemaining(0)
	return s
}

func clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// SetSession updates the period duration display.
func (s *sessionStats) SetSession(d time.Duration) {
	if s == nil || s.sessionLbl == nil {
		return
	}
	s.sessionLbl.Configure(Txt("Session: " + clock(d)))
}

// SetTotal updates the total duration display.
func (s *sessionStats) SetTotal(d time.Duration) {
	if s == nil || s.totalLbl == nil {
		return
	}
	s.totalLbl.Configure(Txt("Total: " + clock(d)))
}

func (s *sessionStats) SetRemaining(d time.Duration) {
	if s == nil || s.remainingLbl == nil {
		return
	}
	// round up so the label reads 00:01 until the very end
	s.remainingLbl.Configure(Txt("Remaining: " + clock((d + time.Second - 1).Truncate(time.Second))))
}
