package presenter

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/soocke/hrm-go/domain/heartrate"
	"github.com/soocke/hrm-go/domain/measurement"
	"github.com/soocke/hrm-go/domain/signal"
	"github.com/soocke/hrm-go/publish"
	"github.com/soocke/hrm-go/ui/chart"
)

// EstimateSession is the part of the measurement session the estimator reads.
type EstimateSession interface {
	Current() measurement.State
	Snapshot() []signal.Sample
}

// HeartRateView shows the BPM label and the signal chart. A nil chart means
// "show the placeholder".
type HeartRateView interface {
	SetBPM(text string)
	SetChart(png []byte)
}

// HeartRatePresenter runs the estimator on the slow tick, updates the label and
// chart, and forwards readings to the publisher.
type HeartRatePresenter struct {
	Session   EstimateSession
	Estimator *heartrate.Estimator
	View      HeartRateView
	Publisher publish.Publisher
	Window    float64 // chart x range in seconds
	ChartW    int
	ChartH    int
	Colors    func() chart.Colors // current window theme; nil keeps go-chart defaults
	logger    *slog.Logger

	transition atomic.Bool

	lastLen   int
	lastLabel string
	lastState measurement.State
	latest    heartrate.Reading
}

// NewHeartRatePresenter returns a presenter drawing charts of chartW x chartH.
func NewHeartRatePresenter(session EstimateSession, est *heartrate.Estimator, view HeartRateView, pub publish.Publisher, window float64, chartW, chartH int, logger *slog.Logger) *HeartRatePresenter {
	return &HeartRatePresenter{
		Session:   session,
		Estimator: est,
		View:      view,
		Publisher: pub,
		Window:    window,
		ChartW:    chartW,
		ChartH:    chartH,
		logger:    logger,
		lastLen:   -1,
	}
}

// Restyle makes the next tick redraw the chart, e.g. after a theme switch.
func (p *HeartRatePresenter) Restyle() {
	if p != nil {
		p.lastLen = -1
	}
}

// Latest returns the most recent estimate.
func (p *HeartRatePresenter) Latest() heartrate.Reading {
	if p == nil {
		return heartrate.Reading{}
	}
	return p.latest
}

// OnState flags a session transition so the loop relabels on its next tick
// instead of waiting for the slow interval. It matches measurement.StateListener.
func (p *HeartRatePresenter) OnState(prev, next measurement.State) {
	if p == nil {
		return
	}
	p.transition.Store(true)
}

func (p *HeartRatePresenter) takeTransition() bool {
	return p != nil && p.transition.Swap(false)
}

// Tick estimates from a snapshot of the session buffer.
func (p *HeartRatePresenter) Tick(now time.Time) {
	if p == nil || p.Session == nil || p.View == nil {
		return
	}
	state := p.Session.Current()
	samples := p.Session.Snapshot()
	r := p.Estimator.Estimate(signal.Values(samples))
	p.latest = r

	if label := measurement.Status(state, r); label != p.lastLabel {
		p.lastLabel = label
		p.View.SetBPM(label)
	}

	if len(samples) != p.lastLen {
		p.lastLen = len(samples)
		var colors chart.Colors
		if p.Colors != nil {
			colors = p.Colors()
		}
		png, err := chart.Render(samples, p.Window, p.ChartW, p.ChartH, colors)
		if err != nil {
			png = nil
		}
		p.View.SetChart(png)
	}

	if r.Valid && state == measurement.StateMeasuring && p.logger != nil {
		nominal := 0.0
		if p.Estimator != nil {
			nominal = p.Estimator.Rate
		}
		p.logger.Debug("heart rate",
			"bpm", r.BPM,
			"peaks", len(r.Peaks),
			"samples", r.Samples,
			"nominal_fps", nominal,
			"measured_fps", signal.MeasuredRate(samples),
		)
	}

	if p.Publisher != nil && (state == measurement.StateMeasuring || state != p.lastState) {
		err := p.Publisher.Publish(publish.Reading{
			Ts:      now.UnixMilli(),
			BPM:     r.BPM,
			Valid:   r.Valid,
			State:   state.String(),
			Samples: r.Samples,
			Label:   p.lastLabel,
		})
		if err != nil && p.logger != nil {
			p.logger.Warn("publish reading", "error", err)
		}
	}
	p.lastState = state
}
