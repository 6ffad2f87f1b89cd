package presenter

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/soocke/hrm-go/domain/heartrate"
	"github.com/soocke/hrm-go/domain/measurement"
	"github.com/soocke/hrm-go/domain/signal"
	"github.com/soocke/hrm-go/publish"
	"github.com/soocke/hrm-go/ui/chart"
)

type fakeEstimateSession struct {
	state   measurement.State
	samples []signal.Sample
}

func (s *fakeEstimateSession) Current() measurement.State { return s.state }
func (s *fakeEstimateSession) Snapshot() []signal.Sample  { return s.samples }

type fakeHRView struct {
	labels []string
	charts [][]byte
}

func (v *fakeHRView) SetBPM(text string)  { v.labels = append(v.labels, text) }
func (v *fakeHRView) SetChart(png []byte) { v.charts = append(v.charts, png) }

type fakePublisher struct {
	got []publish.Reading
	err error
}

func (p *fakePublisher) Publish(r publish.Reading) error {
	p.got = append(p.got, r)
	return p.err
}

func sineSamples(n int) []signal.Sample {
	out := make([]signal.Sample, n)
	for i := range out {
		out[i] = signal.Sample{Value: 100 + 10*math.Sin(2*math.Pi*float64(i)/30), Elapsed: float64(i) / 30}
	}
	return out
}

func TestHeartRatePresenter_MeasuringWithEstimate(t *testing.T) {
	sess := &fakeEstimateSession{state: measurement.StateMeasuring, samples: sineSamples(151)}
	view := &fakeHRView{}
	pub := &fakePublisher{}
	p := NewHeartRatePresenter(sess, heartrate.NewEstimator(30), view, pub, 60, 320, 160, nil)

	now := time.Unix(100, 0)
	p.Tick(now)
	if len(view.labels) != 1 || !strings.HasSuffix(view.labels[0], " BPM") || view.labels[0] == heartrate.Placeholder {
		t.Fatalf("unexpected labels %v", view.labels)
	}
	if bpm := p.Latest().BPM; bpm < 59 || bpm > 60 {
		t.Fatalf("expected ~60 BPM, got %d", bpm)
	}
	if len(view.charts) != 1 || len(view.charts[0]) == 0 {
		t.Fatalf("expected a rendered chart")
	}
	if len(pub.got) != 1 || pub.got[0].State != "measuring" || !pub.got[0].Valid || pub.got[0].Ts != now.UnixMilli() {
		t.Fatalf("unexpected published readings %+v", pub.got)
	}

	// Nothing changed: label and chart are not pushed again, but readings keep flowing.
	p.Tick(now.Add(time.Second))
	if len(view.labels) != 1 || len(view.charts) != 1 || len(pub.got) != 2 {
		t.Fatalf("labels=%d charts=%d published=%d", len(view.labels), len(view.charts), len(pub.got))
	}
}

func TestHeartRatePresenter_MeasuringWithoutEstimate(t *testing.T) {
	sess := &fakeEstimateSession{state: measurement.StateMeasuring, samples: sineSamples(100)}
	view := &fakeHRView{}
	p := NewHeartRatePresenter(sess, heartrate.NewEstimator(30), view, nil, 60, 320, 160, nil)
	p.Tick(time.Now())
	if len(view.labels) != 1 || view.labels[0] != measurement.MeasuringLabel {
		t.Fatalf("expected measuring label, got %v", view.labels)
	}
}

func TestHeartRatePresenter_IdleShowsPlaceholder(t *testing.T) {
	sess := &fakeEstimateSession{state: measurement.StateMeasuring, samples: sineSamples(151)}
	view := &fakeHRView{}
	pub := &fakePublisher{err: errors.New("offline")}
	p := NewHeartRatePresenter(sess, heartrate.NewEstimator(30), view, pub, 60, 320, 160, nil)
	p.Tick(time.Now())

	sess.state = measurement.StateIdle
	p.Tick(time.Now())
	if last := view.labels[len(view.labels)-1]; last != heartrate.Placeholder {
		t.Fatalf("idle must show placeholder, got %q", last)
	}
	// one reading for the transition, none afterwards
	p.Tick(time.Now())
	if len(pub.got) != 2 || pub.got[1].State != "idle" {
		t.Fatalf("unexpected published readings %+v", pub.got)
	}
}

func TestHeartRatePresenter_EmptyBufferClearsChart(t *testing.T) {
	sess := &fakeEstimateSession{state: measurement.StateMeasuring}
	view := &fakeHRView{}
	p := NewHeartRatePresenter(sess, heartrate.NewEstimator(30), view, nil, 60, 320, 160, nil)
	p.Tick(time.Now())
	if len(view.charts) != 1 || view.charts[0] != nil {
		t.Fatalf("empty buffer should request the placeholder chart")
	}
}

func TestHeartRatePresenter_RestyleRedrawsWithThemeColors(t *testing.T) {
	sess := &fakeEstimateSession{state: measurement.StateMeasuring, samples: sineSamples(60)}
	view := &fakeHRView{}
	p := NewHeartRatePresenter(sess, heartrate.NewEstimator(30), view, nil, 60, 320, 160, nil)
	calls := 0
	p.Colors = func() chart.Colors {
		calls++
		return chart.Colors{Line: "#fb7185", Background: "#1e293b", Text: "#f1f5f9"}
	}

	p.Tick(time.Now())
	p.Tick(time.Now())
	if len(view.charts) != 1 || calls != 1 {
		t.Fatalf("unchanged buffer redrew: charts=%d colors=%d", len(view.charts), calls)
	}
	p.Restyle()
	p.Tick(time.Now())
	if len(view.charts) != 2 || calls != 2 || view.charts[1] == nil {
		t.Fatalf("restyle did not redraw: charts=%d colors=%d", len(view.charts), calls)
	}
}
