package presenter

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/hrm-go/domain/capture"
	"github.com/soocke/hrm-go/domain/face"
	"github.com/soocke/hrm-go/domain/measurement"
	"github.com/soocke/hrm-go/ui/images"
	"github.com/soocke/hrm-go/ui/model"
)

var faceOutline = color.NRGBA{R: 16, G: 185, B: 129, A: 255}

// FrameSource supplies the most recent captured frame.
type FrameSource interface {
	Running() bool
	LatestFrame() capture.FrameSnapshot
}

// SamplingSession is the part of the measurement session the sampler needs.
type SamplingSession interface {
	Current() measurement.State
	Ingest(value float64, at time.Time) bool
}

// FrameTracker reports whether a frame sequence has not been processed yet.
type FrameTracker interface {
	Observe(seq uint64) bool
}

// SamplingView describes the UI surface updated by the presenter.
type SamplingView interface {
	UpdateCapture(img image.Image)
	UpdateDetection(img image.Image)
}

type samplingTask struct {
	snapshot capture.FrameSnapshot
}

type samplingResult struct {
	sequence uint64
	err      error
	face     image.Rectangle
	forehead image.Rectangle
	stored   bool
	roi      image.Image
	duration time.Duration
}

// SamplingPresenter turns captured frames into signal samples. The preview is
// refreshed for every new frame; face detection and scalar extraction run on a
// worker goroutine and only while the session is measuring. The worker holds at
// most one pending frame and drops older ones when it falls behind.
type SamplingPresenter struct {
	Enabled          func() bool
	Source           FrameSource
	Session          SamplingSession
	Detector         face.Detector
	Frames           FrameTracker
	View             SamplingView
	Model            *model.DetectionModel
	ForeheadFraction float64
	logger           *slog.Logger

	workerOnce sync.Once
	closeOnce  sync.Once
	closed     atomic.Bool
	workCh     chan samplingTask
	resultCh   chan samplingResult

	dropped  atomic.Uint64
	ingested atomic.Uint64
}

// slowDetection is the detection time above which a debug line is logged.
const slowDetection = 150 * time.Millisecond

// NewSamplingPresenter constructs a sampling presenter.
func NewSamplingPresenter(enabled func() bool, source FrameSource, session SamplingSession, detector face.Detector, frames FrameTracker, view SamplingView, model *model.DetectionModel, foreheadFraction float64, logger *slog.Logger) *SamplingPresenter {
	if foreheadFraction <= 0 {
		foreheadFraction = 0.2
	}
	return &SamplingPresenter{
		Enabled:          enabled,
		Source:           source,
		Session:          session,
		Detector:         detector,
		Frames:           frames,
		View:             view,
		Model:            model,
		ForeheadFraction: foreheadFraction,
		logger:           logger,
		workCh:           make(chan samplingTask, 1),
		resultCh:         make(chan samplingResult, 1),
	}
}

// ProcessFrame handles finished worker results, then previews the latest frame
// and hands it to the worker when measuring.
func (p *SamplingPresenter) ProcessFrame() {
	if p == nil || p.Enabled == nil || p.Source == nil || p.Session == nil || p.View == nil || p.Frames == nil {
		return
	}

	p.ensureWorker()

	for {
		select {
		case res := <-p.resultCh:
			p.handleResult(res)
		default:
			goto drained
		}
	}

drained:
	if !p.Enabled() || !p.Source.Running() {
		return
	}

	snapshot := p.Source.LatestFrame()
	frame := snapshot.Image
	if frame == nil || !p.Frames.Observe(snapshot.Sequence) {
		return
	}

	if p.Session.Current() != measurement.StateMeasuring {
		p.Model.Clear()
		p.View.UpdateCapture(frame)
		return
	}

	if fc := p.Model.Face(); !fc.Empty() {
		p.View.UpdateCapture(images.Outline(frame, faceOutline, fc, p.Model.Forehead()))
	} else {
		p.View.UpdateCapture(frame)
	}
	if p.Detector != nil {
		p.dispatchTask(samplingTask{snapshot: snapshot})
	}
}

// Dropped reports how many frames were superseded before the worker got to them.
func (p *SamplingPresenter) Dropped() uint64 { return p.dropped.Load() }

// Ingested reports how many samples the worker stored in the session.
func (p *SamplingPresenter) Ingested() uint64 { return p.ingested.Load() }

// Close stops the worker goroutine.
func (p *SamplingPresenter) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		// prevent a later ProcessFrame from starting a worker on a closed channel
		p.workerOnce.Do(func() {})
		close(p.workCh)
	})
}

func (p *SamplingPresenter) ensureWorker() {
	p.workerOnce.Do(func() {
		go p.runWorker()
	})
}

func (p *SamplingPresenter) runWorker() {
	for task := range p.workCh {
		res := p.executeTask(task)
		select {
		case p.resultCh <- res:
		default:
			select {
			case <-p.resultCh:
			default:
			}
			select {
			case p.resultCh <- res:
			default:
			}
		}
	}
}

func (p *SamplingPresenter) dispatchTask(task samplingTask) {
	if p.closed.Load() {
		return
	}
	select {
	case p.workCh <- task:
	default:
		select {
		case <-p.workCh:
			p.dropped.Add(1)
		default:
		}
		select {
		case p.workCh <- task:
		default:
		}
	}
}

func (p *SamplingPresenter) executeTask(task samplingTask) (res samplingResult) {
	res.sequence = task.snapshot.Sequence
	defer func() {
		if r := recover(); r != nil {
			res.err = errors.New("sampling worker panic")
			if p.logger != nil {
				p.logger.Error("sampling worker panic", "error", r)
			}
		}
	}()
	frame := task.snapshot.Image
	if frame == nil {
		res.err = errors.New("nil frame")
		return res
	}
	start := time.Now()
	regions, err := p.Detector.Detect(frame)
	res.duration = time.Since(start)
	if err != nil {
		res.err = err
		return res
	}
	if len(regions) == 0 {
		return res
	}
	res.face = regions[0].Abs(frame.Bounds())
	res.forehead = face.Forehead(res.face, p.ForeheadFraction)
	if roi, _, err := images.ExtractRect(frame, res.face); err == nil {
		res.roi = roi
	}
	v, ok := face.MeanSaturation(frame, res.forehead)
	if !ok {
		return res
	}
	res.stored = p.Session.Ingest(v, task.snapshot.CapturedAt)
	if res.stored {
		p.ingested.Add(1)
	}
	return res
}

func (p *SamplingPresenter) handleResult(res samplingResult) {
	if res.err != nil {
		if p.logger != nil {
			p.logger.Error("sampling", "error", res.err, "sequence", res.sequence)
		}
		return
	}
	if res.duration > slowDetection && p.logger != nil {
		p.logger.Debug("slow face detection", "duration", res.duration)
	}
	p.Model.SetFace(res.face, res.forehead)
	if res.roi != nil {
		p.View.UpdateDetection(res.roi)
	}
	if p.logger != nil && p.Model.Misses() == 1 {
		p.logger.Debug("face lost", "sequence", res.sequence)
	}
}
