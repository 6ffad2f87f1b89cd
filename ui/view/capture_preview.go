package view

import (
	"image"

	"github.com/soocke/hrm-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CapturePreview shows the latest frame with the face outline and, next to it,
// the face crop the worker sampled from.
type CapturePreview interface {
	UpdateCapture(img image.Image)
	UpdateDetection(img image.Image)
	Reset()
}

type capturePreview struct {
	captureLabel   *LabelWidget
	detectionLabel *LabelWidget
	// photos are deleted before replacement so Tk does not retain stale pixel data
	capturePhoto   *Img
	detectionPhoto *Img
	placeholder    []byte
}

const (
	maxPreviewW   = 400
	maxPreviewH   = 225
	maxDetectionW = 160
	maxDetectionH = 200
)

// NewCapturePreview creates the preview labels, grids them and returns the view.
// Layout: the frame spans columns 0-3; the face crop sits at column 4 of row.
func NewCapturePreview(row int) CapturePreview {
	placeholder := images.EncodePNG(images.Placeholder(200, 120))
	v := &capturePreview{placeholder: placeholder}
	v.capturePhoto = NewPhoto(Data(placeholder))
	v.detectionPhoto = NewPhoto(Data(placeholder))
	v.captureLabel = Label(Image(v.capturePhoto), Borderwidth(1), Relief("sunken"))
	v.detectionLabel = Label(Image(v.detectionPhoto), Borderwidth(1), Relief("sunken"))
	Grid(v.captureLabel, Row(row), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	Grid(v.detectionLabel, Row(row), Column(4), Columnspan(1), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	return v
}

func (v *capturePreview) UpdateCapture(img image.Image) {
	if v.captureLabel == nil || img == nil {
		return
	}
	v.capturePhoto = replacePhoto(v.captureLabel, v.capturePhoto, images.EncodePNG(images.ScaleToFit(img, maxPreviewW, maxPreviewH)))
}

func (v *capturePreview) UpdateDetection(img image.Image) {
	if v.detectionLabel == nil || img == nil {
		return
	}
	v.detectionPhoto = replacePhoto(v.detectionLabel, v.detectionPhoto, images.EncodePNG(images.ScaleToFit(img, maxDetectionW, maxDetectionH)))
}

func (v *capturePreview) Reset() {
	if v.captureLabel != nil {
		v.capturePhoto = replacePhoto(v.captureLabel, v.capturePhoto, v.placeholder)
	}
	if v.detectionLabel != nil {
		v.detectionPhoto = replacePhoto(v.detectionLabel, v.detectionPhoto, v.placeholder)
	}
}

func replacePhoto(label *LabelWidget, prev *Img, png []byte) *Img {
	if len(png) == 0 {
		return prev
	}
	if prev != nil {
		prev.Delete()
	}
	photo := NewPhoto(Data(png))
	label.Configure(Image(photo))
	return photo
}
