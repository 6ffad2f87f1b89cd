//go:build !gocv

package face

import (
	"errors"
	"image"
)

// ErrCascadeUnsupported is returned when the binary was built without OpenCV.
var ErrCascadeUnsupported = errors.New("face: cascade detection requires building with -tags gocv")

// CascadeDetector is unavailable without the gocv build tag.
type CascadeDetector struct{}

func NewCascadeDetector(path string) (*CascadeDetector, error) { return nil, ErrCascadeUnsupported }

func (d *CascadeDetector) Detect(img image.Image) ([]Region, error) {
	return nil, ErrCascadeUnsupported
}

func (d *CascadeDetector) Close() error { return nil }
