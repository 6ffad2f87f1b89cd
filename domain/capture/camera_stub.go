//go:build !gocv

package capture

import (
	"errors"
	"image"
)

// ErrCameraUnsupported is returned when the binary was built without OpenCV.
var ErrCameraUnsupported = errors.New("capture: camera source requires building with -tags gocv")

// CameraGrabber is unavailable without the gocv build tag.
type CameraGrabber struct{}

func OpenCamera(index int) (*CameraGrabber, error) { return nil, ErrCameraUnsupported }

func (g *CameraGrabber) Grab() (*image.RGBA, error) { return nil, ErrCameraUnsupported }

func (g *CameraGrabber) Close() error { return nil }
