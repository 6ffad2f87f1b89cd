//go:build gocv

package capture

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// CameraGrabber reads frames from a local video capture device via OpenCV.
type CameraGrabber struct {
	cam *gocv.VideoCapture
	mat gocv.Mat
}

// OpenCamera opens the capture device with the given index.
func OpenCamera(index int) (*CameraGrabber, error) {
	cam, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("capture: open camera %d: %w", index, err)
	}
	return &CameraGrabber{cam: cam, mat: gocv.NewMat()}, nil
}

func (g *CameraGrabber) Grab() (*image.RGBA, error) {
	if g.cam == nil {
		return nil, fmt.Errorf("capture: camera closed")
	}
	if ok := g.cam.Read(&g.mat); !ok || g.mat.Empty() {
		return nil, ErrNoFrame
	}
	img, err := g.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("capture: convert camera frame: %w", err)
	}
	return toRGBA(img), nil
}

func (g *CameraGrabber) Close() error {
	if g.cam == nil {
		return nil
	}
	_ = g.mat.Close()
	err := g.cam.Close()
	g.cam = nil
	return err
}
