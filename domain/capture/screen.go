package capture

import (
	"image"

	"github.com/vova616/screenshot"
)

// ScreenGrabber captures the user's selection rectangle, or the full screen when
// no selection is set.
type ScreenGrabber struct {
	selection func() *image.Rectangle
}

// NewScreenGrabber returns a grabber that consults selection on every frame.
// A nil selection provider always captures the full screen.
func NewScreenGrabber(selection func() *image.Rectangle) *ScreenGrabber {
	return &ScreenGrabber{selection: selection}
}

// Grab returns a capture of the selection, falling back to the full screen
// if the selection cannot be captured.
func (g *ScreenGrabber) Grab() (*image.RGBA, error) {
	if g.selection != nil {
		if r := g.selection(); r != nil && !r.Empty() {
			if img, err := screenshot.CaptureRect(*r); err == nil {
				return img, nil
			}
		}
	}
	return screenshot.CaptureScreen()
}

func (g *ScreenGrabber) Close() error { return nil }
