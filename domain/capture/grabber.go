package capture

import (
	"fmt"
	"image"

	"github.com/soocke/hrm-go/config"
)

// NewGrabber builds the frame source selected by cfg.Source. selection is only
// consulted by the screen source.
func NewGrabber(cfg *config.Config, selection func() *image.Rectangle) (Grabber, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	switch cfg.Source {
	case config.SourceScreen, "":
		return NewScreenGrabber(selection), nil
	case config.SourceVideo:
		g, err := OpenVideo(cfg.VideoPath)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.SourceCamera:
		g, err := OpenCamera(cfg.CameraIndex)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.SourceSynthetic:
		return NewSyntheticGrabber(SyntheticOptions{FPS: cfg.FrameRate, BPM: cfg.SyntheticBPM}), nil
	default:
		return nil, fmt.Errorf("capture: unknown source %q", cfg.Source)
	}
}
