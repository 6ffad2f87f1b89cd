package face

import (
	"image"

	"github.com/soocke/hrm-go/config"
)

// Detector locates faces in a frame. Regions are ordered by preference; the
// sampling pipeline uses the first one.
type Detector interface {
	Detect(img image.Image) ([]Region, error)
}

// FixedDetector reports the same configured box for every frame. It suits
// screen selections framed around a face and synthetic sources.
type FixedDetector struct {
	Box Region
}

func (d FixedDetector) Detect(img image.Image) ([]Region, error) {
	if img == nil || d.Box.Empty() {
		return nil, nil
	}
	return []Region{d.Box}, nil
}

// NewDetector picks a detector from cfg: a Haar cascade when a cascade path is
// set, template matching when a reference face image is set, otherwise the
// fixed face box.
func NewDetector(cfg *config.Config) (Detector, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	switch {
	case cfg.CascadePath != "":
		d, err := NewCascadeDetector(cfg.CascadePath)
		if err != nil {
			return nil, err
		}
		return d, nil
	case cfg.FaceTemplatePath != "":
		d, err := LoadTemplateDetector(cfg.FaceTemplatePath, cfg.FaceThreshold)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return FixedDetector{Box: Region{X: cfg.FaceBoxX, Y: cfg.FaceBoxY, W: cfg.FaceBoxW, H: cfg.FaceBoxH}}, nil
	}
}
