//go:build !gocv

package capture

import (
	"errors"
	"testing"

	"github.com/soocke/hrm-go/config"
)

func TestCameraRequiresBuildTag(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Source = config.SourceCamera
	if _, err := NewGrabber(cfg, nil); !errors.Is(err, ErrCameraUnsupported) {
		t.Fatalf("expected ErrCameraUnsupported, got %v", err)
	}
}
