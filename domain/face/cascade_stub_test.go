//go:build !gocv

package face

import (
	"errors"
	"testing"

	"github.com/soocke/hrm-go/config"
)

func TestCascadeRequiresBuildTag(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CascadePath = "haarcascade_frontalface_default.xml"
	if _, err := NewDetector(cfg); !errors.Is(err, ErrCascadeUnsupported) {
		t.Fatalf("expected ErrCascadeUnsupported, got %v", err)
	}
}
