package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"

	"github.com/carbocation/pfx"
	"github.com/unixpickle/ffmpego"
)

// VideoGrabber decodes frames from a video file through ffmpeg. The capture
// service paces reads to the nominal rate, so playback runs at that speed
// regardless of the file's own frame rate.
type VideoGrabber struct {
	path   string
	reader *ffmpego.VideoReader
	fps    float64
}

// OpenVideo opens path for decoding. ffmpeg must be on PATH.
func OpenVideo(path string) (*VideoGrabber, error) {
	if path == "" {
		return nil, pfx.Err(errors.New("no video path configured"))
	}
	vr, err := ffmpego.NewVideoReader(path)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("open %s: %w", path, err))
	}
	g := &VideoGrabber{path: path, reader: vr}
	if info := vr.VideoInfo(); info != nil {
		g.fps = info.FPS
	}
	return g, nil
}

// FPS reports the frame rate declared by the file, 0 if unknown.
func (g *VideoGrabber) FPS() float64 { return g.fps }

// Grab decodes the next frame. It returns io.EOF after the last frame.
func (g *VideoGrabber) Grab() (*image.RGBA, error) {
	if g.reader == nil {
		return nil, io.EOF
	}
	frame, err := g.reader.ReadFrame()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, pfx.Err(err)
	}
	return toRGBA(frame), nil
}

func (g *VideoGrabber) Close() error {
	if g.reader == nil {
		return nil
	}
	err := g.reader.Close()
	g.reader = nil
	return err
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
