package capture

import (
	"image"
	"image/color"
	"io"
	"math"
	"sync"
)

// SyntheticGrabber renders a flat background with a skin-colored face box
// whose saturation pulses at a fixed heart rate. It exercises the whole
// pipeline without a camera and gives tests a source with a known answer.
//
// The pulse is advanced one frame per Grab at the configured frame rate, so the
// signal is exact in frame time regardless of wall-clock jitter.
type SyntheticGrabber struct {
	mu     sync.Mutex
	width  int
	height int
	fps    float64
	bpm    float64
	depth  float64 // saturation swing, 0..1
	frame  int
	limit  int // 0 = unlimited
	face   image.Rectangle
}

// SyntheticOptions configures a SyntheticGrabber. Zero values select defaults.
type SyntheticOptions struct {
	Width, Height int
	FPS           float64
	BPM           float64
	Depth         float64
	Frames        int // stop with io.EOF after this many frames when > 0
}

// NewSyntheticGrabber returns a grabber for the given options.
func NewSyntheticGrabber(opts SyntheticOptions) *SyntheticGrabber {
	if opts.Width <= 0 {
		opts.Width = 320
	}
	if opts.Height <= 0 {
		opts.Height = 240
	}
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.BPM <= 0 {
		opts.BPM = 72
	}
	if opts.Depth <= 0 || opts.Depth > 0.5 {
		opts.Depth = 0.15
	}
	face := image.Rect(opts.Width*3/10, opts.Height*15/100, opts.Width*7/10, opts.Height*75/100)
	return &SyntheticGrabber{
		width:  opts.Width,
		height: opts.Height,
		fps:    opts.FPS,
		bpm:    opts.BPM,
		depth:  opts.Depth,
		limit:  opts.Frames,
		face:   face,
	}
}

// Face returns the rectangle the face box is drawn into.
func (g *SyntheticGrabber) Face() image.Rectangle { return g.face }

// Grab renders the next frame.
func (g *SyntheticGrabber) Grab() (*image.RGBA, error) {
	g.mu.Lock()
	if g.limit > 0 && g.frame >= g.limit {
		g.mu.Unlock()
		return nil, io.EOF
	}
	t := float64(g.frame) / g.fps
	g.frame++
	g.mu.Unlock()

	// Smooth pulse in [-1, 1] at bpm/60 Hz.
	pulse := math.Sin(2 * math.Pi * g.bpm / 60 * t)
	sat := 0.45 + g.depth*pulse
	skin := hsvToRGB(25, sat, 0.85)

	img := image.NewRGBA(image.Rect(0, 0, g.width, g.height))
	bg := color.RGBA{R: 40, G: 44, B: 52, A: 255}
	for y := 0; y < g.height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+g.width*4]
		inY := y >= g.face.Min.Y && y < g.face.Max.Y
		for x := 0; x < g.width; x++ {
			c := bg
			if inY && x >= g.face.Min.X && x < g.face.Max.X {
				c = skin
			}
			i := x * 4
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
	return img, nil
}

func (g *SyntheticGrabber) Close() error { return nil }

// hsvToRGB converts hue in degrees and s, v in 0..1.
func hsvToRGB(h, s, v float64) color.RGBA {
	c := v * s
	hp := math.Mod(h/60, 6)
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := v - c
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
