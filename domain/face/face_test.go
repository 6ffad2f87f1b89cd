package face

import (
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/soocke/hrm-go/config"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRegionAbsClamps(t *testing.T) {
	b := image.Rect(0, 0, 200, 100)
	got := Region{X: 0.25, Y: 0.1, W: 0.5, H: 0.5}.Abs(b)
	if got != image.Rect(50, 10, 150, 60) {
		t.Fatalf("unexpected rect %v", got)
	}
	got = Region{X: 0.8, Y: 0.8, W: 0.5, H: 0.5}.Abs(b)
	if got != image.Rect(160, 80, 200, 100) {
		t.Fatalf("expected clamp to bounds, got %v", got)
	}
	if !(Region{}).Abs(b).Empty() {
		t.Fatalf("empty region must map to empty rect")
	}
}

func TestRegionOf(t *testing.T) {
	b := image.Rect(0, 0, 200, 100)
	r := RegionOf(image.Rect(50, 10, 150, 60), b)
	if r.X != 0.25 || r.Y != 0.1 || r.W != 0.5 || r.H != 0.5 {
		t.Fatalf("unexpected region %+v", r)
	}
	if !RegionOf(image.Rect(300, 300, 400, 400), b).Empty() {
		t.Fatalf("rect outside bounds should give empty region")
	}
}

func TestForehead(t *testing.T) {
	f := Forehead(image.Rect(10, 20, 110, 144), 0.2)
	// 124 / 5 = 24
	if f != image.Rect(10, 20, 110, 44) {
		t.Fatalf("unexpected forehead %v", f)
	}
	if !Forehead(image.Rect(0, 0, 10, 4), 0.2).Empty() {
		t.Fatalf("face shorter than 5px should give empty forehead")
	}
	if !Forehead(image.Rectangle{}, 0.2).Empty() {
		t.Fatalf("empty face should give empty forehead")
	}
}

func TestMeanSaturation(t *testing.T) {
	img := solid(40, 40, color.RGBA{R: 255, A: 255})
	if s, ok := MeanSaturation(img, image.Rect(0, 0, 20, 20)); !ok || s != 255 {
		t.Fatalf("pure red: got %v %v", s, ok)
	}
	gray := solid(40, 40, color.RGBA{R: 120, G: 120, B: 120, A: 255})
	if s, ok := MeanSaturation(gray, gray.Bounds()); !ok || s != 0 {
		t.Fatalf("gray: got %v %v", s, ok)
	}
	half := solid(10, 10, color.RGBA{R: 200, G: 100, B: 100, A: 255})
	if s, _ := MeanSaturation(half, half.Bounds()); math.Abs(s-127.5) > 1e-9 {
		t.Fatalf("expected 127.5, got %v", s)
	}
	if _, ok := MeanSaturation(img, image.Rectangle{}); ok {
		t.Fatalf("empty rect must report false")
	}
	if _, ok := MeanSaturation(img, image.Rect(100, 100, 120, 120)); ok {
		t.Fatalf("rect outside image must report false")
	}
}

func TestFixedDetectorAndFactory(t *testing.T) {
	cfg := config.DefaultConfig()
	d, err := NewDetector(cfg)
	if err != nil {
		t.Fatalf("new detector: %v", err)
	}
	regions, err := d.Detect(solid(8, 8, color.White))
	if err != nil || len(regions) != 1 {
		t.Fatalf("expected one region, got %v %v", regions, err)
	}
	if r := regions[0]; r.X != cfg.FaceBoxX || r.W != cfg.FaceBoxW {
		t.Fatalf("unexpected region %+v", r)
	}
	if regions, _ := (FixedDetector{}).Detect(solid(8, 8, color.White)); len(regions) != 0 {
		t.Fatalf("empty box must detect nothing")
	}
}

func patterned(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(128 + 100*math.Sin(float64(x)/4)*math.Cos(float64(y)/5))
			img.Set(x, y, color.NRGBA{R: v, G: v / 2, B: 255 - v, A: 255})
		}
	}
	return img
}

func TestTemplateDetectorFindsPastedFace(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	frame := image.NewNRGBA(image.Rect(0, 0, 160, 120))
	for i := range frame.Pix {
		frame.Pix[i] = uint8(rng.Intn(256))
		if i%4 == 3 {
			frame.Pix[i] = 255
		}
	}
	tmpl := patterned(53, 60)
	frame = imaging.Paste(frame, tmpl, image.Pt(40, 30))

	d := NewTemplateDetector(tmpl, 0.8)
	d.Scales = []float64{53.0 / 160}
	regions, err := d.Detect(frame)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(regions) != 1 {
		t.Fatalf("expected a match")
	}
	got := regions[0].Abs(frame.Bounds())
	if got.Min != image.Pt(40, 30) {
		t.Fatalf("expected match at (40,30), got %v (score %.3f)", got, regions[0].Score)
	}
	if regions[0].Score < 0.99 {
		t.Fatalf("expected near perfect score, got %v", regions[0].Score)
	}
}

func TestTemplateDetectorBelowThreshold(t *testing.T) {
	d := NewTemplateDetector(patterned(40, 40), 0.9)
	regions, err := d.Detect(solid(160, 120, color.RGBA{R: 30, G: 30, B: 30, A: 255}))
	if err != nil || len(regions) != 0 {
		t.Fatalf("flat frame must not match: %v %v", regions, err)
	}
}
