package face

import (
	"fmt"
	"image"
	"math"
	"sort"
	"sync"

	"github.com/disintegration/imaging"
)

// TemplateDetector finds a face by normalized cross-correlation (NCC) against a
// reference face image, trying the reference at several sizes relative to the
// frame width. Frames are downscaled to WorkWidth before matching.
type TemplateDetector struct {
	Threshold float64   // minimum NCC score for a detection
	Scales    []float64 // template width as a fraction of the frame width
	Stride    int       // coarse scan step in pixels
	WorkWidth int

	tmpl  *image.NRGBA
	mu    sync.Mutex
	cache map[int]*grayTemplate // keyed by scaled template width
}

// NewTemplateDetector builds a detector for the reference image tmpl.
func NewTemplateDetector(tmpl image.Image, threshold float64) *TemplateDetector {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.6
	}
	return &TemplateDetector{
		Threshold: threshold,
		Scales:    []float64{0.25, 0.33, 0.42, 0.5, 0.6},
		Stride:    2,
		WorkWidth: 160,
		tmpl:      imaging.Clone(tmpl),
		cache:     map[int]*grayTemplate{},
	}
}

// LoadTemplateDetector reads the reference face from path.
func LoadTemplateDetector(path string, threshold float64) (*TemplateDetector, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("face: load template %s: %w", path, err)
	}
	return NewTemplateDetector(img, threshold), nil
}

// Detect returns at most one region: the best scoring match above Threshold.
func (d *TemplateDetector) Detect(img image.Image) ([]Region, error) {
	if img == nil || d.tmpl == nil {
		return nil, nil
	}
	b := img.Bounds()
	if b.Dx() < 2 || b.Dy() < 2 {
		return nil, nil
	}
	work := img
	if d.WorkWidth > 0 && b.Dx() > d.WorkWidth {
		work = imaging.Resize(img, d.WorkWidth, 0, imaging.Box)
	}
	frame := newGrayPlane(work)

	results := make([]match, len(d.Scales))
	var wg sync.WaitGroup
	for i, s := range d.Scales {
		w := int(math.Round(s * float64(frame.w)))
		t := d.scaled(w)
		if t == nil || t.w > frame.w || t.h > frame.h {
			results[i].score = -1
			continue
		}
		wg.Add(1)
		go func(i int, t *grayTemplate) {
			defer wg.Done()
			results[i] = matchNCC(frame, t, d.Stride)
		}(i, t)
	}
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool { return results[i].score > results[j].score })
	if len(results) == 0 || results[0].score < d.Threshold {
		return nil, nil
	}
	best := results[0]
	fw, fh := float64(frame.w), float64(frame.h)
	return []Region{{
		X:     float64(best.x) / fw,
		Y:     float64(best.y) / fh,
		W:     float64(best.w) / fw,
		H:     float64(best.h) / fh,
		Score: best.score,
	}}, nil
}

// scaled returns the grayscale template resized to width w, cached per width.
func (d *TemplateDetector) scaled(w int) *grayTemplate {
	if w < 4 {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.cache[w]; ok {
		return t
	}
	t := newGrayTemplate(imaging.Resize(d.tmpl, w, 0, imaging.Linear))
	d.cache[w] = t
	return t
}

// grayPlane is a luma image with summed-area tables for O(1) window mean and
// variance.
type grayPlane struct {
	w, h       int
	gray       []float64
	integral   []float64
	integralSq []float64
}

func newGrayPlane(img image.Image) *grayPlane {
	src := imaging.Clone(img)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	p := &grayPlane{
		w:          w,
		h:          h,
		gray:       make([]float64, w*h),
		integral:   make([]float64, w*h),
		integralSq: make([]float64, w*h),
	}
	for y := 0; y < h; y++ {
		var rowSum, rowSum2 float64
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			g := luma(row[x*4], row[x*4+1], row[x*4+2])
			off := y*w + x
			p.gray[off] = g
			rowSum += g
			rowSum2 += g * g
			if y == 0 {
				p.integral[off] = rowSum
				p.integralSq[off] = rowSum2
			} else {
				p.integral[off] = p.integral[off-w] + rowSum
				p.integralSq[off] = p.integralSq[off-w] + rowSum2
			}
		}
	}
	return p
}

// sum returns the inclusive sum over [x0..x1] x [y0..y1] of table I.
func (p *grayPlane) sum(I []float64, x0, y0, x1, y1 int) float64 {
	at := func(x, y int) float64 {
		if x < 0 || y < 0 {
			return 0
		}
		return I[y*p.w+x]
	}
	return at(x1, y1) - at(x0-1, y1) - at(x1, y0-1) + at(x0-1, y0-1)
}

type grayTemplate struct {
	w, h int
	gray []float64
	mean float64
	std  float64
}

func newGrayTemplate(img *image.NRGBA) *grayTemplate {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	t := &grayTemplate{w: w, h: h, gray: make([]float64, w*h)}
	var sum, sum2 float64
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			g := luma(row[x*4], row[x*4+1], row[x*4+2])
			t.gray[y*w+x] = g
			sum += g
			sum2 += g * g
		}
	}
	n := float64(w * h)
	t.mean = sum / n
	if v := sum2/n - t.mean*t.mean; v > 0 {
		t.std = math.Sqrt(v)
	}
	return t
}

type match struct {
	x, y, w, h int
	score      float64
}

// matchNCC scans frame with the given stride, then refines around the best
// coarse hit at single-pixel resolution.
func matchNCC(f *grayPlane, t *grayTemplate, stride int) match {
	best := match{w: t.w, h: t.h, score: -1}
	if t.std <= 1e-9 {
		return best
	}
	if stride <= 0 {
		stride = 1
	}
	n := float64(t.w * t.h)
	score := func(x, y int) float64 {
		sumF := f.sum(f.integral, x, y, x+t.w-1, y+t.h-1)
		sumF2 := f.sum(f.integralSq, x, y, x+t.w-1, y+t.h-1)
		meanF := sumF / n
		varF := sumF2/n - meanF*meanF
		if varF <= 1e-9 {
			return -1
		}
		var sumFT float64
		for ty := 0; ty < t.h; ty++ {
			frow := f.gray[(y+ty)*f.w+x : (y+ty)*f.w+x+t.w]
			trow := t.gray[ty*t.w : (ty+1)*t.w]
			for i := range trow {
				sumFT += frow[i] * trow[i]
			}
		}
		return (sumFT - n*meanF*t.mean) / (n * math.Sqrt(varF) * t.std)
	}
	scan := func(x0, y0, x1, y1, step int) {
		for y := y0; y <= y1; y += step {
			for x := x0; x <= x1; x += step {
				if s := score(x, y); s > best.score {
					best.x, best.y, best.score = x, y, s
				}
			}
		}
	}
	maxX, maxY := f.w-t.w, f.h-t.h
	scan(0, 0, maxX, maxY, stride)
	if stride > 1 && best.score > -1 {
		scan(max(0, best.x-stride), max(0, best.y-stride), min(maxX, best.x+stride), min(maxY, best.y+stride), 1)
	}
	return best
}

func luma(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}
