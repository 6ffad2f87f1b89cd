package face

import (
	"image"
	"math"
)

// Region is a face box relative to the frame: X, Y, W, H in 0..1.
type Region struct {
	X, Y, W, H float64
	Score      float64 // detector confidence, 0 when not applicable
}

// Empty reports whether the region has no area.
func (r Region) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Abs maps the region onto bounds, clamped to it.
func (r Region) Abs(bounds image.Rectangle) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	bw, bh := float64(bounds.Dx()), float64(bounds.Dy())
	x0 := bounds.Min.X + int(math.Round(r.X*bw))
	y0 := bounds.Min.Y + int(math.Round(r.Y*bh))
	x1 := bounds.Min.X + int(math.Round((r.X+r.W)*bw))
	y1 := bounds.Min.Y + int(math.Round((r.Y+r.H)*bh))
	return image.Rect(x0, y0, x1, y1).Intersect(bounds)
}

// RegionOf converts an absolute rectangle inside bounds to a relative Region.
func RegionOf(rect, bounds image.Rectangle) Region {
	bw, bh := float64(bounds.Dx()), float64(bounds.Dy())
	if bw <= 0 || bh <= 0 {
		return Region{}
	}
	rect = rect.Intersect(bounds)
	if rect.Empty() {
		return Region{}
	}
	return Region{
		X: float64(rect.Min.X-bounds.Min.X) / bw,
		Y: float64(rect.Min.Y-bounds.Min.Y) / bh,
		W: float64(rect.Dx()) / bw,
		H: float64(rect.Dy()) / bh,
	}
}

// Forehead returns the top fraction of a face rectangle across its full width.
// With fraction 0.2 the height is the face height divided by five, rounded down.
func Forehead(face image.Rectangle, fraction float64) image.Rectangle {
	if face.Empty() || fraction <= 0 {
		return image.Rectangle{}
	}
	if fraction > 1 {
		fraction = 1
	}
	h := int(math.Floor(float64(face.Dy()) * fraction))
	if h <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(face.Min.X, face.Min.Y, face.Max.X, face.Min.Y+h)
}
