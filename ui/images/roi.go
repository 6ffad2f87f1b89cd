package images

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ExtractRect crops r out of frame, clamped to the frame bounds. The returned
// rectangle is the clamped crop in frame coordinates.
func ExtractRect(frame image.Image, r image.Rectangle) (*image.NRGBA, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	r = r.Intersect(frame.Bounds())
	if r.Empty() {
		return nil, image.Rectangle{}, errors.New("region outside frame")
	}
	return imaging.Crop(frame, r), r, nil
}

// Outline returns a copy of frame with a one pixel border drawn around each rect.
func Outline(frame image.Image, c color.Color, rects ...image.Rectangle) *image.NRGBA {
	if frame == nil {
		return nil
	}
	out := imaging.Clone(frame)
	origin := frame.Bounds().Min
	for _, r := range rects {
		r = r.Intersect(frame.Bounds()).Sub(origin)
		if r.Empty() {
			continue
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			out.Set(x, r.Min.Y, c)
			out.Set(x, r.Max.Y-1, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			out.Set(r.Min.X, y, c)
			out.Set(r.Max.X-1, y, c)
		}
	}
	return out
}
