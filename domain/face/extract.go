package face

import (
	"image"

	"github.com/disintegration/imaging"
)

// MeanSaturation returns the mean HSV saturation of img inside rect on the
// 0..255 scale. It reports false when rect does not overlap the image.
func MeanSaturation(img image.Image, rect image.Rectangle) (float64, bool) {
	if img == nil {
		return 0, false
	}
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return 0, false
	}
	crop := imaging.Crop(img, rect)
	b := crop.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0, false
	}
	var sum float64
	for y := 0; y < b.Dy(); y++ {
		row := crop.Pix[y*crop.Stride : y*crop.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			sum += saturation(row[i], row[i+1], row[i+2])
		}
	}
	return sum / float64(n), true
}

// saturation is the HSV S channel of an 8-bit pixel, scaled to 0..255.
func saturation(r, g, b uint8) float64 {
	hi, lo := r, r
	for _, c := range [2]uint8{g, b} {
		if c > hi {
			hi = c
		}
		if c < lo {
			lo = c
		}
	}
	if hi == 0 {
		return 0
	}
	return 255 * float64(hi-lo) / float64(hi)
}
