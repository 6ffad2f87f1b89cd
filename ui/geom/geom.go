// Package geom converts between Tk window geometry strings and screen
// rectangles for the capture selection.
package geom

import (
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"
)

// MinW and MinH bound the smallest selection that still leaves a forehead
// region of a few dozen pixels after face detection.
const (
	MinW = 160
	MinH = 120
)

var geometryRe = regexp.MustCompile(`^(\d+)x(\d+)\+(-?\d+)\+(-?\d+)$`)

// Parse reads a "WxH+X+Y" geometry string.
func Parse(g string) (image.Rectangle, bool) {
	m := geometryRe.FindStringSubmatch(strings.TrimSpace(g))
	if len(m) != 5 {
		return image.Rectangle{}, false
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	x, _ := strconv.Atoi(m[3])
	y, _ := strconv.Atoi(m[4])
	if w <= 0 || h <= 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(x, y, x+w, y+h), true
}

// Format renders r as a geometry string.
func Format(r image.Rectangle) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
}

// Initial picks where the selection window opens: on the last confirmed
// selection when there is one, otherwise a 4:3 box a third of the screen
// wide, centered, roughly the size of a video call tile.
func Initial(saved image.Rectangle, screen image.Point) image.Rectangle {
	if !saved.Empty() {
		return saved
	}
	w := max(screen.X/3, MinW)
	h := max(w*3/4, MinH)
	x, y := (screen.X-w)/2, (screen.Y-h)/2
	return image.Rect(x, y, x+w, y+h)
}

// Usable reports whether r is large enough to sample a face from.
func Usable(r image.Rectangle) bool {
	return r.Dx() >= MinW && r.Dy() >= MinH
}
