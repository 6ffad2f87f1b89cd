package geom

import (
	"image"
	"testing"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want image.Rectangle
		ok   bool
	}{
		{"640x480+100+50", image.Rect(100, 50, 740, 530), true},
		{" 320x240+-10+-20\n", image.Rect(-10, -20, 310, 220), true},
		{"0x480+0+0", image.Rectangle{}, false},
		{"640x480", image.Rectangle{}, false},
		{"", image.Rectangle{}, false},
	}
	for _, c := range cases {
		got, ok := Parse(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("Parse(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	r := image.Rect(12, 34, 652, 514)
	got, ok := Parse(Format(r))
	if !ok || got != r {
		t.Fatalf("round trip gave %v, %v", got, ok)
	}
}

func TestInitial(t *testing.T) {
	screen := image.Pt(1920, 1080)
	saved := image.Rect(10, 10, 410, 310)
	if got := Initial(saved, screen); got != saved {
		t.Fatalf("saved selection not reused: %v", got)
	}
	got := Initial(image.Rectangle{}, screen)
	if got.Dx() != 640 || got.Dy() != 480 {
		t.Fatalf("default size %dx%d, want 640x480", got.Dx(), got.Dy())
	}
	if got.Min.X != 640 || got.Min.Y != 300 {
		t.Fatalf("default box not centered: %v", got)
	}
	// tiny screens still open a usable box
	if small := Initial(image.Rectangle{}, image.Pt(300, 200)); !Usable(small) {
		t.Fatalf("initial box too small: %v", small)
	}
}

func TestUsable(t *testing.T) {
	if Usable(image.Rect(0, 0, MinW-1, 400)) {
		t.Fatalf("narrow selection accepted")
	}
	if !Usable(image.Rect(0, 0, MinW, MinH)) {
		t.Fatalf("minimum selection rejected")
	}
}
