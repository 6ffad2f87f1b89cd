// Package chart renders the live signal plot shown next to the preview.
package chart

import (
	"bytes"
	"errors"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/soocke/hrm-go/domain/signal"
)

const Title = "Heart Rate Over Time"

// ErrNotEnoughData is returned when fewer than two samples are available.
var ErrNotEnoughData = errors.New("chart: not enough samples")

// Colors are "#rrggbb" values for one window theme. Empty fields keep the
// go-chart defaults.
type Colors struct {
	Line       string
	Background string
	Text       string
}

func hexStyle(hex string, apply func(*chart.Style, drawing.Color)) chart.Style {
	var st chart.Style
	if hex != "" {
		apply(&st, drawing.ColorFromHex(strings.TrimPrefix(hex, "#")))
	}
	return st
}

// Render plots samples as forehead saturation over elapsed seconds and encodes
// the result as PNG. The x axis spans 0..windowSeconds, or the last sample time
// when samples run past it.
func Render(samples []signal.Sample, windowSeconds float64, width, height int, colors Colors) ([]byte, error) {
	if len(samples) < 2 {
		return nil, ErrNotEnoughData
	}
	xs := signal.Times(samples)
	ys := signal.Values(samples)

	xMax := windowSeconds
	if last := xs[len(xs)-1]; last > xMax {
		xMax = last
	}
	if xMax <= 0 {
		xMax = 1
	}
	var yRange *chart.ContinuousRange
	if lo, hi := bounds(ys); lo == hi {
		// go-chart refuses a zero-height range
		yRange = &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
	}

	fill := hexStyle(colors.Background, func(st *chart.Style, c drawing.Color) {
		st.FillColor, st.StrokeColor = c, c
	})
	text := hexStyle(colors.Text, func(st *chart.Style, c drawing.Color) { st.FontColor = c })
	line := hexStyle(colors.Line, func(st *chart.Style, c drawing.Color) { st.StrokeColor = c })
	line.StrokeWidth = 1.5

	graph := chart.Chart{
		Title:      Title,
		TitleStyle: text,
		Width:      width,
		Height:     height,
		Background: fill,
		Canvas:     fill,
		XAxis: chart.XAxis{
			Name:      "Time (s)",
			NameStyle: text,
			Style:     text,
			Range:     &chart.ContinuousRange{Min: 0, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:      "Saturation",
			NameStyle: text,
			Style:     text,
			Range:     yRange,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style:   line,
				XValues: xs,
				YValues: ys,
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func bounds(vs []float64) (lo, hi float64) {
	lo, hi = vs[0], vs[0]
	for _, v := range vs[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
