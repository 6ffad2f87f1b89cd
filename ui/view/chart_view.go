package view

import (
	"github.com/soocke/hrm-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Chart image size in pixels.
const (
	ChartW = 560
	ChartH = 180
)

// ChartView shows the rendered signal chart below the previews.
type ChartView interface {
	SetChart(png []byte)
}

type chartView struct {
	label       *LabelWidget
	placeholder []byte
	photo       *Img
}

// NewChartView creates the chart label spanning the preview row width.
func NewChartView(row, w, h int) ChartView {
	placeholder := images.EncodePNG(images.Placeholder(w, h))
	photo := NewPhoto(Data(placeholder))
	label := Label(Image(photo), Borderwidth(1), Relief("sunken"))
	Grid(label, Row(row), Column(0), Columnspan(5), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	return &chartView{label: label, placeholder: placeholder, photo: photo}
}

func (v *chartView) SetChart(png []byte) {
	if v == nil || v.label == nil {
		return
	}
	if len(png) == 0 {
		png = v.placeholder
	}
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(png))
	v.label.Configure(Image(v.photo))
}
