package view

import (
	"image"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/soocke/hrm-go/config"
	"github.com/soocke/hrm-go/ui/geom"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// SelectionOverlay manages the optional selection window that frames the
// video call or mirror window the screen source samples from.
type SelectionOverlay interface {
	OpenOrFocus()
	Clear()
	ActiveRect() *image.Rectangle
}

// assumed desktop size; the overlay only needs it for the first placement
var screenSize = image.Pt(1920, 1080)

const frameColor = "#e11d48"

type selectionOverlay struct {
	logger    *slog.Logger
	cfg       *config.Config
	cfgPath   string
	selection atomic.Value // image.Rectangle, read by the capture goroutine
	win       *ToplevelWidget
	hint      *LabelWidget
}

// NewSelectionOverlay restores the saved selection from cfg.
func NewSelectionOverlay(cfg *config.Config, cfgPath string, logger *slog.Logger) SelectionOverlay {
	v := &selectionOverlay{logger: logger, cfg: cfg, cfgPath: cfgPath}
	if cfg != nil && cfg.SelectionW > 0 && cfg.SelectionH > 0 {
		v.selection.Store(image.Rect(cfg.SelectionX, cfg.SelectionY, cfg.SelectionX+cfg.SelectionW, cfg.SelectionY+cfg.SelectionH))
	}
	return v
}

// OpenOrFocus shows a translucent frame the user drags and resizes over the
// face. It opens on the last confirmed selection.
func (v *selectionOverlay) OpenOrFocus() {
	if v.win != nil {
		WmGeometry(v.win.Window)
		return
	}
	var saved image.Rectangle
	if r := v.ActiveRect(); r != nil {
		saved = *r
	}
	win := App.Toplevel(Borderwidth(3), Background(frameColor))
	win.WmTitle("Frame the face")
	v.win = win
	WmGeometry(win.Window, geom.Format(geom.Initial(saved, screenSize)))
	WmAttributes(win.Window, "-topmost", 1)
	if runtime.GOOS == "windows" {
		WmAttributes(win.Window, "-toolwindow", true)
		WmAttributes(win.Window, "-transparentcolor", "#008080")
	} else {
		WmAttributes(win.Window, "-alpha", 0.35)
	}

	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(1))
	// see-through on windows; the red border marks the sampled area
	pane := win.Frame(Background("#008080"))
	Grid(pane, Row(0), Column(0), Sticky("nsew"))

	bar := win.Frame()
	Grid(bar, Row(1), Column(0), Sticky("we"))
	GridColumnConfigure(bar, 0, Weight(1))
	v.hint = win.Label(Txt("Keep the forehead inside the frame"), Anchor("w"))
	Grid(v.hint, In(bar), Row(0), Column(0), Sticky("w"), Padx("1m"))
	use := win.Button(Txt("Use [Enter]"), Command(v.confirm))
	Grid(use, In(bar), Row(0), Column(1), Padx("0.5m"), Pady("0.5m"))
	reset := win.Button(Txt("Full screen"), Command(func() {
		v.Clear()
		v.destroy()
	}))
	Grid(reset, In(bar), Row(0), Column(2), Padx("0.5m"), Pady("0.5m"))
	Bind(win, "<Return>", Command(v.confirm))
	Bind(win, "<Escape>", Command(v.destroy))
}

// Clear drops the selection so the screen source grabs the whole display.
func (v *selectionOverlay) Clear() {
	v.selection.Store(image.Rectangle{})
	if v.cfg != nil {
		v.cfg.SelectionW, v.cfg.SelectionH = 0, 0
		v.save()
	}
}

func (v *selectionOverlay) confirm() {
	if v.win == nil {
		return
	}
	rect, ok := geom.Parse(WmGeometry(v.win.Window))
	if !ok {
		v.destroy()
		return
	}
	if !geom.Usable(rect) {
		if v.hint != nil {
			v.hint.Configure(Txt("Too small to find a face, enlarge the frame"))
		}
		return
	}
	v.selection.Store(rect)
	if v.cfg != nil {
		v.cfg.SelectionX, v.cfg.SelectionY = rect.Min.X, rect.Min.Y
		v.cfg.SelectionW, v.cfg.SelectionH = rect.Dx(), rect.Dy()
		v.save()
	}
	if v.logger != nil {
		v.logger.Info("capture selection set", "rect", rect)
	}
	v.destroy()
}

func (v *selectionOverlay) save() {
	if v.cfgPath == "" {
		return
	}
	if err := v.cfg.Save(v.cfgPath); err != nil && v.logger != nil {
		v.logger.Error("selection save failed", "error", err)
	}
}

func (v *selectionOverlay) destroy() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
		v.hint = nil
	}
}

func (v *selectionOverlay) ActiveRect() *image.Rectangle {
	r, ok := v.selection.Load().(image.Rectangle)
	if !ok || r.Empty() {
		return nil
	}
	return &r
}
