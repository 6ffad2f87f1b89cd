package theme

// Palette and ttk styles for the heart-rate monitor window. The reading and
// state labels switch style with the session: muted while idle or waiting
// for enough signal, colored once a BPM is shown or a period is running.

import (
	"github.com/soocke/hrm-go/ui/chart"

	tk "modernc.org/tk9.0"
)

// Palette holds the resolved colors of one mode.
type Palette struct {
	AppBg     string
	Surface   string
	Text      string
	TextMuted string
	Start     string // start/restart button
	Stop      string // stop button
	Pulse     string // BPM reading
	Measuring string // state badge while a period runs
	Idle      string // state badge and reading while idle
}

var (
	light = Palette{
		AppBg:     "#f7f9fb",
		Surface:   "#ffffff",
		Text:      "#1e293b",
		TextMuted: "#64748b",
		Start:     "#16a34a",
		Stop:      "#dc2626",
		Pulse:     "#e11d48",
		Measuring: "#f59e0b",
		Idle:      "#94a3b8",
	}
	dark = Palette{
		AppBg:     "#0f172a",
		Surface:   "#1e293b",
		Text:      "#f1f5f9",
		TextMuted: "#94a3b8",
		Start:     "#22c55e",
		Stop:      "#ef4444",
		Pulse:     "#fb7185",
		Measuring: "#fbbf24",
		Idle:      "#475569",
	}
)

// Style names for Style(...) options.
const (
	StyleStartButton    = "start.TButton"
	StyleStopButton     = "stop.TButton"
	StyleReadingLabel   = "reading.TLabel"
	StyleWaitingLabel   = "waiting.TLabel"
	StyleIdleState      = "idle.TLabel"
	StyleMeasuringState = "measuring.TLabel"
)

var darkMode bool

// Current returns the palette of the active mode.
func Current() Palette {
	if darkMode {
		return dark
	}
	return light
}

// ChartColors maps the active palette onto the signal plot.
func ChartColors() chart.Colors {
	p := Current()
	return chart.Colors{Line: p.Pulse, Background: p.Surface, Text: p.Text}
}

// ReadingStyle selects the BPM label style; waiting covers the placeholder
// and the "Measuring..." label.
func ReadingStyle(hasBPM bool) string {
	if hasBPM {
		return StyleReadingLabel
	}
	return StyleWaitingLabel
}

// StateStyle selects the state badge style.
func StateStyle(measuring bool) string {
	if measuring {
		return StyleMeasuringState
	}
	return StyleIdleState
}

// InitStyles (re)applies styles for the current mode.
func InitStyles() { apply(Current()) }

// SetDark switches mode and reapplies styles. Returns the new mode.
func SetDark(on bool) bool {
	darkMode = on
	apply(Current())
	return darkMode
}

// ToggleDark flips the mode.
func ToggleDark() bool { return SetDark(!darkMode) }

func IsDark() bool { return darkMode }

func apply(p Palette) {
	_ = tk.ActivateTheme("azure light")
	tk.App.Configure(tk.Background(p.AppBg))

	button := func(name, bg string) {
		tk.StyleConfigure(name, tk.Background(bg), tk.Foreground("white"), tk.Padding("4p 3p"), tk.Borderwidth(1), tk.Relief("ridge"))
	}
	button(StyleStartButton, p.Start)
	button(StyleStopButton, p.Stop)

	reading := func(name, fg string) {
		tk.StyleConfigure(name, tk.Foreground(fg), tk.Background(p.Surface), tk.Padding("6p 3p"), tk.Font("helvetica", 18, "bold"))
	}
	reading(StyleReadingLabel, p.Pulse)
	reading(StyleWaitingLabel, p.TextMuted)

	badge := func(name, bg string) {
		tk.StyleConfigure(name, tk.Foreground("white"), tk.Background(bg), tk.Padding("4p 2p"), tk.Borderwidth(1), tk.Relief("groove"))
	}
	badge(StyleIdleState, p.Idle)
	badge(StyleMeasuringState, p.Measuring)
}
