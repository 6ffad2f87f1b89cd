package debug

// Memory logger, started only when config.Debug is set. Tk photo images and
// ffmpeg/OpenCV buffers live outside the Go heap, so resident size growing
// while heap_alloc stays flat points at native memory rather than the sample
// buffer. Gauges put pipeline counters on the same line for correlation.

import (
	"log/slog"
	"runtime"
	"time"
)

// Gauge is an application counter logged next to memory stats.
type Gauge struct {
	Name  string
	Value func() uint64
}

// StartMemLogger launches a goroutine that logs memory stats and gauges every
// interval. A failing resident size query is logged once and then omitted.
func StartMemLogger(interval time.Duration, logger *slog.Logger, gauges ...Gauge) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if logger == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		var rssErrLogged bool
		for range ticker.C {
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			rss, err := residentBytes()
			if err != nil && !rssErrLogged {
				logger.Warn("memlog: resident size unavailable", "error", err)
				rssErrLogged = true
			}
			logger.Debug("memstats", memAttrs(&ms, rss, err == nil, gauges)...)
		}
	}()
}

func memAttrs(ms *runtime.MemStats, rss uint64, haveRSS bool, gauges []Gauge) []any {
	attrs := []any{
		slog.Uint64("heap_alloc", ms.HeapAlloc),
		slog.Uint64("heap_inuse", ms.HeapInuse),
		slog.Uint64("heap_sys", ms.HeapSys),
		slog.Uint64("next_gc", ms.NextGC),
		slog.Uint64("num_gc", uint64(ms.NumGC)),
	}
	if haveRSS {
		attrs = append(attrs, slog.Uint64("rss", rss))
	}
	for _, g := range gauges {
		if g.Name == "" || g.Value == nil {
			continue
		}
		attrs = append(attrs, slog.Uint64(g.Name, g.Value()))
	}
	return attrs
}
