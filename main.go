package main

import (
	"flag"
	"log/slog"
	"time"

	"github.com/soocke/hrm-go/app"
	"github.com/soocke/hrm-go/config"
	"github.com/soocke/hrm-go/debug"
)

func main() {
	cfgPath := flag.String("config", "hrm.yaml", "config file (.yaml/.yml or .json)")
	source := flag.String("source", "", "frame source: screen, camera, video or synthetic")
	video := flag.String("video", "", "video file for the video source")
	debugFlag := flag.Bool("debug", false, "debug logging and runtime diagnostics")
	natsURL := flag.String("nats", "", "publish readings to this NATS server")
	httpAddr := flag.String("http", "", "serve readings over websocket on this address")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		NewLogger(slog.LevelInfo).Error("config load failed, using defaults", "error", err, "path", *cfgPath)
		cfg = config.DefaultConfig()
	}
	if *source != "" {
		cfg.Source = *source
	}
	if *video != "" {
		cfg.VideoPath = *video
		if *source == "" {
			cfg.Source = config.SourceVideo
		}
	}
	if *debugFlag {
		cfg.Debug = true
	}
	if *natsURL != "" {
		cfg.NATSURL = *natsURL
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}
	_ = cfg.Validate()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(level)
	application := app.NewApp("Heart Rate Monitor", 900, 760, cfg, *cfgPath, logger)
	if cfg.Debug {
		debug.StartGoroutineLogger(5*time.Second, logger)
		debug.StartMemLogger(5*time.Second, logger, application.Gauges()...)
	}
	application.Start()
}
