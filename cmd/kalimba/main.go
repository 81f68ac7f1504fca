// Kalimba drives the interactive light-and-sound installation: player
// triggers raise ripples on the LED matrix and notes on the MIDI output,
// near-simultaneous triggers of two players start the shared big-wave
// choreography, and an idle animation takes over when nobody plays.
package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChrisVeigl/NeopixelKalimba/internal/config"
	"github.com/ChrisVeigl/NeopixelKalimba/internal/engine"
	"github.com/ChrisVeigl/NeopixelKalimba/internal/midisink"
	"github.com/ChrisVeigl/NeopixelKalimba/internal/trigger"
	"github.com/ChrisVeigl/NeopixelKalimba/internal/vizserver"
	"github.com/ChrisVeigl/NeopixelKalimba/internal/wave"
)

// logger is the process-wide structured logger. Safe to use before
// initLogger is called; defaults to slog.Default().
var logger = slog.Default()

// initLogger configures the shared slog logger and calls slog.SetDefault
// so the stdlib log package also routes through the same handler.
func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug, // include file:line in debug mode
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
	engine.SetLogger(logger)
	midisink.SetLogger(logger)
	trigger.SetLogger(logger)
	vizserver.SetLogger(logger)
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging (adds source location)")
	configPath := flag.String("config", "", "YAML configuration file (empty: built-in defaults)")
	serialDev := flag.String("serial", "", "serial device of the override feed (empty: disabled)")
	baud := flag.Int("baud", 115200, "serial baud rate")
	vizAddr := flag.String("viz", ":8081", "address of the frame websocket server (empty: disabled)")
	useMIDI := flag.Bool("midi", true, "connect to a MIDI output (false: log notes only)")
	seed := flag.Int64("seed", 0, "random seed (0: time-based)")
	flag.Parse()

	initLogger(*debug)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config load failed", "err", err)
		os.Exit(1)
	}
	logger.Info("kalimba starting",
		"players", cfg.Geometry.Players,
		"matrix", cfg.Geometry.Width()*cfg.Geometry.Height,
		"scales", len(cfg.Scales),
		"tick_ms", cfg.Timings.TickMs,
	)

	surface, err := wave.NewSurface(cfg)
	if err != nil {
		logger.Error("surface init failed", "err", err)
		os.Exit(1)
	}

	var sink engine.NoteSink = midisink.LogSink{}
	var midiOut *midisink.Sink
	if *useMIDI {
		midiOut, err = midisink.New(cfg.MIDI.PreferredOutputs, cfg.MIDI.ExcludedOutputs)
		if err != nil {
			logger.Error("midi init failed", "err", err)
			os.Exit(1)
		}
		defer midiOut.Close()
		sink = midiOut
	}

	var feed *trigger.Feed
	if *serialDev != "" {
		feed, err = trigger.OpenFeed(*serialDev, *baud)
		if err != nil {
			logger.Error("override feed init failed", "err", err)
			os.Exit(1)
		}
		defer feed.Close()
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	eng, err := engine.New(cfg, sink, trigger.NullSource{}, surface, rng)
	if err != nil {
		logger.Error("engine init failed", "err", err)
		os.Exit(1)
	}

	if *vizAddr != "" {
		viz := vizserver.New(*vizAddr)
		viz.Start()
		defer viz.Stop()
		eng.OnFrame = func(pixels []byte) {
			vizserver.Publish(surface.Width(), surface.Height(), pixels)
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.Timings.TickMs) * time.Millisecond)
	defer ticker.Stop()

	logger.Info("running")
	for {
		select {
		case <-stop:
			logger.Info("shutting down")
			return
		case now := <-ticker.C:
			if feed != nil {
				for _, b := range feed.Drain() {
					eng.ApplyOverride(b, now)
				}
			}
			eng.Tick(now)
			if midiOut != nil {
				midiOut.Tick()
			}
		}
	}
}
