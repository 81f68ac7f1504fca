// Package trigger provides the engine's input side: the serial override
// feed carrying per-player trigger bitmasks, and input sources for
// running with or without physical controls.
package trigger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.bug.st/serial"
)

var logger = slog.Default()

// SetLogger routes the package's log output through the given logger.
func SetLogger(l *slog.Logger) { logger = l }

// feedBuffer bounds how many override bytes can queue up between ticks;
// the feed drops on overflow rather than block.
const feedBuffer = 64

// Feed reads the asynchronous override byte stream. Each byte is a
// per-player trigger bitmask; bit 7 selects which trigger slot it
// addresses. A background goroutine pushes bytes into a bounded channel
// that the main loop drains once per tick, keeping all engine state
// single-writer.
type Feed struct {
	port serial.Port
	ch   chan byte
	done chan struct{}
}

// OpenFeed opens the named serial device at the given baud rate and
// starts the read loop.
func OpenFeed(device string, baud int) (*Feed, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("trigger: open %s: %w", device, err)
	}
	logger.Info("trigger: feed opened", "device", device, "baud", baud)
	f := &Feed{
		port: port,
		ch:   make(chan byte, feedBuffer),
		done: make(chan struct{}),
	}
	go f.readLoop()
	return f, nil
}

func (f *Feed) readLoop() {
	defer close(f.done)
	buf := make([]byte, 16)
	for {
		n, err := f.port.Read(buf)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Error("trigger: read error", "err", err)
			}
			return
		}
		for _, b := range buf[:n] {
			select {
			case f.ch <- b:
			default:
				logger.Warn("trigger: feed overflow, byte dropped")
			}
		}
	}
}

// Drain returns all override bytes received since the previous call.
func (f *Feed) Drain() []byte {
	var out []byte
	for {
		select {
		case b := <-f.ch:
			out = append(out, b)
		default:
			return out
		}
	}
}

// Close stops the read loop and closes the port.
func (f *Feed) Close() {
	logger.Info("trigger: closing feed")
	_ = f.port.Close()
	<-f.done
}
