// Package midisink sends the installation's notes to a hot-plugged MIDI
// output (e.g. a ZynAddSubFX synthesizer). The device watcher rescans on
// a recency timer, auto-connects to a preferred port and survives
// hot-unplug; while no device is connected, messages are dropped.
package midisink

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

var logger = slog.Default()

// SetLogger routes the package's log output through the given logger.
func SetLogger(l *slog.Logger) { logger = l }

const rescanInterval = 1000 * time.Millisecond

// Sink implements engine.NoteSink over a MIDI output port.
type Sink struct {
	mu           sync.Mutex
	drv          *rtmididrv.Driver
	out          drivers.Out
	send         func(midi.Message) error
	connected    bool
	selectedName string
	lastRescanAt time.Time

	preferred []string
	excluded  []string
}

// New creates the sink and initialises the rtmidi driver. Call Close when
// done.
func New(preferred, excluded []string) (*Sink, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	return &Sink{drv: drv, preferred: preferred, excluded: excluded}, nil
}

// Close shuts down the active connection and the driver.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeConn()
	s.drv.Close()
}

// Tick should be called regularly from the main loop. It scans for
// outputs, auto-connects to a preferred one and detects disappearances.
func (s *Sink) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if !s.lastRescanAt.IsZero() && now.Sub(s.lastRescanAt) < rescanInterval {
		return
	}
	s.lastRescanAt = now

	outputs := s.listOutputs()

	if s.connected {
		for _, n := range outputs {
			if n == s.selectedName {
				return // still there, nothing to do
			}
		}
		logger.Warn("midi: output disappeared", "device", s.selectedName)
		s.closeConn()
		s.lastRescanAt = time.Time{} // rescan immediately next tick
		return
	}

	if len(outputs) == 0 {
		return
	}
	cand, ok := s.pickPreferred(outputs)
	if !ok {
		return
	}
	if err := s.openByName(cand); err != nil {
		logger.Error("midi: connect failed", "device", cand, "err", err)
	}
}

// -------------------- engine.NoteSink --------------------

// NoteOn sends a note-on. Channels are 1-based as in the engine.
func (s *Sink) NoteOn(pitch, velocity, channel int) {
	s.emit(midi.NoteOn(ch(channel), key(pitch), u7(velocity)))
}

// NoteOff sends a note-off with release velocity.
func (s *Sink) NoteOff(pitch, velocity, channel int) {
	s.emit(midi.NoteOffVelocity(ch(channel), key(pitch), u7(velocity)))
}

// ControlChange sends a controller value.
func (s *Sink) ControlChange(controller, value, channel int) {
	s.emit(midi.ControlChange(ch(channel), u7(controller), u7(value)))
}

// PitchBend sends a relative pitch bend.
func (s *Sink) PitchBend(value, channel int) {
	s.emit(midi.Pitchbend(ch(channel), int16(value)))
}

func (s *Sink) emit(msg midi.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		logger.Debug("midi: no output connected, dropping", "msg", msg.String())
		return
	}
	if err := s.send(msg); err != nil {
		logger.Warn("midi: send failed", "err", err)
	}
}

// -------------------- internal --------------------

func (s *Sink) listOutputs() []string {
	outs, err := s.drv.Outs()
	if err != nil {
		logger.Error("midi: list outputs failed", "err", err)
		return nil
	}
	var names []string
	for _, out := range outs {
		name := out.String()
		skip := false
		for _, pat := range s.excluded {
			if containsCI(name, pat) {
				skip = true
				break
			}
		}
		if skip {
			logger.Debug("midi: output excluded", "device", name)
		} else {
			names = append(names, name)
		}
	}
	logger.Debug("midi: outputs found", "count", len(names), "devices", strings.Join(names, ", "))
	return names
}

func (s *Sink) pickPreferred(outputs []string) (string, bool) {
	for _, pat := range s.preferred {
		for _, name := range outputs {
			if containsCI(name, pat) {
				return name, true
			}
		}
	}
	if len(outputs) == 1 {
		return outputs[0], true
	}
	return "", false
}

func (s *Sink) closeConn() {
	if s.out != nil {
		_ = s.out.Close()
		s.out = nil
	}
	s.send = nil
	s.connected = false
	s.selectedName = ""
}

func (s *Sink) openByName(name string) error {
	outs, err := s.drv.Outs()
	if err != nil {
		return err
	}
	var found drivers.Out
	for _, out := range outs {
		if out.String() == name {
			found = out
			break
		}
	}
	if found == nil {
		return fmt.Errorf("output %q not found", name)
	}
	if err := found.Open(); err != nil {
		return fmt.Errorf("open %q: %w", name, err)
	}
	send, err := midi.SendTo(found)
	if err != nil {
		_ = found.Close()
		return fmt.Errorf("sender %q: %w", name, err)
	}
	s.out = found
	s.send = send
	s.connected = true
	s.selectedName = name
	logger.Info("midi: connected", "device", name)
	return nil
}

// -------------------- conversions --------------------

// ch converts the engine's 1-based channel to the 0-based wire channel.
func ch(channel int) uint8 {
	if channel < 1 {
		return 0
	}
	if channel > 16 {
		return 15
	}
	return uint8(channel - 1)
}

func key(pitch int) uint8 {
	if pitch < 0 {
		return 0
	}
	if pitch > 127 {
		return 127
	}
	return uint8(pitch)
}

func u7(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

func containsCI(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
