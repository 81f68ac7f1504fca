package engine

import (
	"fmt"

	"github.com/ChrisVeigl/NeopixelKalimba/internal/config"
)

// Mode selects how a trigger picks the next note from the active scale.
type Mode int

const (
	// ModeRandom maps the raw analog sample linearly onto the scale.
	ModeRandom Mode = iota
	// ModeTeam walks one shared cursor: consecutive triggers by any
	// players produce the scale in order.
	ModeTeam
	// ModeCanon walks an independent cursor per player, so players drift
	// out of phase through the same sequence.
	ModeCanon
)

func (m Mode) String() string {
	switch m {
	case ModeRandom:
		return "random"
	case ModeTeam:
		return "team"
	case ModeCanon:
		return "canon"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode maps the configuration tag to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "random":
		return ModeRandom, nil
	case "team":
		return ModeTeam, nil
	case "canon":
		return ModeCanon, nil
	}
	return 0, fmt.Errorf("unknown playback mode %q", s)
}

// ToneScale is a named, ordered sequence of absolute MIDI pitches tagged
// with its playback mode.
type ToneScale struct {
	Name    string
	Mode    Mode
	Pitches []int
}

// Size returns the number of pitches in the scale.
func (s *ToneScale) Size() int {
	if s == nil {
		return 0
	}
	return len(s.Pitches)
}

// PitchBounds returns the lowest and highest pitch of the scale. The
// sequence is not required to be sorted.
func (s *ToneScale) PitchBounds() (min, max int) {
	if s.Size() == 0 {
		return 0, 0
	}
	min, max = s.Pitches[0], s.Pitches[0]
	for _, p := range s.Pitches[1:] {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return min, max
}

// ScalesFromConfig builds the runtime catalog from configuration entries.
func ScalesFromConfig(entries []config.ToneScale) ([]*ToneScale, error) {
	scales := make([]*ToneScale, 0, len(entries))
	for _, e := range entries {
		mode, err := ParseMode(e.Mode)
		if err != nil {
			return nil, fmt.Errorf("scale %q: %w", e.Name, err)
		}
		if len(e.Pitches) == 0 {
			return nil, fmt.Errorf("scale %q: empty pitch sequence", e.Name)
		}
		pitches := make([]int, len(e.Pitches))
		copy(pitches, e.Pitches)
		scales = append(scales, &ToneScale{Name: e.Name, Mode: mode, Pitches: pitches})
	}
	return scales, nil
}
