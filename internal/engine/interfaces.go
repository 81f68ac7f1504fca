package engine

import "time"

// WaveLayer is one impulse-field layer of the display. Implementations
// must clamp out-of-range coordinates; callers do not guarantee in-range
// values.
type WaveLayer interface {
	// Set writes an impulse peak, replacing the current value.
	Set(x, y int, v float32)
	// Add injects energy additively.
	Add(x, y int, v float32)
	// SetDynamics switches the layer's propagation speed and damping.
	SetDynamics(speed, damping float32)
}

// WaveSurface is the 2D simulation and rendering collaborator. Each player
// owns a lower and an upper layer; one extra pair is shared by the
// big-wave choreography. Layers span the full matrix; players are offset
// along x by playerId * playerWidth.
type WaveSurface interface {
	Lower(player int) WaveLayer
	Upper(player int) WaveLayer
	BigLower() WaveLayer
	BigUpper() WaveLayer
	SetBrightness(v uint8)
	// Render advances the simulation and returns the blended RGB buffer,
	// row-major, 3 bytes per pixel.
	Render(now time.Time) []byte
}

// NoteSink is the musical-note transport. Channels are 1-based:
// playerId+1 for player notes, plus one reserved coordination channel and
// one reserved idle/preview channel.
type NoteSink interface {
	NoteOn(pitch, velocity, channel int)
	NoteOff(pitch, velocity, channel int)
	ControlChange(controller, value, channel int)
	PitchBend(value, channel int)
}

// InputSource samples the physical controls. DigitalRead reports whether
// the control on the given pin is currently active (pressed); AnalogRead
// returns a raw 0..1023 sample.
type InputSource interface {
	DigitalRead(pin int) bool
	AnalogRead(pin int) int
}
