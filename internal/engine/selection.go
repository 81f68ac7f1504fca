package engine

// Raw analog samples span 0..1023; with no joystick attached the engine
// substitutes a random sample in the slot's half-range instead.
const (
	rawMin = 0
	rawMax = 1023

	// fallback pitch range when no scale is active
	fallbackPitchLow  = 10
	fallbackPitchHigh = 90
)

// mapRange linearly maps v from [inLow,inHigh] to [outLow,outHigh],
// Arduino-style. The output range may be inverted.
func mapRange(v, inLow, inHigh, outLow, outHigh int) int {
	if inHigh == inLow {
		return outLow
	}
	return (v-inLow)*(outHigh-outLow)/(inHigh-inLow) + outLow
}

// SelectionPolicy turns a trigger event into a (note, y-position) pair.
// It owns the cursor shared by all players in TEAM mode and the cached
// pitch bounds of the active scale; CANON cursors live on the players.
type SelectionPolicy struct {
	teamCursor int
	minPitch   int
	maxPitch   int
	yMin       int
	yMax       int
}

// NewSelectionPolicy creates a policy mapping notes into [yMin, yMax] of
// the display.
func NewSelectionPolicy(yMin, yMax int) *SelectionPolicy {
	return &SelectionPolicy{yMin: yMin, yMax: yMax}
}

// Select computes the note and vertical position for one trigger of the
// given player. raw is the 0..1023 sample for this trigger. Cursors
// advance as a side effect: the shared cursor in TEAM mode, the player's
// own cursor in CANON mode.
func (sp *SelectionPolicy) Select(p *Player, raw int) (note, y int) {
	scale := p.Scale
	if scale.Size() == 0 {
		// No active scale: bypass index mapping and spread the raw sample
		// over a wide absolute pitch range.
		note = mapRange(raw, rawMin, rawMax, fallbackPitchLow, fallbackPitchHigh)
		y = mapRange(raw, rawMin, rawMax, sp.yMin, sp.yMax)
		return note, y
	}

	size := p.ScaleSize
	switch scale.Mode {
	case ModeRandom:
		idx := mapRange(raw, rawMin, rawMax, 0, size-1)
		note = scale.Pitches[idx]
		y = mapRange(raw, rawMin, rawMax, sp.yMin, sp.yMax)
	case ModeTeam:
		note = scale.Pitches[sp.teamCursor%size]
		sp.teamCursor = (sp.teamCursor + 1) % size
		y = sp.PitchY(note)
	case ModeCanon:
		note = scale.Pitches[p.Cursor%size]
		p.Cursor = (p.Cursor + 1) % size
		y = sp.PitchY(note)
	}
	return note, y
}

// PitchY maps a pitch between the active scale's bounds into the display's
// vertical trigger range.
func (sp *SelectionPolicy) PitchY(note int) int {
	if sp.minPitch == sp.maxPitch {
		return (sp.yMin + sp.yMax) / 2
	}
	return mapRange(note, sp.minPitch, sp.maxPitch, sp.yMin, sp.yMax)
}

// ApplyScale activates a scale: every player gets the new reference and a
// recomputed cached size, all CANON cursors and the shared TEAM cursor
// reset to 0, and the pitch bounds are recomputed.
func (sp *SelectionPolicy) ApplyScale(scale *ToneScale, players []*Player) {
	sp.teamCursor = 0
	sp.minPitch, sp.maxPitch = scale.PitchBounds()
	for _, p := range players {
		p.Scale = scale
		p.ScaleSize = scale.Size()
		p.Cursor = 0
	}
}

// TeamCursor exposes the shared cursor position (used by diagnostics).
func (sp *SelectionPolicy) TeamCursor() int { return sp.teamCursor }
