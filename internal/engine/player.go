package engine

import "time"

// TriggerSlot is one of a player's two independent press/release inputs.
// Timestamp keeps the last rising edge until the coincidence scanner
// consumes it; the zero time is the "unset/consumed" sentinel.
type TriggerSlot struct {
	Pin       int
	Active    bool
	Note      int
	Timestamp time.Time
}

// Player holds one player's trigger slots, its CANON walk cursor, the
// active scale reference with its cached size and the two owned wave
// layers. Players are created once at startup and mutated only by the
// engine's own tick logic and by the mode controller on scale change.
type Player struct {
	ID        int
	AnalogPin int
	Slots     [2]TriggerSlot
	Cursor    int
	Scale     *ToneScale
	ScaleSize int
	Lower     WaveLayer
	Upper     WaveLayer
	BigWave   Envelope
}

// updatePlayer advances both trigger slots of one player by one tick.
func (e *Engine) updatePlayer(now time.Time, p *Player) {
	raw := e.input.AnalogRead(p.AnalogPin)
	for si := range p.Slots {
		pressed := e.slotPressed(now, p, si)
		slot := &p.Slots[si]
		switch {
		case pressed && !slot.Active:
			e.pressSlot(now, p, si, raw)
		case !pressed && slot.Active:
			e.releaseSlot(p, slot)
		}
		// re-entrant press or release: no edge, nothing to do
	}
}

// slotPressed merges the physical pin with the serial override feed.
// A recent override byte wins; authority reverts to the pin once the
// recency window elapses.
func (e *Engine) slotPressed(now time.Time, p *Player, slot int) bool {
	if v, ok := e.overrides.Pressed(p.ID, slot, now); ok {
		return v
	}
	return e.input.DigitalRead(p.Slots[slot].Pin)
}

// pressSlot handles the rising edge: stamp the trigger, pick a note and
// position, switch the layers to sustain dynamics, fire the impulse and
// send note on.
func (e *Engine) pressSlot(now time.Time, p *Player, si int, raw int) {
	slot := &p.Slots[si]
	slot.Active = true
	slot.Timestamp = now
	e.lastActivity = now

	if !e.cfg.JoystickMode {
		// No joystick attached: substitute a random sample in this
		// slot's half-range (slot 0 bottom, slot 1 top).
		half := (rawMax + 1) / 2
		raw = e.rng.Intn(half) + si*half
	}

	note, y := e.policy.Select(p, raw)
	slot.Note = note

	dyn := e.cfg.Dynamics
	p.Lower.SetDynamics(dyn.LowerSustain.Speed, dyn.LowerSustain.Damping)
	p.Upper.SetDynamics(dyn.UpperSustain.Speed, dyn.UpperSustain.Damping)

	x := e.impulseX(p)
	p.Lower.Set(x, y, triggerImpact)
	p.Upper.Set(x, y, triggerImpact)

	logger.Debug("trigger press",
		"player", p.ID, "slot", si, "raw", raw, "note", note, "x", x, "y", y)
	e.sink.NoteOn(note, e.cfg.MIDI.Velocity, p.ID+1)
}

// releaseSlot handles the falling edge: faster decay and note off with
// the exact note that was turned on for this press, so a policy cursor
// that moved mid-press cannot orphan a note.
func (e *Engine) releaseSlot(p *Player, slot *TriggerSlot) {
	slot.Active = false

	dyn := e.cfg.Dynamics
	p.Lower.SetDynamics(dyn.LowerRelease.Speed, dyn.LowerRelease.Damping)
	p.Upper.SetDynamics(dyn.UpperRelease.Speed, dyn.UpperRelease.Damping)

	logger.Debug("trigger release", "player", p.ID, "note", slot.Note)
	e.sink.NoteOff(slot.Note, e.cfg.MIDI.Velocity, p.ID+1)
}

// impulseX picks a random x inside the player's column, keeping a margin
// from the column edges so ripples stay visually separated.
func (e *Engine) impulseX(p *Player) int {
	w := e.cfg.Geometry.PlayerWidth
	minX := int(impulseMargin * float64(w))
	maxX := int((1 - impulseMargin) * float64(w))
	if maxX <= minX {
		maxX = minX + 1
	}
	return p.ID*w + minX + e.rng.Intn(maxX-minX)
}
