package engine

import "time"

// slotBit set in an override byte means the byte addresses trigger slot 2;
// the remaining bits are per-player pressed flags.
const slotBit = 0x80

// Overrides merges the asynchronous serial override feed into the trigger
// state. Each received byte forces the addressed slot's logical state for
// all players for a bounded recency window; there is no handshake, the
// freshest byte simply wins and authority reverts to the physical pins
// once the window elapses.
type Overrides struct {
	window    time.Duration
	flags     [2]byte
	updatedAt [2]time.Time
}

// NewOverrides creates the override state with the given authority window.
func NewOverrides(window time.Duration) *Overrides {
	return &Overrides{window: window}
}

// Apply records one feed byte. Bit 7 selects the slot; the byte is kept
// verbatim as the per-player mask.
func (o *Overrides) Apply(b byte, now time.Time) {
	slot := 0
	if b&slotBit != 0 {
		slot = 1
	}
	o.flags[slot] = b
	o.updatedAt[slot] = now
	logger.Debug("override received", "slot", slot+1, "mask", b&^byte(slotBit))
}

// Pressed reports the overridden state of one player/slot. ok is false
// when no override is authoritative (none received, or the recency window
// has elapsed) and the caller must fall back to the physical pin.
func (o *Overrides) Pressed(player, slot int, now time.Time) (pressed, ok bool) {
	t := o.updatedAt[slot]
	if t.IsZero() || now.Sub(t) >= o.window {
		return false, false
	}
	return o.flags[slot]&(1<<player) != 0, true
}
