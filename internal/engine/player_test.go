package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerPressRelease(t *testing.T) {
	rig := newTestRig(t, teamScale)

	rig.press(0, 0)
	rig.tick()

	notes := rig.sink.onChannel(1)
	require.Len(t, notes, 1)
	assert.True(t, notes[0].on)
	assert.Equal(t, 60, notes[0].pitch)

	// Holding must not re-send note on.
	rig.tick()
	rig.tick()
	assert.Len(t, rig.sink.onChannel(1), 1)

	rig.release(0, 0)
	rig.tick()

	notes = rig.sink.onChannel(1)
	require.Len(t, notes, 2)
	assert.False(t, notes[1].on)
	assert.Equal(t, 60, notes[1].pitch)
	assert.Equal(t, 0, rig.sink.balance(1))
}

func TestReleaseUsesStoredNote(t *testing.T) {
	rig := newTestRig(t, teamScale)

	// Player 0 presses and holds: gets scale[0].
	rig.press(0, 0)
	rig.tick()

	// Player 1 triggers while player 0 holds, moving the shared cursor
	// onward.
	rig.tickAfter(100 * time.Millisecond)
	rig.press(1, 0)
	rig.tick()
	rig.release(1, 0)
	rig.tick()

	// Player 0's release must turn off exactly the note that was turned
	// on, not a freshly recomputed one.
	rig.release(0, 0)
	rig.tick()

	var offs []noteEvent
	for _, e := range rig.sink.onChannel(1) {
		if !e.on {
			offs = append(offs, e)
		}
	}
	require.Len(t, offs, 1)
	assert.Equal(t, 60, offs[0].pitch)
}

func TestSlotsAreIndependent(t *testing.T) {
	rig := newTestRig(t, teamScale)

	rig.press(0, 0)
	rig.tick()
	rig.press(0, 1)
	rig.tick()

	// Two notes sounding on the player channel.
	assert.Equal(t, 2, rig.sink.balance(1))

	rig.release(0, 0)
	rig.tick()
	assert.Equal(t, 1, rig.sink.balance(1))

	rig.release(0, 1)
	rig.tick()
	assert.Equal(t, 0, rig.sink.balance(1))
}

func TestSustainAndReleaseDynamics(t *testing.T) {
	rig := newTestRig(t, teamScale)
	dyn := rig.cfg.Dynamics

	rig.press(2, 0)
	rig.tick()
	assert.Equal(t, dyn.LowerSustain.Damping, rig.surface.lower[2].damping)
	assert.Equal(t, dyn.UpperSustain.Damping, rig.surface.upper[2].damping)

	rig.release(2, 0)
	rig.tick()
	assert.Equal(t, dyn.LowerRelease.Damping, rig.surface.lower[2].damping)
	assert.Equal(t, dyn.UpperRelease.Damping, rig.surface.upper[2].damping)
}

func TestImpulseLandsInPlayerColumn(t *testing.T) {
	rig := newTestRig(t, teamScale)

	rig.press(3, 0)
	rig.tick()

	lower := rig.surface.lower[3]
	require.NotEmpty(t, lower.impulses)
	imp := lower.impulses[0]
	w := rig.cfg.Geometry.PlayerWidth
	assert.GreaterOrEqual(t, imp.x, 3*w)
	assert.Less(t, imp.x, 4*w)
	assert.False(t, imp.add, "trigger impulse must set a peak, not add")
	assert.Equal(t, float32(triggerImpact), imp.v)
}

func TestOverrideAuthorityWindow(t *testing.T) {
	rig := newTestRig(t, teamScale)
	window := time.Duration(rig.cfg.Timings.OverrideActiveMs) * time.Millisecond

	// Bit 2 of a slot-1 byte presses player 2 without any pin activity.
	rig.eng.ApplyOverride(1<<2, rig.now)
	rig.tick()
	assert.Equal(t, 1, rig.sink.balance(3))

	// Override stays authoritative inside the window even with no
	// further bytes.
	rig.tickAfter(window / 2)
	assert.Equal(t, 1, rig.sink.balance(3))

	// After the window the physical pin (released) wins again.
	rig.tickAfter(window)
	assert.Equal(t, 0, rig.sink.balance(3))

	notes := rig.sink.onChannel(3)
	require.Len(t, notes, 2)
	assert.Equal(t, notes[0].pitch, notes[1].pitch)
}

func TestOverrideSlotBitSelectsSlotTwo(t *testing.T) {
	rig := newTestRig(t, teamScale)

	rig.eng.ApplyOverride(slotBit|1<<0, rig.now)
	rig.tick()

	p := rig.eng.Players()[0]
	assert.False(t, p.Slots[0].Active)
	assert.True(t, p.Slots[1].Active)
}

func TestOverrideYieldsToFresherByte(t *testing.T) {
	rig := newTestRig(t, teamScale)

	rig.eng.ApplyOverride(1<<0, rig.now)
	rig.tick()
	assert.Equal(t, 1, rig.sink.balance(1))

	// A fresher byte with the bit cleared releases the slot immediately.
	rig.eng.ApplyOverride(0, rig.now)
	rig.tick()
	assert.Equal(t, 0, rig.sink.balance(1))
}
