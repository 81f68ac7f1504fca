package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdleWaitsForInactivityTimeout(t *testing.T) {
	rig := newTestRig(t, teamScale)
	idleCh := rig.cfg.MIDI.IdleChannel
	timeout := time.Duration(rig.cfg.Timings.InactivityMs) * time.Millisecond

	rig.tickAfter(timeout) // exactly at the limit: still considered active
	assert.Empty(t, rig.sink.onChannel(idleCh))

	rig.tick() // one tick past the limit
	notes := rig.sink.onChannel(idleCh)
	require.NotEmpty(t, notes, "idle animation starts within one tick of the timeout")
	assert.True(t, notes[0].on)
}

func TestIdleInjectsImpulses(t *testing.T) {
	rig := newTestRig(t, teamScale)
	timeout := time.Duration(rig.cfg.Timings.InactivityMs) * time.Millisecond

	rig.tickAfter(timeout + time.Second)
	for i := 0; i < 20; i++ {
		rig.tick()
	}

	total := 0
	for i := range rig.surface.lower {
		for _, imp := range rig.surface.lower[i].impulses {
			if imp.add {
				total++
			}
		}
	}
	assert.Greater(t, total, 0, "idle pulses write small additive impulses")
}

func TestIdleSilencedByActivity(t *testing.T) {
	rig := newTestRig(t, teamScale)
	idleCh := rig.cfg.MIDI.IdleChannel
	timeout := time.Duration(rig.cfg.Timings.InactivityMs) * time.Millisecond

	rig.tickAfter(timeout + time.Second)
	require.Equal(t, 1, rig.sink.balance(idleCh), "idle note sounding")

	// A genuine press both plays the player's note and silences the idle
	// note within the same tick.
	rig.press(0, 0)
	rig.tick()
	assert.Equal(t, 0, rig.sink.balance(idleCh))
	assert.Equal(t, 1, rig.sink.balance(1))
}

func TestIdleNoteIsMonophonic(t *testing.T) {
	rig := newTestRig(t, teamScale)
	idleCh := rig.cfg.MIDI.IdleChannel
	timeout := time.Duration(rig.cfg.Timings.InactivityMs) * time.Millisecond

	rig.tickAfter(timeout + time.Second)
	// Run long enough to span several pulses (pulse duration is at most
	// 500 steps of 10ms).
	for i := 0; i < 2500; i++ {
		rig.tick()
	}
	assert.LessOrEqual(t, rig.sink.balance(idleCh), 1,
		"at most one idle note sounding at any time")
}
