package engine

import (
	"math/rand"
	"time"
)

// IdleAnimator fills the display after the inactivity timeout: random
// short pulses wander across a random player's layers, each optionally
// sounding one note for the pulse's lifetime. Playback is monophonic; a
// new pulse first silences any still-sounding idle note, and any genuine
// player activity silences it immediately.
type IdleAnimator struct {
	rng     *rand.Rand
	players []*Player
	sink    NoteSink

	width  int // full matrix width
	height int

	lowerDyn Dyn
	upperDyn Dyn

	stepInterval time.Duration
	channel      int
	velocity     int

	lastStep time.Time
	counter  int
	duration int
	player   int
	x, y     float64
	xSpeed   float64
	ySpeed   float64
	impact   float32
	note     int // 0 = silent
}

// Dyn is a resolved (speed, damping) pair.
type Dyn struct {
	Speed   float32
	Damping float32
}

// Tick advances the idle animation by one step if the step interval has
// elapsed. Must only be called while the installation is idle.
func (a *IdleAnimator) Tick(now time.Time) {
	if !a.lastStep.IsZero() && now.Sub(a.lastStep) < a.stepInterval {
		return
	}
	a.lastStep = now

	a.counter++
	if a.counter > a.duration*2 {
		a.startPulse()
	}
	if a.counter > 0 && a.counter < a.duration {
		a.stepPulse()
	}
	if a.counter == a.duration && a.note != 0 {
		a.sink.NoteOff(a.note, a.velocity, a.channel)
		a.note = 0
	}
}

// startPulse rolls new random pulse parameters and starts its note.
func (a *IdleAnimator) startPulse() {
	a.player = a.rng.Intn(len(a.players))
	a.xSpeed = randomFloat(a.rng, -0.10, 0.10)
	a.ySpeed = randomFloat(a.rng, 0.05, 0.10)
	a.x = randomFloat(a.rng, 0, float64(a.width))
	a.y = randomFloat(a.rng, 0, float64(a.height)/3)
	a.impact = float32(randomFloat(a.rng, 0.02, 0.05))
	a.duration = 100 + a.rng.Intn(400)
	a.counter = 0

	p := a.players[a.player]
	p.Lower.SetDynamics(a.lowerDyn.Speed, a.lowerDyn.Damping)
	p.Upper.SetDynamics(a.upperDyn.Speed, a.upperDyn.Damping)

	if a.note != 0 {
		a.sink.NoteOff(a.note, a.velocity, a.channel)
	}
	win := bigWaveNoteWindow
	if s := p.Scale.Size(); s < win {
		win = s
	}
	if win > 0 {
		a.note = p.Scale.Pitches[a.rng.Intn(win)]
		a.sink.NoteOn(a.note, a.velocity, a.channel)
	}
}

// stepPulse moves the synthetic position and injects a small impulse into
// the pulse player's layers. Horizontal movement wraps; reaching the top
// ends the pulse early.
func (a *IdleAnimator) stepPulse() {
	a.x += a.xSpeed
	if a.x >= float64(a.width) {
		a.x = 0
	}
	if a.x < 0 {
		a.x = float64(a.width) - 1
	}
	a.y += a.ySpeed
	if a.y >= float64(a.height) {
		a.counter = a.duration
		return
	}
	p := a.players[a.player]
	p.Lower.Add(int(a.x), int(a.y), a.impact)
	p.Upper.Add(int(a.x), int(a.y), a.impact)
}

// Silence stops the idle note and resets the pulse so the next idle phase
// starts fresh. Safe to call every tick while the installation is active.
func (a *IdleAnimator) Silence() {
	if a.note != 0 {
		a.sink.NoteOff(a.note, a.velocity, a.channel)
		a.note = 0
	}
	a.counter = a.duration * 2
}

func randomFloat(rng *rand.Rand, min, max float64) float64 {
	return min + (max-min)*rng.Float64()
}
