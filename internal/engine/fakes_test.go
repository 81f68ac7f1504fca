package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ChrisVeigl/NeopixelKalimba/internal/config"
)

// noteEvent is one recorded NoteSink call.
type noteEvent struct {
	on       bool
	pitch    int
	velocity int
	channel  int
}

type ccEvent struct {
	controller int
	value      int
	channel    int
}

type recordingSink struct {
	notes []noteEvent
	ccs   []ccEvent
}

func (s *recordingSink) NoteOn(pitch, velocity, channel int) {
	s.notes = append(s.notes, noteEvent{true, pitch, velocity, channel})
}

func (s *recordingSink) NoteOff(pitch, velocity, channel int) {
	s.notes = append(s.notes, noteEvent{false, pitch, velocity, channel})
}

func (s *recordingSink) ControlChange(controller, value, channel int) {
	s.ccs = append(s.ccs, ccEvent{controller, value, channel})
}

func (s *recordingSink) PitchBend(value, channel int) {}

// onChannel filters the recorded notes by channel.
func (s *recordingSink) onChannel(ch int) []noteEvent {
	var out []noteEvent
	for _, e := range s.notes {
		if e.channel == ch {
			out = append(out, e)
		}
	}
	return out
}

// balance returns count(on) - count(off) on one channel.
func (s *recordingSink) balance(ch int) int {
	n := 0
	for _, e := range s.onChannel(ch) {
		if e.on {
			n++
		} else {
			n--
		}
	}
	return n
}

type impulse struct {
	x, y int
	v    float32
	add  bool
}

type fakeLayer struct {
	impulses []impulse
	speed    float32
	damping  float32
}

func (l *fakeLayer) Set(x, y int, v float32) {
	l.impulses = append(l.impulses, impulse{x, y, v, false})
}

func (l *fakeLayer) Add(x, y int, v float32) {
	l.impulses = append(l.impulses, impulse{x, y, v, true})
}

func (l *fakeLayer) SetDynamics(speed, damping float32) {
	l.speed, l.damping = speed, damping
}

type fakeSurface struct {
	lower      []*fakeLayer
	upper      []*fakeLayer
	bigLo      *fakeLayer
	bigUp      *fakeLayer
	brightness uint8
	rendered   int
}

func newFakeSurface(players int) *fakeSurface {
	s := &fakeSurface{bigLo: &fakeLayer{}, bigUp: &fakeLayer{}}
	for i := 0; i < players; i++ {
		s.lower = append(s.lower, &fakeLayer{})
		s.upper = append(s.upper, &fakeLayer{})
	}
	return s
}

func (s *fakeSurface) Lower(player int) WaveLayer { return s.lower[player] }
func (s *fakeSurface) Upper(player int) WaveLayer { return s.upper[player] }
func (s *fakeSurface) BigLower() WaveLayer        { return s.bigLo }
func (s *fakeSurface) BigUpper() WaveLayer        { return s.bigUp }
func (s *fakeSurface) SetBrightness(v uint8)      { s.brightness = v }
func (s *fakeSurface) Render(_ time.Time) []byte  { s.rendered++; return nil }

type scriptedInput struct {
	digital map[int]bool
	analog  map[int]int
}

func newScriptedInput() *scriptedInput {
	return &scriptedInput{digital: map[int]bool{}, analog: map[int]int{}}
}

func (in *scriptedInput) DigitalRead(pin int) bool { return in.digital[pin] }

func (in *scriptedInput) AnalogRead(pin int) int {
	if v, ok := in.analog[pin]; ok {
		return v
	}
	return 512
}

// testRig bundles an engine with its fakes and a manual clock.
type testRig struct {
	eng     *Engine
	cfg     *config.Config
	sink    *recordingSink
	surface *fakeSurface
	input   *scriptedInput
	now     time.Time
}

// newTestRig builds an engine over recording fakes. mutate may adjust the
// default configuration before construction.
func newTestRig(t *testing.T, mutate func(*config.Config)) *testRig {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	sink := &recordingSink{}
	surface := newFakeSurface(cfg.Geometry.Players)
	input := newScriptedInput()
	eng, err := New(cfg, sink, input, surface, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	rig := &testRig{
		eng:     eng,
		cfg:     cfg,
		sink:    sink,
		surface: surface,
		input:   input,
		now:     time.Unix(1000, 0),
	}
	// Start "active" so the idle animation does not interfere unless a
	// test asks for it.
	eng.MarkActivity(rig.now)
	return rig
}

// tick advances the clock by the configured tick interval and runs one
// engine tick.
func (r *testRig) tick() {
	r.now = r.now.Add(time.Duration(r.cfg.Timings.TickMs) * time.Millisecond)
	r.eng.Tick(r.now)
}

// tickAfter advances the clock by d (at least one tick) and runs one tick.
func (r *testRig) tickAfter(d time.Duration) {
	r.now = r.now.Add(d)
	r.eng.Tick(r.now)
}

func (r *testRig) press(player, slot int) {
	pins := r.cfg.Pins.Trigger1
	if slot == 1 {
		pins = r.cfg.Pins.Trigger2
	}
	r.input.digital[pins[player]] = true
}

func (r *testRig) release(player, slot int) {
	pins := r.cfg.Pins.Trigger1
	if slot == 1 {
		pins = r.cfg.Pins.Trigger2
	}
	r.input.digital[pins[player]] = false
}

// teamScale swaps the catalog for a single TEAM-mode major scale.
func teamScale(cfg *config.Config) {
	cfg.Scales = []config.ToneScale{
		{Name: "major", Mode: "team", Pitches: []int{60, 62, 64, 65, 67, 69, 71}},
	}
}

// canonScale swaps the catalog for a single CANON-mode scale.
func canonScale(cfg *config.Config) {
	cfg.Scales = []config.ToneScale{
		{Name: "minor", Mode: "canon", Pitches: []int{60, 62, 63, 65, 67}},
	}
}
