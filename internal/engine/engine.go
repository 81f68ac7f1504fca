package engine

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/ChrisVeigl/NeopixelKalimba/internal/config"
)

// logger is the package-wide structured logger; SetLogger replaces it.
var logger = slog.Default()

// SetLogger routes the engine's log output through the given logger.
func SetLogger(l *slog.Logger) { logger = l }

const (
	// triggerImpact is the peak value written for a trigger ripple.
	triggerImpact = 1.0
	// impulseMargin keeps trigger ripples away from the column edges.
	impulseMargin = 0.15
	// diagInterval is the cadence of the FPS/brightness housekeeping.
	diagInterval = time.Second
)

// Engine is the trigger-to-music-and-light interaction core. One Tick
// advances every component synchronously in a fixed order; all shared
// mutable state has exactly one writer per tick (the caller's loop), so
// the engine is not safe for concurrent use.
type Engine struct {
	cfg     *config.Config
	sink    NoteSink
	input   InputSource
	surface WaveSurface
	rng     *rand.Rand

	players   []*Player
	policy    *SelectionPolicy
	overrides *Overrides
	coord     *BigWaveCoordinator
	mode      *ModeController
	idle      *IdleAnimator

	inactivity   time.Duration
	lastActivity time.Time

	// OnFrame, when set, receives every rendered pixel buffer.
	OnFrame func(pixels []byte)

	frames   int
	lastDiag time.Time
}

// New builds the engine and all pre-sized player state. The catalog's
// first scale becomes active for every player.
func New(cfg *config.Config, sink NoteSink, input InputSource, surface WaveSurface, rng *rand.Rand) (*Engine, error) {
	catalog, err := ScalesFromConfig(cfg.Scales)
	if err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("engine: tonescale catalog is empty")
	}

	g := cfg.Geometry
	t := cfg.Timings
	dyn := cfg.Dynamics

	players := make([]*Player, g.Players)
	for i := range players {
		p := &Player{
			ID:        i,
			AnalogPin: cfg.Pins.Analog[i],
			Lower:     surface.Lower(i),
			Upper:     surface.Upper(i),
		}
		p.Slots[0].Pin = cfg.Pins.Trigger1[i]
		p.Slots[1].Pin = cfg.Pins.Trigger2[i]
		p.Lower.SetDynamics(dyn.LowerRelease.Speed, dyn.LowerRelease.Damping)
		p.Upper.SetDynamics(dyn.UpperRelease.Speed, dyn.UpperRelease.Damping)
		players[i] = p
	}

	policy := NewSelectionPolicy(2, g.PlayerMaxY)
	policy.ApplyScale(catalog[0], players)

	bigLower, bigUpper := surface.BigLower(), surface.BigUpper()
	bigLower.SetDynamics(dyn.BigLower.Speed, dyn.BigLower.Damping)
	bigUpper.SetDynamics(dyn.BigUpper.Speed, dyn.BigUpper.Damping)

	e := &Engine{
		cfg:     cfg,
		sink:    sink,
		input:   input,
		surface: surface,
		rng:     rng,
		players: players,
		policy:  policy,
		overrides: NewOverrides(
			time.Duration(t.OverrideActiveMs) * time.Millisecond),
		coord: &BigWaveCoordinator{
			window:      time.Duration(t.CoincidenceMs) * time.Millisecond,
			staleAfter:  time.Duration(t.CoincidenceStaleMs) * time.Millisecond,
			envDuration: time.Duration(t.BigWaveEnvelopeMs) * time.Millisecond,
			noteTTL:     time.Duration(t.BigWaveNoteMs) * time.Millisecond,
			channel:     cfg.MIDI.BigWaveChannel,
			velocity:    cfg.MIDI.Velocity,
			playerWidth: g.PlayerWidth,
			bigWaveY:    g.BigWaveY,
			lower:       bigLower,
			upper:       bigUpper,
		},
		mode: &ModeController{
			pin:             cfg.Pins.ModeButton,
			debounce:        time.Duration(t.ModeDebounceMs) * time.Millisecond,
			catalog:         catalog,
			ccNumber:        cfg.MIDI.ModeController,
			channel:         cfg.MIDI.IdleChannel,
			velocity:        cfg.MIDI.Velocity,
			players:         players,
			policy:          policy,
			sink:            sink,
			input:           input,
			playerWidth:     g.PlayerWidth,
			previewTones:    12,
			previewInterval: time.Duration(t.PreviewStepMs) * time.Millisecond,
		},
		idle: &IdleAnimator{
			rng:          rng,
			players:      players,
			sink:         sink,
			width:        g.Width(),
			height:       g.Height,
			lowerDyn:     Dyn{Speed: dyn.LowerIdle.Speed, Damping: dyn.LowerIdle.Damping},
			upperDyn:     Dyn{Speed: dyn.UpperIdle.Speed, Damping: dyn.UpperIdle.Damping},
			stepInterval: time.Duration(t.IdleStepMs) * time.Millisecond,
			channel:      cfg.MIDI.IdleChannel,
			velocity:     cfg.MIDI.Velocity,
		},
		inactivity: time.Duration(t.InactivityMs) * time.Millisecond,
	}
	return e, nil
}

// Players exposes the player records (read-only use intended).
func (e *Engine) Players() []*Player { return e.players }

// ActiveScale returns the catalog entry currently in effect.
func (e *Engine) ActiveScale() *ToneScale { return e.mode.Active() }

// MarkActivity records user activity, deferring the idle animation.
func (e *Engine) MarkActivity(now time.Time) { e.lastActivity = now }

// ApplyOverride feeds one serial override byte into the authority merge.
// Call before Tick for all bytes received since the previous tick.
func (e *Engine) ApplyOverride(b byte, now time.Time) {
	e.overrides.Apply(b, now)
}

// Tick advances the whole installation by one step: players, coincidence
// detection, big-wave envelopes, mode control, idle fallback, rendering
// and periodic diagnostics, in that order.
func (e *Engine) Tick(now time.Time) {
	for _, p := range e.players {
		e.updatePlayer(now, p)
	}

	e.coord.Scan(now, e.players, e.sink)
	e.coord.Apply(now, e.players)
	e.coord.TickNote(now, e.sink)

	if e.mode.Tick(now) {
		e.lastActivity = now
	}

	if now.Sub(e.lastActivity) > e.inactivity {
		e.idle.Tick(now)
	} else {
		e.idle.Silence()
	}

	pixels := e.surface.Render(now)
	if e.OnFrame != nil {
		e.OnFrame(pixels)
	}

	e.diagnostics(now)
}

// diagnostics runs the once-per-second housekeeping: brightness follows
// the brightness input, and the frame rate is logged.
func (e *Engine) diagnostics(now time.Time) {
	e.frames++
	if e.lastDiag.IsZero() {
		e.lastDiag = now
		return
	}
	if now.Sub(e.lastDiag) < diagInterval {
		return
	}
	b := mapRange(e.input.AnalogRead(e.cfg.Pins.Brightness), rawMin, rawMax, 0, 255)
	e.surface.SetBrightness(uint8(clampInt(b, 0, 255)))
	logger.Debug("tick stats",
		"fps", e.frames,
		"scale", e.mode.Active().Name,
		"teamCursor", e.policy.TeamCursor(),
	)
	e.frames = 0
	e.lastDiag = now
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
