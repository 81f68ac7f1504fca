package engine

import "time"

// previewImpact is the impulse strength of auto-preview ripples.
const previewImpact = 0.4

// ModeController cycles the tonescale catalog from a debounced select
// input. Each change resets every player's cursor and cached scale size,
// resets the shared TEAM cursor, announces the new mode on the control
// channel and starts an automatic preview walk so an operator can
// audition the scale without pressing anything.
type ModeController struct {
	pin      int
	debounce time.Duration

	catalog []*ToneScale
	index   int

	ccNumber int
	channel  int
	velocity int

	players     []*Player
	policy      *SelectionPolicy
	sink        NoteSink
	input       InputSource
	playerWidth int

	lastChange time.Time

	previewTones    int
	previewInterval time.Duration
	previewStep     int
	previewNextAt   time.Time
	previewActive   bool
	previewNote     int // 0 = no preview note sounding
}

// Active returns the currently selected scale.
func (m *ModeController) Active() *ToneScale { return m.catalog[m.index] }

// Tick polls the select input and advances the preview walk. It returns
// true when the mode changed this tick, which counts as operator activity.
func (m *ModeController) Tick(now time.Time) bool {
	changed := false
	if m.input.DigitalRead(m.pin) && now.Sub(m.lastChange) > m.debounce {
		m.lastChange = now
		m.advance(now)
		changed = true
	}
	m.tickPreview(now)
	return changed
}

func (m *ModeController) advance(now time.Time) {
	m.index = (m.index + 1) % len(m.catalog)
	scale := m.catalog[m.index]
	m.policy.ApplyScale(scale, m.players)

	logger.Info("mode change", "scale", scale.Name, "mode", scale.Mode.String(), "size", scale.Size())
	m.sink.ControlChange(m.ccNumber, m.index, m.channel)

	if m.previewTones > 0 {
		m.stopPreviewNote()
		m.previewActive = true
		m.previewStep = 0
		m.previewNextAt = now
	}
}

// tickPreview steps a synthetic position/note pair through the active
// scale at a fixed interval, independent of player input.
func (m *ModeController) tickPreview(now time.Time) {
	if !m.previewActive || now.Before(m.previewNextAt) {
		return
	}
	m.previewNextAt = now.Add(m.previewInterval)
	m.stopPreviewNote()

	if m.previewStep >= m.previewTones {
		m.previewActive = false
		return
	}

	scale := m.Active()
	note := scale.Pitches[m.previewStep%scale.Size()]
	p := m.players[m.previewStep%len(m.players)]
	y := m.policy.PitchY(note)
	x := p.ID*m.playerWidth + m.playerWidth/2
	p.Lower.Add(x, y, previewImpact)
	p.Upper.Add(x, y, previewImpact)

	m.sink.NoteOn(note, m.velocity, m.channel)
	m.previewNote = note
	m.previewStep++
}

func (m *ModeController) stopPreviewNote() {
	if m.previewNote != 0 {
		m.sink.NoteOff(m.previewNote, m.velocity, m.channel)
		m.previewNote = 0
	}
}
