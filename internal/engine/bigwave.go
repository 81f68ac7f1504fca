package engine

import "time"

// bigWaveNoteWindow is the fixed window of scale entries the shared
// coordination cursor walks through.
const bigWaveNoteWindow = 7

// bigWaveSpan is the half-width of the band written around each arm head
// of the expanding cross.
const bigWaveSpan = 5

// Envelope is a deterministic ramp from activation time to a 0..255
// progress value. It self-terminates when the fixed duration elapses and
// is restarted only by a fresh trigger.
type Envelope struct {
	start    time.Time
	duration time.Duration
}

// Trigger (re)starts the envelope at now.
func (env *Envelope) Trigger(now time.Time, d time.Duration) {
	env.start = now
	env.duration = d
}

// Alpha returns the progress in [0,255] and whether the envelope is still
// active. Progress is monotone; once it saturates the envelope is
// terminal.
func (env *Envelope) Alpha(now time.Time) (int, bool) {
	if env.start.IsZero() || env.duration <= 0 {
		return 0, false
	}
	elapsed := now.Sub(env.start)
	if elapsed >= env.duration {
		return 255, false
	}
	return int(255 * elapsed / env.duration), true
}

// BigWaveCoordinator detects near-simultaneous triggers of two players and
// drives the shared cross-shaped choreography: both players' envelopes
// start, and one coordination note sounds for a fixed duration on a
// reserved channel.
type BigWaveCoordinator struct {
	window      time.Duration
	staleAfter  time.Duration
	envDuration time.Duration
	noteTTL     time.Duration
	channel     int
	velocity    int

	playerWidth int
	bigWaveY    int

	lower WaveLayer
	upper WaveLayer

	noteCursor int
	note       int
	noteOnAt   time.Time // zero while no coordination note sounds
}

// Scan walks all unordered player pairs and fires the choreography for the
// first pair whose slot-1 or slot-2 timestamps lie within the coincidence
// window. At most one pair fires per tick; other eligible players keep
// their timestamps for a later tick. Timestamps older than the staleness
// limit are expired first so an ancient press can never pair with a much
// later one.
func (c *BigWaveCoordinator) Scan(now time.Time, players []*Player, sink NoteSink) {
	for _, p := range players {
		for si := range p.Slots {
			ts := p.Slots[si].Timestamp
			if !ts.IsZero() && now.Sub(ts) > c.staleAfter {
				p.Slots[si].Timestamp = time.Time{}
			}
		}
	}

	for i := 0; i < len(players); i++ {
		for j := i + 1; j < len(players); j++ {
			p1, p2 := players[i], players[j]
			if coincide(p1.Slots[0].Timestamp, p2.Slots[0].Timestamp, c.window) ||
				coincide(p1.Slots[1].Timestamp, p2.Slots[1].Timestamp, c.window) {
				c.fire(now, p1, p2, sink)
				return
			}
		}
	}
}

func coincide(a, b time.Time, window time.Duration) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d < window
}

// fire consumes the matched pair: all four slot timestamps are zeroed so
// the event cannot re-match, both envelopes start, and the coordination
// note advances through the scale window.
func (c *BigWaveCoordinator) fire(now time.Time, p1, p2 *Player, sink NoteSink) {
	p1.Slots[0].Timestamp = time.Time{}
	p1.Slots[1].Timestamp = time.Time{}
	p2.Slots[0].Timestamp = time.Time{}
	p2.Slots[1].Timestamp = time.Time{}

	p1.BigWave.Trigger(now, c.envDuration)
	p2.BigWave.Trigger(now, c.envDuration)

	// Silence a coordination note that is still sounding before starting
	// the next one.
	if !c.noteOnAt.IsZero() {
		sink.NoteOff(c.note, c.velocity, c.channel)
	}
	win := bigWaveNoteWindow
	if s := p1.Scale.Size(); s < win {
		win = s
	}
	if win > 0 {
		c.note = p1.Scale.Pitches[c.noteCursor%win]
		c.noteCursor++
	}
	sink.NoteOn(c.note, c.velocity, c.channel)
	c.noteOnAt = now

	logger.Info("big wave", "players", []int{p1.ID, p2.ID}, "note", c.note)
}

// Apply writes the expanding cross of every active envelope into the
// shared big-wave layers.
func (c *BigWaveCoordinator) Apply(now time.Time, players []*Player) {
	for _, p := range players {
		alpha, active := p.BigWave.Alpha(now)
		if !active {
			continue
		}
		c.drawCross(p, alpha)
	}
}

// drawCross interpolates four arm heads between the column center and
// quarter-span offsets as a function of progress, writing a decaying
// intensity band around each head into both layers additively.
func (c *BigWaveCoordinator) drawCross(p *Player, alpha int) {
	xOff := p.ID * c.playerWidth
	midX := c.playerWidth / 2
	midY := c.bigWaveY
	amount := c.playerWidth / 4

	leftX := mapRange(alpha, 0, 255, midX, midX-amount)
	rightX := mapRange(alpha, 0, 255, midX, midX+amount)
	downY := mapRange(alpha, 0, 255, midY, midY-amount)
	upY := mapRange(alpha, 0, 255, midY, midY+amount)

	v := (1 - float32(alpha)/255) * 0.5

	for x := leftX - bigWaveSpan; x < leftX+bigWaveSpan; x++ {
		c.lower.Add(x+xOff, midY, v)
		c.upper.Add(x+xOff, midY, v)
	}
	for x := rightX - bigWaveSpan; x < rightX+bigWaveSpan; x++ {
		c.lower.Add(x+xOff, midY, v)
		c.upper.Add(x+xOff, midY, v)
	}
	for y := downY - bigWaveSpan; y < downY+bigWaveSpan; y++ {
		c.lower.Add(midX+xOff, y, v)
		c.upper.Add(midX+xOff, y, v)
	}
	for y := upY - bigWaveSpan; y < upY+bigWaveSpan; y++ {
		c.lower.Add(midX+xOff, y, v)
		c.upper.Add(midX+xOff, y, v)
	}
}

// TickNote turns the coordination note off once its fixed duration has
// elapsed. The note lifetime is timer-based, not edge-based.
func (c *BigWaveCoordinator) TickNote(now time.Time, sink NoteSink) {
	if !c.noteOnAt.IsZero() && now.Sub(c.noteOnAt) > c.noteTTL {
		sink.NoteOff(c.note, c.velocity, c.channel)
		c.noteOnAt = time.Time{}
	}
}
