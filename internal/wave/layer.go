package wave

import "math"

// Layer is one half-duplex 2D impulse field spanning the full matrix.
// Horizontal neighbors wrap around (cylindrical display); the simulation
// advances once per rendered frame.
type Layer struct {
	width  int
	height int

	cur  []float32
	prev []float32
	next []float32

	courant   float32 // propagation speed factor
	retention float32 // per-step energy retention derived from damping
	grad      Gradient
}

func newLayer(width, height int, grad Gradient) *Layer {
	n := width * height
	return &Layer{
		width:     width,
		height:    height,
		cur:       make([]float32, n),
		prev:      make([]float32, n),
		next:      make([]float32, n),
		courant:   0.02,
		retention: 0.99,
		grad:      grad,
	}
}

// SetDynamics switches propagation speed and damping. Damping follows the
// firmware convention: an exponent where larger values decay slower
// (retention = 1 - 2^-damping).
func (l *Layer) SetDynamics(speed, damping float32) {
	l.courant = speed
	l.retention = 1 - float32(math.Pow(2, float64(-damping)))
}

func (l *Layer) clamp(x, y int) (int, bool) {
	// x wraps, y clamps; out-of-range writes land on the border row
	// rather than being dropped, matching the cylindrical display.
	if l.width == 0 || l.height == 0 {
		return 0, false
	}
	x = ((x % l.width) + l.width) % l.width
	if y < 0 {
		y = 0
	}
	if y >= l.height {
		y = l.height - 1
	}
	return y*l.width + x, true
}

// Set writes an impulse peak, replacing the current value.
func (l *Layer) Set(x, y int, v float32) {
	if i, ok := l.clamp(x, y); ok {
		l.cur[i] = v
	}
}

// Add injects energy additively.
func (l *Layer) Add(x, y int, v float32) {
	if i, ok := l.clamp(x, y); ok {
		l.cur[i] += v
	}
}

// step advances the field by one simulation step: a damped wave equation
// over the 4-neighborhood, negative excursions clamped to zero
// (half-duplex, positive waves only).
func (l *Layer) step() {
	w, h := l.width, l.height
	for y := 0; y < h; y++ {
		up := y - 1
		down := y + 1
		for x := 0; x < w; x++ {
			i := y*w + x
			left := y*w + (x-1+w)%w
			right := y*w + (x+1)%w

			var sum float32
			sum += l.cur[left] + l.cur[right]
			if up >= 0 {
				sum += l.cur[up*w+x]
			}
			if down < h {
				sum += l.cur[down*w+x]
			}

			v := 2*l.cur[i] - l.prev[i] + l.courant*(sum-4*l.cur[i])
			v *= l.retention
			if v < 0 {
				v = 0
			}
			l.next[i] = v
		}
	}
	l.prev, l.cur, l.next = l.cur, l.next, l.prev
}

// height8 returns the cell value scaled to 0..255, saturating.
func (l *Layer) height8(x, y int) uint8 {
	v := l.cur[y*l.width+x]
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}
