package wave

import (
	"sort"

	"github.com/ChrisVeigl/NeopixelKalimba/internal/config"
)

// Gradient maps a wave height (0-255) to an RGB color by linear
// interpolation between breakpoint stops.
type Gradient struct {
	stops []config.GradientStop
}

// NewGradient builds a gradient from breakpoint stops. Stops are sorted by
// position; an empty list yields an all-black gradient.
func NewGradient(stops []config.GradientStop) Gradient {
	s := make([]config.GradientStop, len(stops))
	copy(s, stops)
	sort.Slice(s, func(i, j int) bool { return s[i].Pos < s[j].Pos })
	return Gradient{stops: s}
}

// Lookup returns the interpolated color for height v.
func (g Gradient) Lookup(v uint8) (r, gr, b uint8) {
	if len(g.stops) == 0 {
		return 0, 0, 0
	}
	if v <= g.stops[0].Pos {
		s := g.stops[0]
		return s.R, s.G, s.B
	}
	last := g.stops[len(g.stops)-1]
	if v >= last.Pos {
		return last.R, last.G, last.B
	}
	for i := 1; i < len(g.stops); i++ {
		hi := g.stops[i]
		if v > hi.Pos {
			continue
		}
		lo := g.stops[i-1]
		span := int(hi.Pos) - int(lo.Pos)
		if span == 0 {
			return hi.R, hi.G, hi.B
		}
		f := int(v) - int(lo.Pos)
		lerp := func(a, b uint8) uint8 {
			return uint8(int(a) + (int(b)-int(a))*f/span)
		}
		return lerp(lo.R, hi.R), lerp(lo.G, hi.G), lerp(lo.B, hi.B)
	}
	return last.R, last.G, last.B
}
