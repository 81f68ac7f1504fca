// Package wave is the software impulse-field collaborator of the engine:
// per-player lower/upper layers plus a shared big-wave pair, blended
// additively through per-layer color gradients into one RGB buffer.
package wave

import (
	"fmt"
	"time"

	"github.com/ChrisVeigl/NeopixelKalimba/internal/config"
	"github.com/ChrisVeigl/NeopixelKalimba/internal/engine"
)

// Surface implements engine.WaveSurface.
type Surface struct {
	geom config.Geometry

	lower []*Layer
	upper []*Layer
	bigLo *Layer
	bigUp *Layer

	brightness uint8
	pixels     []byte
}

// NewSurface builds all layers with the palettes named in the
// configuration.
func NewSurface(cfg *config.Config) (*Surface, error) {
	g := cfg.Geometry
	s := &Surface{
		geom:       g,
		lower:      make([]*Layer, g.Players),
		upper:      make([]*Layer, g.Players),
		brightness: 255,
		pixels:     make([]byte, g.Width()*g.Height*3),
	}
	grad := func(name string) (Gradient, error) {
		stops, ok := cfg.Gradients[name]
		if !ok {
			return Gradient{}, fmt.Errorf("wave: gradient %q not defined", name)
		}
		return NewGradient(stops), nil
	}
	for i := 0; i < g.Players; i++ {
		pal := cfg.Palettes[i]
		lo, err := grad(pal.Lower)
		if err != nil {
			return nil, err
		}
		up, err := grad(pal.Upper)
		if err != nil {
			return nil, err
		}
		s.lower[i] = newLayer(g.Width(), g.Height, lo)
		s.upper[i] = newLayer(g.Width(), g.Height, up)
	}
	bigLo, err := grad(cfg.BigWave.Lower)
	if err != nil {
		return nil, err
	}
	bigUp, err := grad(cfg.BigWave.Upper)
	if err != nil {
		return nil, err
	}
	s.bigLo = newLayer(g.Width(), g.Height, bigLo)
	s.bigUp = newLayer(g.Width(), g.Height, bigUp)
	return s, nil
}

func (s *Surface) Lower(player int) engine.WaveLayer { return s.lower[player] }
func (s *Surface) Upper(player int) engine.WaveLayer { return s.upper[player] }
func (s *Surface) BigLower() engine.WaveLayer        { return s.bigLo }
func (s *Surface) BigUpper() engine.WaveLayer        { return s.bigUp }

// SetBrightness scales the rendered output (0-255).
func (s *Surface) SetBrightness(v uint8) { s.brightness = v }

// Width and Height report the full matrix extent in pixels.
func (s *Surface) Width() int  { return s.geom.Width() }
func (s *Surface) Height() int { return s.geom.Height }

func (s *Surface) allLayers() []*Layer {
	out := make([]*Layer, 0, 2*len(s.lower)+2)
	out = append(out, s.lower...)
	out = append(out, s.upper...)
	out = append(out, s.bigLo, s.bigUp)
	return out
}

// Render advances every layer's simulation by one step and blends them
// additively (saturating) through their gradients into the shared RGB
// buffer. The returned slice is reused across calls.
func (s *Surface) Render(_ time.Time) []byte {
	layers := s.allLayers()
	for _, l := range layers {
		l.step()
	}

	w, h := s.geom.Width(), s.geom.Height
	br := int(s.brightness)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b int
			for _, l := range layers {
				hr, hg, hb := l.grad.Lookup(l.height8(x, y))
				r += int(hr)
				g += int(hg)
				b += int(hb)
			}
			i := (y*w + x) * 3
			s.pixels[i] = sat8(r * br / 255)
			s.pixels[i+1] = sat8(g * br / 255)
			s.pixels[i+2] = sat8(b * br / 255)
		}
	}
	return s.pixels
}

func sat8(v int) byte {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return byte(v)
}
