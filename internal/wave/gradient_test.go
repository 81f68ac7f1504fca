package wave

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ChrisVeigl/NeopixelKalimba/internal/config"
)

func TestGradientLookupEndpoints(t *testing.T) {
	g := NewGradient([]config.GradientStop{
		{Pos: 0, R: 0, G: 0, B: 0},
		{Pos: 255, R: 255, G: 128, B: 64},
	})

	r, gr, b := g.Lookup(0)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, gr, b})

	r, gr, b = g.Lookup(255)
	assert.Equal(t, [3]uint8{255, 128, 64}, [3]uint8{r, gr, b})
}

func TestGradientLookupInterpolates(t *testing.T) {
	g := NewGradient([]config.GradientStop{
		{Pos: 0, R: 0, G: 0, B: 0},
		{Pos: 200, R: 200, G: 100, B: 50},
	})

	r, gr, b := g.Lookup(100)
	assert.Equal(t, uint8(100), r)
	assert.Equal(t, uint8(50), gr)
	assert.Equal(t, uint8(25), b)

	// Past the last stop the gradient holds its final color.
	r, _, _ = g.Lookup(255)
	assert.Equal(t, uint8(200), r)
}

func TestGradientSortsStops(t *testing.T) {
	g := NewGradient([]config.GradientStop{
		{Pos: 255, R: 255},
		{Pos: 0, R: 0},
		{Pos: 128, R: 10},
	})
	r, _, _ := g.Lookup(128)
	assert.Equal(t, uint8(10), r)
}

func TestGradientEmptyIsBlack(t *testing.T) {
	g := NewGradient(nil)
	r, gr, b := g.Lookup(200)
	assert.Zero(t, r)
	assert.Zero(t, gr)
	assert.Zero(t, b)
}
