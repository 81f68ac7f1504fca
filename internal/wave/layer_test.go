package wave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayerImpulsePropagates(t *testing.T) {
	l := newLayer(8, 8, Gradient{})
	l.SetDynamics(0.02, 12)
	l.Set(4, 4, 1.0)

	l.step()
	assert.Greater(t, l.cur[4*8+3], float32(0), "energy reaches the left neighbor")
	assert.Greater(t, l.cur[4*8+5], float32(0), "energy reaches the right neighbor")
	assert.Greater(t, l.cur[3*8+4], float32(0))
	assert.Greater(t, l.cur[5*8+4], float32(0))
}

func TestLayerNeverGoesNegative(t *testing.T) {
	l := newLayer(8, 8, Gradient{})
	l.SetDynamics(0.1, 4)
	l.Set(4, 4, 1.0)

	for i := 0; i < 200; i++ {
		l.step()
	}
	for i, v := range l.cur {
		assert.GreaterOrEqual(t, v, float32(0), "cell %d", i)
	}
}

func TestLayerDampingDissipates(t *testing.T) {
	l := newLayer(8, 8, Gradient{})
	l.SetDynamics(0.02, 2) // strong damping
	l.Set(4, 4, 1.0)

	for i := 0; i < 500; i++ {
		l.step()
	}
	var total float32
	for _, v := range l.cur {
		total += v
	}
	assert.Less(t, total, float32(0.01), "field decays to silence")
}

func TestLayerCoordinateClamping(t *testing.T) {
	l := newLayer(8, 4, Gradient{})

	// x wraps cylindrically.
	l.Set(-1, 0, 0.5)
	assert.Equal(t, float32(0.5), l.cur[7])
	l.Set(9, 0, 0.25)
	assert.Equal(t, float32(0.25), l.cur[1])

	// y clamps to the border rows.
	l.Set(0, -5, 0.75)
	assert.Equal(t, float32(0.75), l.cur[0])
	l.Set(0, 99, 0.5)
	assert.Equal(t, float32(0.5), l.cur[3*8])

	// Add accumulates instead of replacing.
	l.Add(0, 0, 0.1)
	assert.InDelta(t, 0.85, float64(l.cur[0]), 1e-6)
}

func TestLayerHeight8Saturates(t *testing.T) {
	l := newLayer(2, 2, Gradient{})
	l.Set(0, 0, 2.5)
	l.Set(1, 0, 0.5)
	assert.Equal(t, uint8(255), l.height8(0, 0))
	assert.Equal(t, uint8(127), l.height8(1, 0))
	assert.Equal(t, uint8(0), l.height8(0, 1))
}
