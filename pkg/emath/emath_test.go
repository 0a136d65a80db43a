package emath

import(
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionIsUnit(t *testing.T) {
	for _, x := range []float64{0, 0.1, 0.25, 0.5, 0.9} {
		for _, y := range []float64{0.05, 0.3, 0.5, 0.75, 0.95} {
			require.InDelta(t, 1.0, Direction(x, y).Norm(), 1e-12, "x=%f y=%f", x, y)
		}
	}
}

func TestDirectionPole(t *testing.T) {
	// theta = (1-y)*pi is pi on the top row, so the vertical component is at its extreme.
	d := Direction(0.25, 0)
	assert.InDelta(t, 1.0, math.Abs(d[1]), 1e-12)
	assert.InDelta(t, -1.0, d[1], 1e-12)
	assert.InDelta(t, 0.0, d[0], 1e-12)
	assert.InDelta(t, 0.0, d[2], 1e-12)
}

func TestDirectionHorizon(t *testing.T) {
	d := Direction(0.25, 0.5)
	assert.InDelta(t, 0.0, d[1], 1e-12)
	assert.InDelta(t, 1.0, d[0]*d[0]+d[2]*d[2], 1e-12)
}

func TestDirectionDistinct(t *testing.T) {
	// Away from the poles, distinct positions give distinct directions.
	seen := []Vec3{}
	for _, x := range []float64{0, 0.2, 0.4, 0.6, 0.8} {
		for _, y := range []float64{0.2, 0.4, 0.6, 0.8} {
			d := Direction(x, y)
			for _, s := range seen {
				require.Greater(t, AngleDeg(d, s), 1e-6)
			}
			seen = append(seen, d)
		}
	}
}

func TestAngleDeg(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vec3
		expected float64
	}{
		{"same", Vec3{1, 0, 0}, Vec3{1, 0, 0}, 0},
		{"orthogonal", Vec3{1, 0, 0}, Vec3{0, 1, 0}, 90},
		{"opposite", Vec3{0, 0, 1}, Vec3{0, 0, -1}, 180},
		{"unnormalized", Vec3{2, 0, 0}, Vec3{0, 0, 3}, 90},
		{"nearly same", Vec3{1, 1e-9, 0}, Vec3{1, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, AngleDeg(tt.a, tt.b), 1e-9)
		})
	}

	// Quarter of the way round the equator is 90 degrees.
	assert.InDelta(t, 90.0, AngleDeg(Direction(0, 0.5), Direction(0.25, 0.5)), 1e-9)
}

func TestAboveHorizon(t *testing.T) {
	assert.True(t, AboveHorizon(0.49))
	assert.False(t, AboveHorizon(0.5))
	assert.False(t, AboveHorizon(0.7))
}

func TestWeightedMean(t *testing.T) {
	assert.Equal(t, 2.0, WeightedMean(1, 1, 3, 1))
	assert.Equal(t, 3.0, WeightedMean(1, 0, 3, 5))
	assert.Equal(t, 2.0, WeightedMean(1, 0, 3, 0))
}

func TestFloatGrid(t *testing.T) {
	g := NewFloatGrid(3, 2)
	require.Equal(t, 3, g.Dx())
	require.Equal(t, 2, g.Dy())

	g.Set(2, 1, 5)
	g.Set(0, 0, -1)
	assert.Equal(t, 5.0, g.Get(2, 1))

	min, max := g.MinMax()
	assert.Equal(t, -1.0, min)
	assert.Equal(t, 5.0, max)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, Clamp(1.0000001, -1, 1))
	assert.Equal(t, -1.0, Clamp(-3, -1, 1))
	assert.Equal(t, 0.25, Clamp(0.25, -1, 1))
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(1, 2, 3))
	assert.False(t, IsFinite(1, math.NaN()))
	assert.False(t, IsFinite(math.Inf(-1)))
}
