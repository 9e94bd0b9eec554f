package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestDistanceIgnoresHeight(t *testing.T) {
	tests := []struct {
		name string
		a, b r3.Vec
		want float64
	}{
		{"same point", r3.Vec{}, r3.Vec{}, 0},
		{"along x", r3.Vec{}, r3.Vec{X: 5}, 5},
		{"along z", r3.Vec{Z: -2}, r3.Vec{Z: 2}, 4},
		{"height only", r3.Vec{Y: 0.5}, r3.Vec{Y: 10}, 0},
		{"3-4-5", r3.Vec{X: 1, Y: 0.5, Z: 1}, r3.Vec{X: 4, Y: 0.75, Z: 5}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Distance(tt.a, tt.b), 1e-12)
			assert.InDelta(t, tt.want, Distance(tt.b, tt.a), 1e-12)
		})
	}
}

func TestDirection(t *testing.T) {
	dir := Direction(r3.Vec{X: 1, Z: 1}, r3.Vec{X: 1, Y: 3, Z: 4})
	assert.InDelta(t, 0, dir.X, 1e-12)
	assert.InDelta(t, 1, dir.Y, 1e-12)

	dir = Direction(r3.Vec{}, r3.Vec{X: 3, Z: 4})
	assert.InDelta(t, 0.6, dir.X, 1e-12)
	assert.InDelta(t, 0.8, dir.Y, 1e-12)

	// Coincident points on the plane give a zero direction, never NaN
	dir = Direction(r3.Vec{X: 2, Y: 0}, r3.Vec{X: 2, Y: 7})
	assert.Equal(t, r2.Vec{}, dir)
}

func TestAlignment(t *testing.T) {
	tests := []struct {
		name             string
		intended, actual r2.Vec
		want             float64
	}{
		{"same", r2.Vec{X: 1}, r2.Vec{X: 2}, 1},
		{"opposite", r2.Vec{X: 1}, r2.Vec{X: -1}, -1},
		{"perpendicular", r2.Vec{X: 1}, r2.Vec{Y: 1}, 0},
		{"120 degrees", r2.Vec{X: 1}, r2.Vec{X: -0.5, Y: math.Sqrt(3) / 2}, -0.5},
		{"zero intended", r2.Vec{}, r2.Vec{X: 1}, 0},
		{"zero actual", r2.Vec{X: 1}, r2.Vec{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Alignment(tt.intended, tt.actual), 1e-9)
		})
	}
}

func TestPlanarLiftRoundTrip(t *testing.T) {
	p := r3.Vec{X: -3, Y: 0.5, Z: 7}
	assert.Equal(t, p, Lift(Planar(p), 0.5))
}
