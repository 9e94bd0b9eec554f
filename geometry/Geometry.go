// Package geometry implements planar helpers over 3D positions. Positions
// are r3.Vec values where Y is the vertical axis. Only the horizontal X and
// Z components take part in distance and direction calculations, the
// vertical component is fixed per entity at spawn time and ignored here.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Planar projects a position onto the horizontal plane. The returned
// vector's X is the position's X and its Y is the position's Z.
func Planar(p r3.Vec) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Z}
}

// Lift returns the position on the horizontal plane at point p and the
// given height
func Lift(p r2.Vec, height float64) r3.Vec {
	return r3.Vec{X: p.X, Y: height, Z: p.Y}
}

// Distance returns the planar distance between positions a and b
func Distance(a, b r3.Vec) float64 {
	return r2.Norm(r2.Sub(Planar(b), Planar(a)))
}

// Direction returns the planar unit vector pointing from position a to
// position b. If a and b coincide on the plane, the zero vector is
// returned rather than NaNs.
func Direction(a, b r3.Vec) r2.Vec {
	return Normalize(r2.Sub(Planar(b), Planar(a)))
}

// Normalize returns the unit vector colinear to v, or the zero vector if
// v is the zero vector
func Normalize(v r2.Vec) r2.Vec {
	if v.X == 0 && v.Y == 0 {
		return r2.Vec{}
	}
	return r2.Unit(v)
}

// Alignment returns the cosine of the angle between intended and actual,
// in [-1, 1]. An alignment of 1 means both point the same way and -1
// means they point in opposite directions. Alignment is 0 whenever
// either vector is the zero vector.
func Alignment(intended, actual r2.Vec) float64 {
	if r2.Norm2(intended) == 0 || r2.Norm2(actual) == 0 {
		return 0
	}
	cos := r2.Cos(intended, actual)

	// Guard against rounding pushing the cosine just outside [-1, 1]
	return math.Max(-1, math.Min(1, cos))
}
