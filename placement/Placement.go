// Package placement implements bounded rejection sampling of positions on
// a horizontal plane subject to a set of disk-shaped exclusion zones.
//
// Placement is a best-effort constraint solve: the exclusion set may make
// the sampling domain infeasible, so every search is capped by a maximum
// number of attempts and callers choose a Fallback for when the cap is
// reached.
package placement

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/spherenav/geometry"
)

// ErrInfeasible is returned when no candidate outside every exclusion
// zone was found within the attempt budget
var ErrInfeasible = errors.New("placement infeasible")

// Bounds is the sampling domain: an axis-aligned rectangle on the
// horizontal plane plus the fixed height at which positions are placed
type Bounds struct {
	X      r1.Interval
	Z      r1.Interval
	Height float64
}

// NewBounds returns the bounds [minX, maxX] x [minZ, maxZ] at the given
// height
func NewBounds(minX, maxX, minZ, maxZ, height float64) Bounds {
	return Bounds{
		X:      r1.Interval{Min: minX, Max: maxX},
		Z:      r1.Interval{Min: minZ, Max: maxZ},
		Height: height,
	}
}

// Validate returns an error if either interval of the bounds is reversed
func (b Bounds) Validate() error {
	if b.X.Min > b.X.Max {
		return fmt.Errorf("validate: x interval [%v, %v] is reversed",
			b.X.Min, b.X.Max)
	}
	if b.Z.Min > b.Z.Max {
		return fmt.Errorf("validate: z interval [%v, %v] is reversed",
			b.Z.Min, b.Z.Max)
	}
	return nil
}

// Contains returns whether p lies inside the rectangle of the bounds.
// Height is not considered.
func (b Bounds) Contains(p r3.Vec) bool {
	return p.X >= b.X.Min && p.X <= b.X.Max &&
		p.Z >= b.Z.Min && p.Z <= b.Z.Max
}

// Zone is a disk on the horizontal plane which no newly placed position
// may fall inside
type Zone struct {
	Center r3.Vec
	Radius float64
}

// Overlaps returns whether p falls strictly inside the zone
func (z Zone) Overlaps(p r3.Vec) bool {
	return geometry.Distance(p, z.Center) < z.Radius
}

// Sampler draws candidate positions uniformly from Bounds using an
// explicit random source so that placements are reproducible
type Sampler struct {
	src rand.Source
}

// NewSampler returns a Sampler drawing from src
func NewSampler(src rand.Source) *Sampler {
	if src == nil {
		panic("newSampler: random source cannot be nil")
	}
	return &Sampler{src: src}
}

// Sample draws a single position uniformly from b, at b's height,
// ignoring every exclusion zone
func (s *Sampler) Sample(b Bounds) r3.Vec {
	x := distuv.Uniform{Min: b.X.Min, Max: b.X.Max, Src: s.src}
	z := distuv.Uniform{Min: b.Z.Min, Max: b.Z.Max, Src: s.src}

	return r3.Vec{X: x.Rand(), Y: b.Height, Z: z.Rand()}
}

// Find draws up to maxAttempts candidates from b and returns the first
// one which lies outside every zone in exclusions, together with the
// number of candidates drawn. Zones are tested in order, and a candidate
// is rejected on the first zone it overlaps.
//
// If every candidate is rejected, Find returns an error wrapping
// ErrInfeasible and the number of attempts made, which is maxAttempts.
func (s *Sampler) Find(b Bounds, exclusions []Zone,
	maxAttempts int) (r3.Vec, int, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		candidate := s.Sample(b)
		if !overlapsAny(candidate, exclusions) {
			return candidate, attempt, nil
		}
	}

	return r3.Vec{}, max(maxAttempts, 0), fmt.Errorf("find: %w after %v "+
		"attempts against %v zones", ErrInfeasible, max(maxAttempts, 0),
		len(exclusions))
}

// overlapsAny returns whether p overlaps any zone, stopping at the first
// overlap found
func overlapsAny(p r3.Vec, zones []Zone) bool {
	for _, zone := range zones {
		if zone.Overlaps(p) {
			return true
		}
	}
	return false
}
