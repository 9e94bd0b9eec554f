// Package heuristic implements policies which need no learning: a policy
// which steers straight at the target, and a policy which maps manual
// input onto actions.
package heuristic

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/spherenav/environment/navigation"
	"github.com/samuelfneumann/spherenav/timestep"
	"github.com/samuelfneumann/spherenav/utils/floatutils"
)

var actionBounds = r1.Interval{
	Min: navigation.MinAction,
	Max: navigation.MaxAction,
}

// Seek implements a policy which pushes the agent along the observed
// direction to the target, scaled by Gain. Seek ignores obstacles.
type Seek struct {
	Gain float64
}

// NewSeek returns a new Seek policy
func NewSeek(gain float64) *Seek {
	return &Seek{gain}
}

// SelectAction selects the action pointing at the target
func (s *Seek) SelectAction(t timestep.TimeStep) *mat.VecDense {
	obs := t.Observation
	if obs == nil || obs.Len() < navigation.CoreObservations {
		panic(fmt.Sprintf("selectAction: observation must have at least "+
			"%v features", navigation.CoreObservations))
	}

	return mat.NewVecDense(navigation.ActionDims, []float64{
		floatutils.ClipInterval(s.Gain*obs.AtVec(2), actionBounds),
		floatutils.ClipInterval(s.Gain*obs.AtVec(3), actionBounds),
	})
}

// Axes is a source of manual input, such as a keyboard, a gamepad, or a
// recording of either. Poll is called once per action to read the input
// of that step, after which each axis reports a value in [-1, 1].
type Axes interface {
	Poll()
	Horizontal() float64
	Vertical() float64
}

// Manual implements a policy which maps manual input directly onto
// actions: the horizontal axis onto the world X axis and the vertical
// axis onto the world Z axis
type Manual struct {
	axes Axes
}

// NewManual returns a new Manual policy reading from axes
func NewManual(axes Axes) *Manual {
	return &Manual{axes}
}

// SelectAction selects the action given by the current manual input
func (m *Manual) SelectAction(timestep.TimeStep) *mat.VecDense {
	m.axes.Poll()
	return mat.NewVecDense(navigation.ActionDims, []float64{
		floatutils.ClipInterval(m.axes.Horizontal(), actionBounds),
		floatutils.ClipInterval(m.axes.Vertical(), actionBounds),
	})
}
