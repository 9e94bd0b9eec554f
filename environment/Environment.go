// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/spherenav/timestep"
)

// Ender determines when episodes should be ended
type Ender interface {
	// End determines whether the episode should end at t. If so, End
	// marks t as the last TimeStep of the episode and returns true.
	End(t *timestep.TimeStep) bool
}

// Environment implements a simulated environment driven one TimeStep at
// a time by a caller-owned loop.
//
// Environments begin a fresh episode as soon as an episode ends: Step
// returns the last TimeStep of the finished episode, after which
// CurrentTimeStep returns the first TimeStep of the next episode.
type Environment interface {
	Reset() timestep.TimeStep // Begins a new episode
	Step(action *mat.VecDense) (timestep.TimeStep, bool)
	CurrentTimeStep() timestep.TimeStep

	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
