// Package agent defines the interfaces of agents which act in
// environments
package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/spherenav/timestep"
)

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. A Policy may be a fixed
// heuristic, a mapping from manual input, or the behaviour policy of a
// learning algorithm; environments are agnostic to which.
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
}

// Learner implements a learning algorithm that defines how a Policy
// changes over time
type Learner interface {
	Step() // Performs an update

	// Observe records that an action led to some timestep
	Observe(action mat.Vector, nextObs timestep.TimeStep)

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep)
}

// Agent is a Policy which also learns
type Agent interface {
	Learner
	Policy
}
