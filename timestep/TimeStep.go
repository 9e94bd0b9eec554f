// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// Outcome describes how an episode stands after a TimeStep. Every
// TimeStep but the last of an episode has outcome Ongoing, and the last
// TimeStep carries the cause of the episode ending.
type Outcome int

const (
	Ongoing Outcome = iota
	ReachedTarget
	HitObstacleOrWall
	FellOutOfBounds

	// TimedOut ends an episode which reached its step limit. It is not
	// a success or failure cause and carries no terminal reward.
	TimedOut
)

// Terminal returns whether the outcome ends an episode
func (o Outcome) Terminal() bool {
	return o != Ongoing
}

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "Ongoing"
	case ReachedTarget:
		return "ReachedTarget"
	case HitObstacleOrWall:
		return "HitObstacleOrWall"
	case FellOutOfBounds:
		return "FellOutOfBounds"
	case TimedOut:
		return "TimedOut"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType    StepType
	Reward      float64
	Discount    float64
	Observation mat.Vector
	Number      int
	outcome     Outcome
}

// New returns a new TimeStep with outcome Ongoing
func New(t StepType, r, d float64, o mat.Vector, n int) TimeStep {
	return TimeStep{t, r, d, o, n, Ongoing}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// Outcome returns the outcome of the episode as of this TimeStep
func (t *TimeStep) Outcome() Outcome {
	return t.outcome
}

// SetEnd marks the TimeStep as the last in its episode with the given
// outcome. SetEnd panics if o is not terminal.
func (t *TimeStep) SetEnd(o Outcome) {
	if !o.Terminal() {
		panic(fmt.Sprintf("setEnd: outcome %v does not end an episode", o))
	}
	t.StepType = Last
	t.outcome = o
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.3f  |  Discount: %.2f  |  " +
		"Step Number:  %v  |  Outcome: %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number,
		t.outcome)
}
