package navigation

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/spherenav/environment"
	"github.com/samuelfneumann/spherenav/timestep"
)

// Events records the contact events delivered since they were last
// consumed
type Events struct {
	Collision bool // The agent touched an obstacle or a wall
	Trigger   bool // The agent entered the target
}

// record records a contact with an entity of category c
func (e *Events) record(c Category) {
	switch c {
	case Obstacle, Wall:
		e.Collision = true
	case Target:
		e.Trigger = true
	case Untagged:
	}
}

// eventSource is the environment a Reach task judges episodes in
type eventSource interface {
	pendingEvents() Events
	agentPosition() r3.Vec
}

// Reach implements the task of reaching a target without touching any
// obstacle or wall and without falling off the floor.
//
// Rewards are the sum of the Shaper's terms on each step, plus a single
// terminal reward on the step which ends the episode. Episodes end, in
// order of priority, when the agent collides with an obstacle or wall,
// when it enters the target, when it falls below the floor threshold,
// or when the optional step limit is reached.
type Reach struct {
	Shaper
	floorThreshold float64
	stepLimit      environment.Ender

	env eventSource
}

// NewReach returns a new Reach task. Episodes are cut off after cutoff
// steps, or never if cutoff is zero.
func NewReach(c RewardConfig, floorThreshold float64, cutoff int) *Reach {
	return &Reach{
		Shaper:         NewShaper(c),
		floorThreshold: floorThreshold,
		stepLimit:      environment.NewStepLimit(cutoff),
	}
}

func (r *Reach) registerEnv(env eventSource) {
	r.env = env
}

// Classify returns the outcome of a step given the events delivered
// during the step and the agent's position after it
func (r *Reach) Classify(ev Events, agent r3.Vec) timestep.Outcome {
	switch {
	case ev.Collision:
		return timestep.HitObstacleOrWall
	case ev.Trigger:
		return timestep.ReachedTarget
	case agent.Y < r.floorThreshold:
		return timestep.FellOutOfBounds
	default:
		return timestep.Ongoing
	}
}

// End determines if a timestep is the last timestep in the episode. If
// so, it marks the TimeStep as the last with the outcome which ended the
// episode and returns true.
func (r *Reach) End(t *timestep.TimeStep) bool {
	if r.env == nil {
		panic("end: no environment registered with task")
	}

	outcome := r.Classify(r.env.pendingEvents(), r.env.agentPosition())
	if outcome.Terminal() {
		t.SetEnd(outcome)
		return true
	}
	return r.stepLimit.End(t)
}
