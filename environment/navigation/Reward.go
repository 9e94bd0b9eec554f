package navigation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samuelfneumann/spherenav/geometry"
	"github.com/samuelfneumann/spherenav/timestep"
)

// normTolerance absorbs rounding in squared action norms so that an
// action whose norm lies on AlignmentEpsilon counts as stationary
const normTolerance = 1e-12

// RewardConfig parameterizes each term of the reward. Every term is
// computed independently of the others, so each can be tuned or turned
// off without changing the rest.
type RewardConfig struct {
	// DistanceMultiplier scales the reduction in distance to the target
	DistanceMultiplier float64 `yaml:"distance_multiplier"`

	// RetreatMultiplier scales any increase in distance to the target.
	// Zero disables the retreat penalty.
	RetreatMultiplier float64 `yaml:"retreat_multiplier"`

	AlignmentEnabled   bool    `yaml:"alignment_enabled"`
	AlignmentThreshold float64 `yaml:"alignment_threshold"`
	AlignmentPenalty   float64 `yaml:"alignment_penalty"`

	// AlignmentEpsilon is the squared action norm at or below which
	// the agent is considered stationary and alignment is not judged
	AlignmentEpsilon float64 `yaml:"alignment_epsilon"`

	StepCost float64 `yaml:"step_cost"`

	SuccessReward    float64 `yaml:"success_reward"`
	CollisionPenalty float64 `yaml:"collision_penalty"`
	FallPenalty      float64 `yaml:"fall_penalty"`
}

// DefaultRewardConfig returns the default reward parameters
func DefaultRewardConfig() RewardConfig {
	return RewardConfig{
		DistanceMultiplier: 0.01,
		RetreatMultiplier:  0.0,
		AlignmentEnabled:   true,
		AlignmentThreshold: -0.5,
		AlignmentPenalty:   -0.02,
		AlignmentEpsilon:   0.01,
		StepCost:           -0.001,
		SuccessReward:      1.0,
		CollisionPenalty:   -1.0,
		FallPenalty:        -0.1,
	}
}

// Breakdown is the reward of a single step split into its terms
type Breakdown struct {
	Progress  float64
	Retreat   float64
	Alignment float64
	StepCost  float64
	Terminal  float64
}

// Total returns the reward of the step
func (b Breakdown) Total() float64 {
	return b.Progress + b.Retreat + b.Alignment + b.StepCost + b.Terminal
}

// Shaper computes the reward terms of a step
type Shaper struct {
	config RewardConfig
}

// NewShaper returns a new Shaper
func NewShaper(c RewardConfig) Shaper {
	return Shaper{c}
}

// Config returns the parameters of the Shaper
func (s Shaper) Config() RewardConfig {
	return s.config
}

// Shape returns the non-terminal reward terms of a step in which the
// distance to the target went from previous to current while the agent
// intended to move along intended, and toTarget is the true direction to
// the target after the step.
//
// Distances are +Inf when there is no target, in which case only the
// step cost applies.
func (s Shaper) Shape(previous, current float64, intended,
	toTarget r2.Vec) Breakdown {
	var b Breakdown

	if !math.IsInf(previous, 0) && !math.IsInf(current, 0) {
		delta := previous - current
		if delta > 0 {
			b.Progress = delta * s.config.DistanceMultiplier
		} else if delta < 0 {
			b.Retreat = delta * math.Abs(s.config.RetreatMultiplier)
		}
	}

	if s.config.AlignmentEnabled &&
		r2.Norm2(intended)-s.config.AlignmentEpsilon > normTolerance &&
		r2.Norm2(toTarget) > 0 {
		if geometry.Alignment(intended, toTarget) < s.config.AlignmentThreshold {
			b.Alignment = s.config.AlignmentPenalty
		}
	}

	b.StepCost = s.config.StepCost
	return b
}

// Terminal returns the reward for ending an episode with outcome o
func (s Shaper) Terminal(o timestep.Outcome) float64 {
	switch o {
	case timestep.ReachedTarget:
		return s.config.SuccessReward
	case timestep.HitObstacleOrWall:
		return s.config.CollisionPenalty
	case timestep.FellOutOfBounds:
		return s.config.FallPenalty
	default:
		return 0
	}
}
