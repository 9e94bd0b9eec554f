package navigation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/samuelfneumann/spherenav/timestep"
)

func TestShape(t *testing.T) {
	retreat := DefaultRewardConfig()
	retreat.RetreatMultiplier = 0.5

	noAlignment := DefaultRewardConfig()
	noAlignment.AlignmentEnabled = false

	east := r2.Vec{X: 1}
	west := r2.Vec{X: -1}

	tests := []struct {
		name     string
		config   RewardConfig
		prev     float64
		current  float64
		intended r2.Vec
		toTarget r2.Vec
		want     Breakdown
	}{
		{
			name:     "Progress",
			config:   DefaultRewardConfig(),
			prev:     5,
			current:  4,
			intended: east,
			toTarget: east,
			want:     Breakdown{Progress: 0.01, StepCost: -0.001},
		},
		{
			name:     "NoProgress",
			config:   DefaultRewardConfig(),
			prev:     4,
			current:  4,
			intended: east,
			toTarget: east,
			want:     Breakdown{StepCost: -0.001},
		},
		{
			name:     "RetreatDisabled",
			config:   DefaultRewardConfig(),
			prev:     4,
			current:  6,
			intended: east,
			toTarget: east,
			want:     Breakdown{StepCost: -0.001},
		},
		{
			name:     "Retreat",
			config:   retreat,
			prev:     4,
			current:  6,
			intended: east,
			toTarget: east,
			want:     Breakdown{Retreat: -1, StepCost: -0.001},
		},
		{
			name:     "Misaligned",
			config:   DefaultRewardConfig(),
			prev:     4,
			current:  4,
			intended: east,
			toTarget: west,
			want:     Breakdown{Alignment: -0.02, StepCost: -0.001},
		},
		{
			name:     "Perpendicular",
			config:   DefaultRewardConfig(),
			prev:     4,
			current:  4,
			intended: east,
			toTarget: r2.Vec{Y: 1},
			want:     Breakdown{StepCost: -0.001},
		},
		{
			name:     "AlignmentDisabled",
			config:   noAlignment,
			prev:     4,
			current:  4,
			intended: east,
			toTarget: west,
			want:     Breakdown{StepCost: -0.001},
		},
		{
			name:     "Stationary",
			config:   DefaultRewardConfig(),
			prev:     4,
			current:  4,
			intended: r2.Vec{X: -0.1},
			toTarget: east,
			want:     Breakdown{StepCost: -0.001},
		},
		{
			name:     "StationaryDiagonal",
			config:   DefaultRewardConfig(),
			prev:     4,
			current:  4,
			intended: r2.Vec{X: -0.06, Y: -0.08},
			toTarget: east,
			want:     Breakdown{StepCost: -0.001},
		},
		{
			name:     "JustAboveStationary",
			config:   DefaultRewardConfig(),
			prev:     4,
			current:  4,
			intended: r2.Vec{X: -0.11},
			toTarget: east,
			want:     Breakdown{Alignment: -0.02, StepCost: -0.001},
		},
		{
			name:     "NoTarget",
			config:   DefaultRewardConfig(),
			prev:     math.Inf(1),
			current:  math.Inf(1),
			intended: east,
			toTarget: r2.Vec{},
			want:     Breakdown{StepCost: -0.001},
		},
		{
			name:     "ProgressAndMisaligned",
			config:   DefaultRewardConfig(),
			prev:     5,
			current:  3,
			intended: r2.Vec{X: -1, Y: 0.1},
			toTarget: east,
			want: Breakdown{Progress: 0.02, Alignment: -0.02,
				StepCost: -0.001},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := NewShaper(test.config).Shape(test.prev, test.current,
				test.intended, test.toTarget)

			assert.InDelta(t, test.want.Progress, got.Progress, tol)
			assert.InDelta(t, test.want.Retreat, got.Retreat, tol)
			assert.InDelta(t, test.want.Alignment, got.Alignment, tol)
			assert.InDelta(t, test.want.StepCost, got.StepCost, tol)
			assert.Zero(t, got.Terminal)
		})
	}
}

func TestTerminalReward(t *testing.T) {
	s := NewShaper(DefaultRewardConfig())

	assert.Equal(t, 1.0, s.Terminal(timestep.ReachedTarget))
	assert.Equal(t, -1.0, s.Terminal(timestep.HitObstacleOrWall))
	assert.Equal(t, -0.1, s.Terminal(timestep.FellOutOfBounds))
	assert.Zero(t, s.Terminal(timestep.TimedOut))
	assert.Zero(t, s.Terminal(timestep.Ongoing))
}

func TestBreakdownTotal(t *testing.T) {
	b := Breakdown{Progress: 0.01, Retreat: -0.5, Alignment: -0.02,
		StepCost: -0.001, Terminal: 1}
	assert.InDelta(t, 0.489, b.Total(), tol)
}
