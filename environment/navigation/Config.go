package navigation

import (
	"errors"
	"fmt"
	"math"

	"github.com/samuelfneumann/spherenav/placement"
)

// BoundsConfig describes a spawn rectangle and the fixed height at which
// entities are placed within it
type BoundsConfig struct {
	MinX   float64 `yaml:"min_x"`
	MaxX   float64 `yaml:"max_x"`
	MinZ   float64 `yaml:"min_z"`
	MaxZ   float64 `yaml:"max_z"`
	Height float64 `yaml:"height"`
}

// Bounds returns the placement bounds described by b
func (b BoundsConfig) Bounds() placement.Bounds {
	return placement.NewBounds(b.MinX, b.MaxX, b.MinZ, b.MaxZ, b.Height)
}

// ObstacleConfig configures the procedural obstacles spawned at the
// start of each episode
type ObstacleConfig struct {
	Bounds BoundsConfig `yaml:"bounds"`

	// The number of obstacles in an episode is drawn uniformly from
	// [MinCount, MaxCount]
	MinCount int `yaml:"min_count"`
	MaxCount int `yaml:"max_count"`

	MaxAttempts int `yaml:"max_attempts"`

	MinDistFromAgent  float64 `yaml:"min_dist_from_agent"`
	MinSeparation     float64 `yaml:"min_separation"`
	MinDistFromTarget float64 `yaml:"min_dist_from_target"`

	Fallback placement.Fallback `yaml:"fallback"`
}

// TargetConfig configures where the target is relocated to
type TargetConfig struct {
	Bounds      BoundsConfig `yaml:"bounds"`
	MaxAttempts int          `yaml:"max_attempts"`

	MinDistFromAgent    float64 `yaml:"min_dist_from_agent"`
	MinDistFromFixed    float64 `yaml:"min_dist_from_fixed"`
	MinDistFromObstacle float64 `yaml:"min_dist_from_obstacle"`

	Fallback placement.Fallback `yaml:"fallback"`
}

// Config configures a Navigation environment
type Config struct {
	Obstacles ObstacleConfig `yaml:"obstacles"`
	Target    TargetConfig   `yaml:"target"`
	Reward    RewardConfig   `yaml:"reward"`

	// ForceMagnitude scales actions into the force applied to the agent
	ForceMagnitude float64 `yaml:"force_magnitude"`

	// FloorThreshold is the height below which the agent has fallen
	FloorThreshold float64 `yaml:"floor_threshold"`

	// EpisodeCutoff is the maximum number of steps in an episode. Zero
	// means episodes are never cut off.
	EpisodeCutoff int `yaml:"episode_cutoff"`

	Discount float64 `yaml:"discount"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Obstacles: ObstacleConfig{
			Bounds: BoundsConfig{
				MinX: -15, MaxX: 15, MinZ: -15, MaxZ: 15, Height: 0.5,
			},
			MinCount:          2,
			MaxCount:          4,
			MaxAttempts:       20,
			MinDistFromAgent:  3.0,
			MinSeparation:     2.0,
			MinDistFromTarget: 2.0,
			Fallback:          placement.Skip,
		},
		Target: TargetConfig{
			Bounds: BoundsConfig{
				MinX: -18, MaxX: 18, MinZ: -18, MaxZ: 18, Height: 0.75,
			},
			MaxAttempts:         50,
			MinDistFromAgent:    4.0,
			MinDistFromFixed:    3.0,
			MinDistFromObstacle: 2.0,
			Fallback:            placement.Unconstrained,
		},
		Reward:         DefaultRewardConfig(),
		ForceMagnitude: 10.0,
		FloorThreshold: -1.0,
		EpisodeCutoff:  0,
		Discount:       0.99,
	}
}

// Validate returns an error describing every invalid setting in c
func (c Config) Validate() error {
	var errs []error

	if err := c.Obstacles.Bounds.Bounds().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("obstacles: %w", err))
	}
	if err := c.Target.Bounds.Bounds().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("target: %w", err))
	}

	if c.Obstacles.MinCount < 0 || c.Obstacles.MaxCount < c.Obstacles.MinCount {
		errs = append(errs, fmt.Errorf("obstacles: count range [%v, %v] "+
			"is invalid", c.Obstacles.MinCount, c.Obstacles.MaxCount))
	}
	if c.Obstacles.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("obstacles: max attempts must be "+
			"positive but got %v", c.Obstacles.MaxAttempts))
	}
	if c.Target.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("target: max attempts must be "+
			"positive but got %v", c.Target.MaxAttempts))
	}

	radii := []struct {
		name string
		r    float64
	}{
		{"obstacles: min_dist_from_agent", c.Obstacles.MinDistFromAgent},
		{"obstacles: min_separation", c.Obstacles.MinSeparation},
		{"obstacles: min_dist_from_target", c.Obstacles.MinDistFromTarget},
		{"target: min_dist_from_agent", c.Target.MinDistFromAgent},
		{"target: min_dist_from_fixed", c.Target.MinDistFromFixed},
		{"target: min_dist_from_obstacle", c.Target.MinDistFromObstacle},
	}
	for _, radius := range radii {
		if radius.r < 0 || math.IsNaN(radius.r) {
			errs = append(errs, fmt.Errorf("%v: radius must be "+
				"non-negative but got %v", radius.name, radius.r))
		}
	}

	if c.ForceMagnitude < 0 {
		errs = append(errs, fmt.Errorf("force magnitude must be "+
			"non-negative but got %v", c.ForceMagnitude))
	}
	if c.EpisodeCutoff < 0 {
		errs = append(errs, fmt.Errorf("episode cutoff must be "+
			"non-negative but got %v", c.EpisodeCutoff))
	}
	if c.Discount < 0 || c.Discount > 1 {
		errs = append(errs, fmt.Errorf("discount must be in [0, 1] but "+
			"got %v", c.Discount))
	}
	if c.Reward.AlignmentThreshold < -1 || c.Reward.AlignmentThreshold > 1 {
		errs = append(errs, fmt.Errorf("reward: alignment threshold must "+
			"be in [-1, 1] but got %v", c.Reward.AlignmentThreshold))
	}

	return errors.Join(errs...)
}
