package plane

import (
	"errors"
	"fmt"
)

// Point is a position on the horizontal plane
type Point struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

// FixedObstacle describes an obstacle which exists for the lifetime of a
// World. If Distance is positive the obstacle oscillates about its
// position along a world axis chosen when the World is created.
type FixedObstacle struct {
	Position Point   `yaml:"position"`
	HalfSize float64 `yaml:"half_size"`
	Height   float64 `yaml:"height"`

	Speed    float64 `yaml:"speed"`
	Distance float64 `yaml:"distance"`
}

// Oscillates returns whether the obstacle moves
func (f FixedObstacle) Oscillates() bool {
	return f.Distance > 0 && f.Speed != 0
}

// Config configures a World
type Config struct {
	// Simulation
	TimeStep           float64 `yaml:"time_step"`
	VelocityIterations int     `yaml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations"`

	// ArenaHalfSize is half the side length of the square floor centred
	// on the origin. If Walls is set, walls surround the floor.
	ArenaHalfSize float64 `yaml:"arena_half_size"`
	Walls         bool    `yaml:"walls"`

	// Gravity pulls the agent down once it has left the floor
	Gravity float64 `yaml:"gravity"`

	AgentStart    Point   `yaml:"agent_start"`
	AgentHeight   float64 `yaml:"agent_height"`
	AgentRadius   float64 `yaml:"agent_radius"`
	AgentDensity  float64 `yaml:"agent_density"`
	LinearDamping float64 `yaml:"linear_damping"`

	// The target is a sensor, the agent passes through it
	Target       bool    `yaml:"target"`
	TargetStart  Point   `yaml:"target_start"`
	TargetHeight float64 `yaml:"target_height"`
	TargetRadius float64 `yaml:"target_radius"`

	// ObstacleHalfSize is the half side length of spawned obstacles.
	// Zero removes the obstacle template, so obstacles cannot be
	// spawned.
	ObstacleHalfSize float64 `yaml:"obstacle_half_size"`

	Fixed []FixedObstacle `yaml:"fixed"`
}

// DefaultConfig returns the default World configuration: a 40 x 40
// walled arena with the agent at its centre
func DefaultConfig() Config {
	return Config{
		TimeStep:           1.0 / 50.0,
		VelocityIterations: 8,
		PositionIterations: 3,
		ArenaHalfSize:      20,
		Walls:              true,
		Gravity:            9.81,
		AgentStart:         Point{},
		AgentHeight:        0.5,
		AgentRadius:        0.5,
		AgentDensity:       1.0,
		LinearDamping:      0.5,
		Target:             true,
		TargetStart:        Point{X: 8, Z: 8},
		TargetHeight:       0.75,
		TargetRadius:       0.75,
		ObstacleHalfSize:   0.5,
	}
}

// Validate returns an error describing every invalid setting in c
func (c Config) Validate() error {
	var errs []error

	if c.TimeStep <= 0 {
		errs = append(errs, fmt.Errorf("time step must be positive but "+
			"got %v", c.TimeStep))
	}
	if c.VelocityIterations < 1 || c.PositionIterations < 1 {
		errs = append(errs, fmt.Errorf("solver iterations must be "+
			"positive but got %v and %v", c.VelocityIterations,
			c.PositionIterations))
	}
	if c.ArenaHalfSize <= 0 {
		errs = append(errs, fmt.Errorf("arena half size must be positive "+
			"but got %v", c.ArenaHalfSize))
	}
	if c.AgentRadius <= 0 || c.AgentDensity <= 0 {
		errs = append(errs, fmt.Errorf("agent radius and density must be "+
			"positive but got %v and %v", c.AgentRadius, c.AgentDensity))
	}
	if c.Target && c.TargetRadius <= 0 {
		errs = append(errs, fmt.Errorf("target radius must be positive "+
			"but got %v", c.TargetRadius))
	}
	if c.ObstacleHalfSize < 0 {
		errs = append(errs, fmt.Errorf("obstacle half size must be "+
			"non-negative but got %v", c.ObstacleHalfSize))
	}
	for i, f := range c.Fixed {
		if f.HalfSize <= 0 {
			errs = append(errs, fmt.Errorf("fixed obstacle %v: half size "+
				"must be positive but got %v", i, f.HalfSize))
		}
	}

	return errors.Join(errs...)
}
