package navigation

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/spherenav/geometry"
)

// SpawnedObstacle is a procedurally placed obstacle and the position it
// was placed at. SpawnedObstacles live for exactly one episode.
type SpawnedObstacle struct {
	Entity   Entity
	Position r3.Vec
}

// State holds everything Navigation knows about the current episode.
// The placement, reward, and termination logic all read positions and
// distances through a State so that they never disagree.
type State struct {
	agentStart r3.Vec

	target    r3.Vec
	hasTarget bool

	obstacles []SpawnedObstacle

	// previousDistance is the planar agent-target distance at the end
	// of the previous step, or at the start of the episode if no step
	// has been taken yet
	previousDistance float64
}

// newState returns the State of an agent which always starts at start
func newState(start r3.Vec) *State {
	return &State{agentStart: start, previousDistance: math.Inf(1)}
}

// AgentStart returns the position the agent is restored to at the start
// of every episode
func (s *State) AgentStart() r3.Vec {
	return s.agentStart
}

// Target returns the position of the target, or false if there is no
// target
func (s *State) Target() (r3.Vec, bool) {
	return s.target, s.hasTarget
}

// Obstacles returns the obstacles spawned for the current episode in the
// order they were placed
func (s *State) Obstacles() []SpawnedObstacle {
	out := make([]SpawnedObstacle, len(s.obstacles))
	copy(out, s.obstacles)
	return out
}

// PreviousDistance returns the agent-target distance recorded at the end
// of the previous step
func (s *State) PreviousDistance() float64 {
	return s.previousDistance
}

// DistanceFrom returns the planar distance from p to the target. Without
// a target the distance is +Inf.
func (s *State) DistanceFrom(p r3.Vec) float64 {
	if !s.hasTarget {
		return math.Inf(1)
	}
	return geometry.Distance(p, s.target)
}

// DirectionFrom returns the planar unit direction from p to the target,
// or the zero vector without a target
func (s *State) DirectionFrom(p r3.Vec) r2.Vec {
	if !s.hasTarget {
		return r2.Vec{}
	}
	return geometry.Direction(p, s.target)
}

func (s *State) setTarget(p r3.Vec) {
	s.target = p
	s.hasTarget = true
}

// clearObstacles destroys every spawned obstacle and empties the arena
func (s *State) clearObstacles(destroy func(Entity)) {
	for _, o := range s.obstacles {
		destroy(o.Entity)
	}
	s.obstacles = s.obstacles[:0]
}

func (s *State) addObstacle(o SpawnedObstacle) {
	s.obstacles = append(s.obstacles, o)
}

// resetDistance records the distance from the agent at p to the target
// at the start of an episode
func (s *State) resetDistance(p r3.Vec) {
	s.previousDistance = s.DistanceFrom(p)
}

// advance records current as the distance at the end of this step and
// returns the distance recorded at the end of the previous step. It must
// be called exactly once per step.
func (s *State) advance(current float64) float64 {
	previous := s.previousDistance
	s.previousDistance = current
	return previous
}
