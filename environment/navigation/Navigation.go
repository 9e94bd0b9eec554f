// Package navigation implements an environment in which a sphere moving
// on a horizontal plane under an applied force must reach a target while
// avoiding walls, fixed obstacles, and obstacles which are procedurally
// placed at the start of every episode.
//
// The environment owns the episode lifecycle, the layout generation, and
// the reward. Everything physical (integrating forces, detecting contacts,
// creating and destroying bodies) is delegated to a Physics service, and
// anything the agent senses beyond the core observation is delegated to a
// Perception service.
package navigation

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/spherenav/environment"
	"github.com/samuelfneumann/spherenav/placement"
	"github.com/samuelfneumann/spherenav/timestep"
	"github.com/samuelfneumann/spherenav/utils/floatutils"
	"github.com/samuelfneumann/spherenav/utils/randutils"
)

const (
	// CoreObservations is the number of features at the start of every
	// observation, before any perception features
	CoreObservations int = 5

	// ActionDims is the number of action dimensions
	ActionDims int = 2

	MinAction float64 = -1.0
	MaxAction float64 = 1.0
)

// Diagnostics counts events of interest over the lifetime of an
// environment
type Diagnostics struct {
	Episodes int
	Steps    int

	// InfeasibleObstacles counts obstacle placements which exhausted
	// their attempt budget, SkippedObstacles those of them which were
	// then not placed at all
	InfeasibleObstacles int
	SkippedObstacles    int
	InfeasibleTargets   int

	// MissingEntities counts the subsystems disabled because the
	// Physics service lacked an entity they needed
	MissingEntities int

	Outcomes map[timestep.Outcome]int
}

// Option configures a Navigation environment
type Option func(*Navigation)

// WithLogger sets the logger of the environment
func WithLogger(l *zap.Logger) Option {
	return func(n *Navigation) {
		n.logger = l
	}
}

// WithPerception appends the features produced by p to every
// observation
func WithPerception(p Perception) Option {
	return func(n *Navigation) {
		n.perception = p
	}
}

// Navigation implements the sphere navigation environment. Each
// observation is a vector consisting of the following features in the
// following order:
//
//  1. The agent's velocity along the world X axis
//  2. The agent's velocity along the world Z axis
//  3. The X component of the unit direction from the agent to the target
//  4. The Z component of the unit direction from the agent to the target
//  5. The planar distance from the agent to the target
//  6. Any features produced by the Perception service
//
// If there is no target, features 3 through 5 are 0.
//
// Actions are 2-dimensional and continuous in [-1, 1]. The first
// dimension pushes the agent along the world X axis and the second along
// the world Z axis, scaled by the configured force magnitude. Actions
// outside [-1, 1] are clipped.
//
// When an episode ends, Step returns the last TimeStep of the episode and
// the next episode begins immediately: obstacles are regenerated, the
// agent is returned to its start position, and the target is relocated
// if it was reached. CurrentTimeStep then returns the first TimeStep of
// the new episode.
//
// Navigation is not safe for concurrent use. Independent environments
// share no state and may be run concurrently.
type Navigation struct {
	task       *Reach
	physics    Physics
	perception Perception
	config     Config
	logger     *zap.Logger

	state *State
	agent Entity

	target    Entity
	hasTarget bool

	// canSpawn is false once the Physics service reports it has no
	// obstacle template
	canSpawn bool

	// relocateTarget is set when the target is reached and cleared when
	// the target is placed at the start of the next episode
	relocateTarget bool

	obstacleSampler *placement.Sampler
	targetSampler   *placement.Sampler
	countRng        *rand.Rand

	events        Events
	lastReward    Breakdown
	prevStep      timestep.TimeStep
	episodeReturn float64
	diagnostics   Diagnostics

	actionBounds r1.Interval
}

// New returns a new Navigation environment driving p and the first
// TimeStep of its first episode. The agent's position in p when New is
// called becomes its start position for the lifetime of the environment.
// All randomness is derived from seed.
func New(p Physics, c Config, seed uint64,
	opts ...Option) (*Navigation, timestep.TimeStep, error) {
	if p == nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: physics cannot " +
			"be nil")
	}
	if err := c.Validate(); err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	n := &Navigation{
		task:            NewReach(c.Reward, c.FloorThreshold, c.EpisodeCutoff),
		physics:         p,
		perception:      NoPerception{},
		config:          c,
		logger:          zap.NewNop(),
		canSpawn:        true,
		relocateTarget:  true,
		obstacleSampler: placement.NewSampler(randutils.NewSource(seed, "placement.obstacles")),
		targetSampler:   placement.NewSampler(randutils.NewSource(seed, "placement.target")),
		countRng:        randutils.New(seed, "episode.obstacle_count"),
		actionBounds:    r1.Interval{Min: MinAction, Max: MaxAction},
		diagnostics:     Diagnostics{Outcomes: make(map[timestep.Outcome]int)},
	}
	for _, opt := range opts {
		opt(n)
	}

	n.agent = p.Agent()
	n.state = newState(p.Position(n.agent))

	n.target, n.hasTarget = p.Target()
	if n.hasTarget {
		n.state.setTarget(p.Position(n.target))
	} else {
		n.diagnostics.MissingEntities++
		n.logger.Warn("no target, distance based rewards and "+
			"observations are disabled",
			zap.Error(fmt.Errorf("target: %w", ErrMissingEntity)))
	}

	p.SetContactListener(n)
	n.task.registerEnv(n)

	step := n.Reset()
	return n, step, nil
}

// BeginContact records a contact between the agent and an entity of
// category other. It is called by the Physics service while stepping.
func (n *Navigation) BeginContact(other Category) {
	n.events.record(other)
}

func (n *Navigation) pendingEvents() Events {
	return n.events
}

func (n *Navigation) agentPosition() r3.Vec {
	return n.physics.Position(n.agent)
}

// Reset begins a new episode and returns its first TimeStep
func (n *Navigation) Reset() timestep.TimeStep {
	n.lastReward = Breakdown{}
	n.beginEpisode()
	return n.prevStep
}

// beginEpisode restores the agent, regenerates the obstacles, places the
// target if it must be relocated, and records the first TimeStep
func (n *Navigation) beginEpisode() {
	start := n.state.AgentStart()
	n.physics.ZeroMotion(n.agent)
	n.physics.SetPosition(n.agent, start)

	n.state.clearObstacles(n.physics.Destroy)
	n.spawnObstacles()

	// The target is placed only after every obstacle of the episode so
	// that it avoids all of them
	if n.relocateTarget && n.hasTarget {
		n.placeTarget()
	}
	n.relocateTarget = false

	n.state.resetDistance(start)
	n.events = Events{}
	n.episodeReturn = 0
	n.diagnostics.Episodes++

	n.prevStep = timestep.New(timestep.First, 0, n.config.Discount,
		n.observe(), 0)
}

// spawnObstacles places and creates the procedural obstacles of an
// episode
func (n *Navigation) spawnObstacles() {
	if !n.canSpawn {
		return
	}
	c := n.config.Obstacles

	count := c.MinCount + n.countRng.IntN(c.MaxCount-c.MinCount+1)
	if count == 0 {
		return
	}

	zones := []placement.Zone{
		{Center: n.state.AgentStart(), Radius: c.MinDistFromAgent},
	}
	for _, e := range n.physics.Fixed() {
		zones = append(zones, placement.Zone{
			Center: n.physics.Position(e),
			Radius: c.MinSeparation,
		})
	}

	// A target which stays where it is must not be covered by an
	// obstacle
	if target, ok := n.state.Target(); ok && !n.relocateTarget {
		zones = append(zones, placement.Zone{
			Center: target,
			Radius: c.MinDistFromTarget,
		})
	}

	req := placement.Request{
		Bounds:      c.Bounds.Bounds(),
		Exclusions:  zones,
		MaxAttempts: c.MaxAttempts,
		Fallback:    c.Fallback,
	}
	results := n.obstacleSampler.PlaceBatch(req, count, c.MinSeparation)

	for i, result := range results {
		if result.Fallback {
			n.diagnostics.InfeasibleObstacles++
			n.logger.Warn("obstacle placement infeasible",
				zap.Int("obstacle", i),
				zap.Int("attempts", result.Attempts),
				zap.Stringer("fallback", c.Fallback),
				zap.Int("episode", n.diagnostics.Episodes+1),
			)
		}
		if !result.Placed {
			n.diagnostics.SkippedObstacles++
			continue
		}

		e, err := n.physics.Spawn(Obstacle, result.Position)
		if errors.Is(err, ErrMissingEntity) {
			n.canSpawn = false
			n.diagnostics.MissingEntities++
			n.logger.Warn("no obstacle template, obstacles will no "+
				"longer be spawned", zap.Error(err))
			return
		} else if err != nil {
			n.logger.Error("could not spawn obstacle", zap.Error(err),
				zap.Int("obstacle", i))
			continue
		}

		n.state.addObstacle(SpawnedObstacle{Entity: e,
			Position: result.Position})
	}
}

// placeTarget relocates the target away from the agent's start and from
// every obstacle
func (n *Navigation) placeTarget() {
	c := n.config.Target

	zones := []placement.Zone{
		{Center: n.state.AgentStart(), Radius: c.MinDistFromAgent},
	}
	for _, e := range n.physics.Fixed() {
		zones = append(zones, placement.Zone{
			Center: n.physics.Position(e),
			Radius: c.MinDistFromFixed,
		})
	}
	for _, o := range n.state.obstacles {
		zones = append(zones, placement.Zone{
			Center: o.Position,
			Radius: c.MinDistFromObstacle,
		})
	}

	result := n.targetSampler.Place(placement.Request{
		Bounds:      c.Bounds.Bounds(),
		Exclusions:  zones,
		MaxAttempts: c.MaxAttempts,
		Fallback:    c.Fallback,
	})
	if result.Fallback {
		n.diagnostics.InfeasibleTargets++
		n.logger.Warn("target placement infeasible",
			zap.Int("attempts", result.Attempts),
			zap.Stringer("fallback", c.Fallback),
			zap.Bool("moved", result.Placed),
		)
	}
	if !result.Placed {
		return
	}

	n.physics.SetPosition(n.target, result.Position)
	n.state.setTarget(result.Position)
}

// Step takes one step in the environment given an action. If the step
// ends the episode, the returned TimeStep is the last of the episode and
// the next episode has already begun.
func (n *Navigation) Step(action *mat.VecDense) (timestep.TimeStep, bool) {
	if action.Len() != ActionDims {
		panic(fmt.Sprintf("step: illegal action length \n\twant(%v) "+
			"\n\thave(%v)", ActionDims, action.Len()))
	}

	intended := r2.Vec{
		X: floatutils.ClipInterval(action.AtVec(0), n.actionBounds),
		Y: floatutils.ClipInterval(action.AtVec(1), n.actionBounds),
	}
	force := r3.Vec{
		X: intended.X * n.config.ForceMagnitude,
		Z: intended.Y * n.config.ForceMagnitude,
	}

	n.events = Events{}
	n.physics.ApplyForce(n.agent, force)
	n.physics.Step()

	pos := n.physics.Position(n.agent)
	current := n.state.DistanceFrom(pos)
	previous := n.state.advance(current)
	reward := n.task.Shape(previous, current, intended,
		n.state.DirectionFrom(pos))

	t := timestep.New(timestep.Mid, 0, n.config.Discount, n.observe(),
		n.prevStep.Number+1)
	last := n.task.End(&t)
	if last {
		reward.Terminal = n.task.Terminal(t.Outcome())
	}
	t.Reward = reward.Total()

	n.lastReward = reward
	n.episodeReturn += t.Reward
	n.diagnostics.Steps++

	if !last {
		n.prevStep = t
		return t, false
	}

	outcome := t.Outcome()
	n.diagnostics.Outcomes[outcome]++
	n.logger.Debug("episode ended",
		zap.Int("episode", n.diagnostics.Episodes),
		zap.Stringer("outcome", outcome),
		zap.Int("steps", t.Number),
		zap.Float64("return", n.episodeReturn),
	)

	if outcome == timestep.ReachedTarget {
		n.relocateTarget = true
	}
	n.beginEpisode()

	return t, true
}

// observe returns the current observation
func (n *Navigation) observe() *mat.VecDense {
	extra := n.perception.Len()
	obs := make([]float64, CoreObservations, CoreObservations+extra)

	vel := n.physics.Velocity(n.agent)
	obs[0], obs[1] = vel.X, vel.Y

	if _, ok := n.state.Target(); ok {
		pos := n.physics.Position(n.agent)
		dir := n.state.DirectionFrom(pos)
		obs[2], obs[3] = dir.X, dir.Y
		obs[4] = n.state.DistanceFrom(pos)
	}

	features := n.perception.Perceive()
	if len(features) != extra {
		panic(fmt.Sprintf("observe: illegal number of perception "+
			"features \n\twant(%v) \n\thave(%v)", extra, len(features)))
	}
	obs = append(obs, features...)

	return mat.NewVecDense(len(obs), obs)
}

// CurrentTimeStep returns the current TimeStep of the environment
func (n *Navigation) CurrentTimeStep() timestep.TimeStep {
	return n.prevStep
}

// State returns the state of the current episode
func (n *Navigation) State() *State {
	return n.state
}

// LastReward returns the terms of the reward of the last step taken.
// After a step which ends an episode, it holds that step's terms until
// the next step, even though the next episode has already begun.
func (n *Navigation) LastReward() Breakdown {
	return n.lastReward
}

// Config returns the configuration of the environment
func (n *Navigation) Config() Config {
	return n.config
}

// Diagnostics returns the environment's counters
func (n *Navigation) Diagnostics() Diagnostics {
	d := n.diagnostics
	d.Outcomes = maps.Clone(n.diagnostics.Outcomes)
	return d
}

// RewardSpec returns the reward specification of the environment
func (n *Navigation) RewardSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)

	return environment.NewSpec(shape, environment.Reward,
		environment.Unbounded(1, -1), environment.Unbounded(1, 1),
		environment.Continuous)
}

// DiscountSpec returns the discount specification of the environment
func (n *Navigation) DiscountSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{n.config.Discount})

	return environment.NewSpec(shape, environment.Discount, bound, bound,
		environment.Continuous)
}

// ObservationSpec returns the observation specification of the
// environment. Perception features are reported as unbounded.
func (n *Navigation) ObservationSpec() environment.Spec {
	size := CoreObservations + n.perception.Len()
	shape := mat.NewVecDense(size, nil)

	lowerBound := environment.Unbounded(size, -1)
	upperBound := environment.Unbounded(size, 1)
	for i := 2; i < 4; i++ {
		lowerBound.SetVec(i, -1)
		upperBound.SetVec(i, 1)
	}
	lowerBound.SetVec(4, 0)

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}

// ActionSpec returns the action specification of the environment
func (n *Navigation) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims, []float64{MinAction, MinAction})
	upperBound := mat.NewVecDense(ActionDims, []float64{MaxAction, MaxAction})

	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Continuous)
}
