// Package plane implements a navigation.Physics service on a horizontal
// plane using Box2D.
//
// Box2D simulates the plane from above: the Box2D X axis is the world X
// axis and the Box2D Y axis is the world Z axis. Heights are not
// simulated by Box2D. Every entity keeps the height it was created at,
// except the agent, which falls under gravity once its centre leaves the
// floor.
package plane

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/ByteArena/box2d"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/samuelfneumann/spherenav/environment/navigation"
	"github.com/samuelfneumann/spherenav/utils/randutils"
)

// WallThickness is the half thickness of the arena walls
const WallThickness float64 = 0.5

// bodyInfo is attached to every Box2D body as user data
type bodyInfo struct {
	entity   navigation.Entity
	category navigation.Category
	height   float64
}

// pillar is a fixed obstacle which oscillates about its base position
type pillar struct {
	entity navigation.Entity
	base   box2d.B2Vec2
	axis   box2d.B2Vec2
	speed  float64
	dist   float64
}

// contactDetector forwards contacts involving the agent to the
// registered navigation.ContactListener
type contactDetector struct {
	world *World
}

func (c *contactDetector) BeginContact(contact box2d.B2ContactInterface) {
	if c.world.listener == nil {
		return
	}

	a := contact.GetFixtureA().GetBody()
	b := contact.GetFixtureB().GetBody()
	var other *box2d.B2Body
	switch c.world.agent {
	case a:
		other = b
	case b:
		other = a
	default:
		return
	}

	info, ok := other.GetUserData().(*bodyInfo)
	if !ok {
		c.world.listener.BeginContact(navigation.Untagged)
		return
	}
	c.world.listener.BeginContact(info.category)
}

func (c *contactDetector) EndContact(contact box2d.B2ContactInterface) {}

func (c *contactDetector) PreSolve(contact box2d.B2ContactInterface,
	oldManifold box2d.B2Manifold) {
}

func (c *contactDetector) PostSolve(contact box2d.B2ContactInterface,
	impulse *box2d.B2ContactImpulse) {
}

// World implements navigation.Physics with a Box2D world
type World struct {
	config Config
	logger *zap.Logger

	world box2d.B2World

	bodies map[navigation.Entity]*box2d.B2Body
	next   navigation.Entity

	agent     *box2d.B2Body
	agentID   navigation.Entity
	fallSpeed float64
	target    *box2d.B2Body
	targetID  navigation.Entity
	walls     []*box2d.B2Body
	fixed     []navigation.Entity
	pillars   []pillar
	listener  navigation.ContactListener
	time      float64
}

// New returns a new World. The seed determines the axis along which each
// oscillating fixed obstacle moves.
func New(c Config, seed uint64, logger *zap.Logger) (*World, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &World{
		config: c,
		logger: logger,
		world:  box2d.MakeB2World(box2d.MakeB2Vec2(0, 0)),
		bodies: make(map[navigation.Entity]*box2d.B2Body),
	}
	w.world.SetContactListener(&contactDetector{w})

	if c.Walls {
		w.createWalls()
	}

	w.agentID, w.agent = w.createAgent()

	if c.Target {
		w.targetID, w.target = w.createTarget()
	}

	rng := randutils.New(seed, "plane.pillars")
	for _, f := range c.Fixed {
		e := w.createFixed(f, rng)
		w.fixed = append(w.fixed, e)
	}

	return w, nil
}

// register records b as a new entity of category c at the given height
func (w *World) register(b *box2d.B2Body, c navigation.Category,
	height float64) navigation.Entity {
	w.next++
	b.SetUserData(&bodyInfo{entity: w.next, category: c, height: height})
	w.bodies[w.next] = b
	return w.next
}

func (w *World) createWalls() {
	h := w.config.ArenaHalfSize + WallThickness
	centres := []box2d.B2Vec2{
		box2d.MakeB2Vec2(0, h),
		box2d.MakeB2Vec2(0, -h),
		box2d.MakeB2Vec2(h, 0),
		box2d.MakeB2Vec2(-h, 0),
	}

	w.walls = make([]*box2d.B2Body, 0, len(centres))
	for i, centre := range centres {
		wallDef := box2d.MakeB2BodyDef()
		wallDef.Type = 0 // Static body
		wallDef.Position = centre
		wall := w.world.CreateBody(&wallDef)

		wallShape := box2d.NewB2PolygonShape()
		if i < 2 {
			wallShape.SetAsBox(h+WallThickness, WallThickness)
		} else {
			wallShape.SetAsBox(WallThickness, h+WallThickness)
		}

		wallFix := box2d.MakeB2FixtureDef()
		wallFix.Shape = wallShape
		wallFix.Friction = 0.1
		wall.CreateFixtureFromDef(&wallFix)

		w.register(wall, navigation.Wall, 0)
		w.walls = append(w.walls, wall)
	}
}

func (w *World) createAgent() (navigation.Entity, *box2d.B2Body) {
	c := w.config

	agentDef := box2d.MakeB2BodyDef()
	agentDef.Type = 2 // Dynamic body
	agentDef.Position = box2d.MakeB2Vec2(c.AgentStart.X, c.AgentStart.Z)
	agentDef.LinearDamping = c.LinearDamping
	agentDef.FixedRotation = true
	agentDef.AllowSleep = false
	agentDef.Bullet = true
	agent := w.world.CreateBody(&agentDef)

	agentShape := box2d.NewB2CircleShape()
	agentShape.M_radius = c.AgentRadius

	agentFix := box2d.MakeB2FixtureDef()
	agentFix.Shape = agentShape
	agentFix.Density = c.AgentDensity
	agentFix.Friction = 0.1
	agent.CreateFixtureFromDef(&agentFix)

	return w.register(agent, navigation.Untagged, c.AgentHeight), agent
}

func (w *World) createTarget() (navigation.Entity, *box2d.B2Body) {
	c := w.config

	targetDef := box2d.MakeB2BodyDef()
	targetDef.Type = 0 // Static body
	targetDef.Position = box2d.MakeB2Vec2(c.TargetStart.X, c.TargetStart.Z)
	target := w.world.CreateBody(&targetDef)

	targetShape := box2d.NewB2CircleShape()
	targetShape.M_radius = c.TargetRadius

	targetFix := box2d.MakeB2FixtureDef()
	targetFix.Shape = targetShape
	targetFix.IsSensor = true
	target.CreateFixtureFromDef(&targetFix)

	return w.register(target, navigation.Target, c.TargetHeight), target
}

// createBox creates a box obstacle of the given half size. Moving boxes
// are kinematic so that they push the agent without being pushed back.
func (w *World) createBox(p box2d.B2Vec2, halfSize float64,
	moving bool) *box2d.B2Body {
	boxDef := box2d.MakeB2BodyDef()
	boxDef.Type = 0 // Static body
	if moving {
		boxDef.Type = 1 // Kinematic body
	}
	boxDef.Position = p
	box := w.world.CreateBody(&boxDef)

	boxShape := box2d.NewB2PolygonShape()
	boxShape.SetAsBox(halfSize, halfSize)

	boxFix := box2d.MakeB2FixtureDef()
	boxFix.Shape = boxShape
	boxFix.Friction = 0.1
	box.CreateFixtureFromDef(&boxFix)

	return box
}

// createFixed creates a fixed obstacle, choosing a random signed world
// axis for it to oscillate along if it moves
func (w *World) createFixed(f FixedObstacle,
	rng *rand.Rand) navigation.Entity {
	base := box2d.MakeB2Vec2(f.Position.X, f.Position.Z)
	box := w.createBox(base, f.HalfSize, f.Oscillates())
	e := w.register(box, navigation.Obstacle, f.Height)

	if f.Oscillates() {
		axis := box2d.MakeB2Vec2(1, 0)
		if rng.IntN(2) == 0 {
			axis = box2d.MakeB2Vec2(0, 1)
		}
		if rng.IntN(2) == 0 {
			axis = box2d.MakeB2Vec2(-axis.X, -axis.Y)
		}
		w.pillars = append(w.pillars, pillar{
			entity: e,
			base:   base,
			axis:   axis,
			speed:  f.Speed,
			dist:   f.Distance,
		})
	}
	return e
}

// body returns the body of entity e, panicking if there is none
func (w *World) body(e navigation.Entity) *box2d.B2Body {
	b, ok := w.bodies[e]
	if !ok {
		panic(fmt.Sprintf("body: no entity %v", e))
	}
	return b
}

// Agent returns the agent entity
func (w *World) Agent() navigation.Entity {
	return w.agentID
}

// Target returns the target entity, or false if the World has no target
func (w *World) Target() (navigation.Entity, bool) {
	return w.targetID, w.target != nil
}

// Fixed returns the fixed obstacles, including oscillating ones
func (w *World) Fixed() []navigation.Entity {
	return w.fixed
}

// Spawn creates a static obstacle at p. Only obstacles can be spawned.
func (w *World) Spawn(c navigation.Category,
	p r3.Vec) (navigation.Entity, error) {
	if c != navigation.Obstacle || w.config.ObstacleHalfSize == 0 {
		return navigation.NoEntity, fmt.Errorf("spawn: %v template: %w",
			c, navigation.ErrMissingEntity)
	}

	box := w.createBox(box2d.MakeB2Vec2(p.X, p.Z), w.config.ObstacleHalfSize,
		false)
	return w.register(box, navigation.Obstacle, p.Y), nil
}

// Destroy removes entity e from the World
func (w *World) Destroy(e navigation.Entity) {
	b := w.body(e)
	if b == w.agent || b == w.target {
		panic(fmt.Sprintf("destroy: cannot destroy entity %v", e))
	}
	w.world.DestroyBody(b)
	delete(w.bodies, e)
}

// ApplyForce applies a force to the centre of e. The vertical component
// of the force is ignored.
func (w *World) ApplyForce(e navigation.Entity, force r3.Vec) {
	w.body(e).ApplyForceToCenter(box2d.MakeB2Vec2(force.X, force.Z), true)
}

// Velocity returns the planar velocity of e
func (w *World) Velocity(e navigation.Entity) r2.Vec {
	v := w.body(e).GetLinearVelocity()
	return r2.Vec{X: v.X, Y: v.Y}
}

// Position returns the position of e
func (w *World) Position(e navigation.Entity) r3.Vec {
	b := w.body(e)
	p := b.GetPosition()
	return r3.Vec{X: p.X, Y: b.GetUserData().(*bodyInfo).height, Z: p.Y}
}

// SetPosition moves e to p
func (w *World) SetPosition(e navigation.Entity, p r3.Vec) {
	b := w.body(e)
	b.SetTransform(box2d.MakeB2Vec2(p.X, p.Z), 0)
	b.GetUserData().(*bodyInfo).height = p.Y
	if b == w.agent {
		w.fallSpeed = 0
	}
}

// ZeroMotion stops e
func (w *World) ZeroMotion(e navigation.Entity) {
	b := w.body(e)
	b.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
	b.SetAngularVelocity(0)
	if b == w.agent {
		w.fallSpeed = 0
	}
}

// SetContactListener registers l to receive the agent's contacts
func (w *World) SetContactListener(l navigation.ContactListener) {
	w.listener = l
}

// OnFloor returns whether the planar position p is above the floor
func (w *World) OnFloor(p r2.Vec) bool {
	h := w.config.ArenaHalfSize
	return math.Abs(p.X) <= h && math.Abs(p.Y) <= h
}

// Step advances the simulation by one tick
func (w *World) Step() {
	dt := w.config.TimeStep

	for _, p := range w.pillars {
		// Kinematic bodies are driven by velocity toward where the
		// oscillation places them at the end of the tick, which keeps
		// them from drifting off their track
		offset := math.Sin((w.time+dt)*p.speed) * p.dist
		next := box2d.MakeB2Vec2(p.base.X+p.axis.X*offset,
			p.base.Y+p.axis.Y*offset)
		body := w.body(p.entity)
		current := body.GetPosition()
		body.SetLinearVelocity(box2d.MakeB2Vec2((next.X-current.X)/dt,
			(next.Y-current.Y)/dt))
	}

	w.world.Step(dt, w.config.VelocityIterations, w.config.PositionIterations)
	w.time += dt

	pos := w.agent.GetPosition()
	info := w.agent.GetUserData().(*bodyInfo)
	if !w.OnFloor(r2.Vec{X: pos.X, Y: pos.Y}) {
		if w.fallSpeed == 0 {
			w.logger.Debug("agent left the floor",
				zap.Float64("x", pos.X), zap.Float64("z", pos.Y))
		}
		w.fallSpeed += w.config.Gravity * dt
		info.height -= w.fallSpeed * dt
	}
}

// Time returns the simulated time in seconds
func (w *World) Time() float64 {
	return w.time
}

// Config returns the configuration of the World
func (w *World) Config() Config {
	return w.config
}
