package navigation

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrMissingEntity is returned by a Physics service that lacks an entity
// or entity template it was asked for, such as a target or an obstacle
// template. Navigation degrades gracefully when it sees this error.
var ErrMissingEntity = errors.New("missing entity")

// Entity is an opaque handle to an entity owned by a Physics service
type Entity uint32

// NoEntity is the zero handle, referring to no entity
const NoEntity Entity = 0

// Category classifies entities. A Category is attached to an entity when
// it is created and is reported with every contact the agent makes with
// that entity.
type Category uint8

const (
	// Untagged entities, such as the floor, never affect an episode
	Untagged Category = iota
	Obstacle
	Wall
	Target
)

func (c Category) String() string {
	switch c {
	case Untagged:
		return "Untagged"
	case Obstacle:
		return "Obstacle"
	case Wall:
		return "Wall"
	case Target:
		return "Target"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// ContactListener receives discrete contact events between the agent
// and other entities
type ContactListener interface {
	BeginContact(other Category)
}

// Physics is the rigid-body and collision service which moves the agent.
// Positions are r3.Vec values with Y as the vertical axis. Velocities are
// planar with X the world X velocity and Y the world Z velocity.
//
// Contacts between the agent and other entities detected while stepping
// are delivered to the registered ContactListener from within Step.
type Physics interface {
	// Agent returns the agent entity
	Agent() Entity

	// Target returns the target entity, or false if there is none
	Target() (Entity, bool)

	// Fixed returns the obstacles which exist for the lifetime of the
	// service, such as manually placed obstacles or moving pillars
	Fixed() []Entity

	// Spawn creates a new entity of category c at p. Spawn returns an
	// error wrapping ErrMissingEntity if the service has no template
	// for entities of category c.
	Spawn(c Category, p r3.Vec) (Entity, error)
	Destroy(e Entity)

	ApplyForce(e Entity, force r3.Vec)
	Velocity(e Entity) r2.Vec
	Position(e Entity) r3.Vec
	SetPosition(e Entity, p r3.Vec)
	ZeroMotion(e Entity)

	SetContactListener(l ContactListener)

	// Step advances the simulation by one fixed tick
	Step()
}

// Perception produces a fixed-length feature vector which is appended
// to observations after the core features
type Perception interface {
	Len() int
	Perceive() []float64
}

// NoPerception is a Perception which produces no features
type NoPerception struct{}

func (NoPerception) Len() int            { return 0 }
func (NoPerception) Perceive() []float64 { return nil }
