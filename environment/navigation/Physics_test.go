package navigation

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

type fakeBody struct {
	category Category
	pos      r3.Vec
	vel      r2.Vec
}

// fakePhysics is a Physics service whose motion is scripted by tests
type fakePhysics struct {
	bodies map[Entity]*fakeBody
	next   Entity

	agent     Entity
	target    Entity
	hasTarget bool
	fixed     []Entity

	noTemplate bool
	spawns     int
	destroyed  []Entity

	listener ContactListener
	forces   []r3.Vec

	// onStep runs on every Step, after which the agent's velocity is
	// added to its position
	onStep func(f *fakePhysics)
}

func newFakePhysics(agentStart r3.Vec, withTarget bool) *fakePhysics {
	f := &fakePhysics{bodies: make(map[Entity]*fakeBody)}
	f.agent = f.create(Untagged, agentStart)
	if withTarget {
		f.target = f.create(Target, r3.Vec{X: 5, Y: 0.75})
		f.hasTarget = true
	}
	return f
}

func (f *fakePhysics) create(c Category, p r3.Vec) Entity {
	f.next++
	f.bodies[f.next] = &fakeBody{category: c, pos: p}
	return f.next
}

func (f *fakePhysics) body(e Entity) *fakeBody {
	b, ok := f.bodies[e]
	if !ok {
		panic(fmt.Sprintf("fakePhysics: no entity %v", e))
	}
	return b
}

func (f *fakePhysics) addFixed(p r3.Vec) Entity {
	e := f.create(Obstacle, p)
	f.fixed = append(f.fixed, e)
	return e
}

// contact delivers a contact with an entity of category c
func (f *fakePhysics) contact(c Category) {
	f.listener.BeginContact(c)
}

func (f *fakePhysics) obstacleCount() int {
	count := 0
	for _, b := range f.bodies {
		if b.category == Obstacle {
			count++
		}
	}
	return count - len(f.fixed)
}

func (f *fakePhysics) Agent() Entity          { return f.agent }
func (f *fakePhysics) Target() (Entity, bool) { return f.target, f.hasTarget }
func (f *fakePhysics) Fixed() []Entity        { return f.fixed }

func (f *fakePhysics) Spawn(c Category, p r3.Vec) (Entity, error) {
	if f.noTemplate {
		return NoEntity, fmt.Errorf("spawn: %v template: %w", c,
			ErrMissingEntity)
	}
	f.spawns++
	return f.create(c, p), nil
}

func (f *fakePhysics) Destroy(e Entity) {
	f.body(e)
	delete(f.bodies, e)
	f.destroyed = append(f.destroyed, e)
}

func (f *fakePhysics) ApplyForce(e Entity, force r3.Vec) {
	f.body(e)
	f.forces = append(f.forces, force)
}

func (f *fakePhysics) Velocity(e Entity) r2.Vec       { return f.body(e).vel }
func (f *fakePhysics) Position(e Entity) r3.Vec       { return f.body(e).pos }
func (f *fakePhysics) SetPosition(e Entity, p r3.Vec) { f.body(e).pos = p }
func (f *fakePhysics) ZeroMotion(e Entity)            { f.body(e).vel = r2.Vec{} }

func (f *fakePhysics) SetContactListener(l ContactListener) {
	f.listener = l
}

func (f *fakePhysics) Step() {
	if f.onStep != nil {
		f.onStep(f)
	}
	agent := f.body(f.agent)
	agent.pos.X += agent.vel.X
	agent.pos.Z += agent.vel.Y
}

// fakePerception produces a constant feature vector
type fakePerception struct {
	features []float64
	length   int
}

func (p fakePerception) Len() int            { return p.length }
func (p fakePerception) Perceive() []float64 { return p.features }
