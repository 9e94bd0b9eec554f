package plane

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"

	"github.com/samuelfneumann/spherenav/environment/navigation"
)

// FeaturesPerRay is the number of features produced for each ray
const FeaturesPerRay int = 3

// RayPerception casts rays from the agent's centre, evenly spaced around
// it starting along the world X axis. Each ray produces the features:
//
//  1. The fraction of the ray's length at which it first hits something,
//     or 1 if it hits nothing
//  2. 1 if the first hit is an obstacle or a wall, 0 otherwise
//  3. 1 if the first hit is the target, 0 otherwise
//
// RayPerception implements navigation.Perception.
type RayPerception struct {
	world  *World
	rays   int
	length float64

	directions []box2d.B2Vec2
}

// NewRayPerception returns a new RayPerception casting rays of the given
// length
func NewRayPerception(w *World, rays int, length float64) *RayPerception {
	if rays < 0 {
		panic(fmt.Sprintf("newRayPerception: number of rays must be "+
			"non-negative but got %v", rays))
	}
	if rays > 0 && length <= 0 {
		panic(fmt.Sprintf("newRayPerception: ray length must be "+
			"positive but got %v", length))
	}

	directions := make([]box2d.B2Vec2, rays)
	for i := range directions {
		angle := 2 * math.Pi * float64(i) / float64(rays)
		directions[i] = box2d.MakeB2Vec2(math.Cos(angle), math.Sin(angle))
	}

	return &RayPerception{
		world:      w,
		rays:       rays,
		length:     length,
		directions: directions,
	}
}

// Len returns the number of features produced
func (r *RayPerception) Len() int {
	return r.rays * FeaturesPerRay
}

// Perceive casts every ray and returns the resulting features
func (r *RayPerception) Perceive() []float64 {
	features := make([]float64, 0, r.Len())

	origin := r.world.agent.GetPosition()
	for _, dir := range r.directions {
		end := box2d.MakeB2Vec2(origin.X+dir.X*r.length,
			origin.Y+dir.Y*r.length)

		closest := 1.0
		category := navigation.Untagged
		r.world.world.RayCast(func(fixture *box2d.B2Fixture,
			point, normal box2d.B2Vec2, fraction float64) float64 {
			if fixture.GetBody() == r.world.agent {
				// Filter the agent out and continue
				return -1
			}
			closest = fraction
			category = navigation.Untagged
			if info, ok := fixture.GetBody().GetUserData().(*bodyInfo); ok {
				category = info.category
			}

			// Clip the ray so that only closer fixtures are reported
			return fraction
		}, origin, end)

		var hitObstacle, hitTarget float64
		switch category {
		case navigation.Obstacle, navigation.Wall:
			hitObstacle = 1
		case navigation.Target:
			hitTarget = 1
		}
		features = append(features, closest, hitObstacle, hitTarget)
	}
	return features
}
