// Package behavior moves the agents between steps. The spatial index treats
// this as an opaque position update; it only needs to be told where each
// enemy ended up.
package behavior

import (
	"math/rand/v2"

	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/geometry"
)

// Settings controls the movement constants for the simulation.
// Passing this into the step functions allows changing rules at runtime.
type Settings struct {
	MapWidth      float64 // side of the square world
	EnemySpeed    float64 // world units per second
	FriendlySpeed float64 // world units per second
	ArrivalRadius float64 // an enemy this close to its target picks a new one
	DeltaTime     float64 // seconds per step
}

// RandomPosition returns a uniformly distributed point in [0, width)².
func RandomPosition(r *rand.Rand, width float64) geometry.Vector2D {
	return geometry.Vector2D{
		X: r.Float64() * width,
		Y: r.Float64() * width,
	}
}

// Wanderer walks toward a random target and draws a new target whenever it
// arrives. Enemies wander.
type Wanderer struct {
	Target geometry.Vector2D
}

// NewWanderer creates a wanderer with a fresh random target.
func NewWanderer(r *rand.Rand, width float64) Wanderer {
	return Wanderer{Target: RandomPosition(r, width)}
}

// Step returns the position reached from pos after one step.
func (w *Wanderer) Step(pos geometry.Vector2D, r *rand.Rand, s Settings) geometry.Vector2D {
	if pos.DistanceSquaredTo(w.Target) < s.ArrivalRadius*s.ArrivalRadius {
		w.Target = RandomPosition(r, s.MapWidth)
	}
	return pos.MoveTowards(w.Target, s.EnemySpeed*s.DeltaTime).Clamp(s.MapWidth)
}

// Chase returns the position a friendly reaches when walking toward target
// for one step. It never overshoots the target.
func Chase(pos, target geometry.Vector2D, s Settings) geometry.Vector2D {
	return pos.MoveTowards(target, s.FriendlySpeed*s.DeltaTime).Clamp(s.MapWidth)
}
