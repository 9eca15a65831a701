package spatial

import (
	"math"

	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/geometry"
)

// Positioned is anything the linear search can rank: an enemy id and where
// the enemy currently stands.
type Positioned interface {
	EnemyID() ID
	Position() geometry.Vector2D
}

// NearestLinear scans every item and returns the one closest to q, skipping
// exclude. It is the O(n) baseline the grid is measured against and the
// oracle its answers are checked with. Ties keep the earliest item.
func NearestLinear[T Positioned](q geometry.Vector2D, items []T, exclude ID) (Hit, bool) {
	best := Hit{ID: NoID, DistSq: math.Inf(1)}
	found := false

	for _, it := range items {
		id := it.EnemyID()
		if id == exclude {
			continue
		}
		if d := q.DistanceSquaredTo(it.Position()); d < best.DistSq {
			best = Hit{ID: id, DistSq: d}
			found = true
		}
	}
	return best, found
}
