package spatial

import (
	"math"

	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/geometry"
)

// Hit is the answer to a nearest-enemy query.
type Hit struct {
	ID     ID
	DistSq float64 // squared Euclidean distance to the query point
}

// Distance returns the Euclidean distance of the hit.
func (h Hit) Distance() float64 {
	return math.Sqrt(h.DistSq)
}

// FindNearestEnemy returns the enemy closest to q, skipping exclude (pass
// NoID to consider everyone). ok is false when no enemy qualifies.
//
// Rings of cells at Chebyshev radius r = 0, 1, 2, ... around q's cell are
// scanned in order. Every cell not yet visited after ring r is at least
// r*cellSize away from q, so the search stops as soon as the best squared
// distance is within (r*cellSize)². It also stops once the rings cover the
// whole grid.
//
// Ties: the first candidate met in scan order wins. Within a ring the scan
// visits the low-z row, then the high-z row (both left to right), then the
// low-x and high-x columns; within a cell, storage order. This order is an
// implementation detail, callers must not depend on it.
//
// A zero-value Grid panics.
func (g *Grid) FindNearestEnemy(q geometry.Vector2D, exclude ID) (Hit, bool) {
	if g == nil || g.dim == 0 {
		panic("spatial: FindNearestEnemy on an uninitialized Grid")
	}
	g.counters.Queries++

	best := Hit{ID: NoID, DistSq: math.Inf(1)}
	if g.count == 0 {
		return best, false
	}

	center := g.CellOf(q)
	maxRing := max(center.X, center.Z, g.dim-1-center.X, g.dim-1-center.Z)

	found := false
	for r := 0; r <= maxRing; r++ {
		g.scanRing(center, r, q, exclude, &best, &found)
		if !found {
			continue
		}
		reach := float64(r) * g.cellSize
		if best.DistSq <= reach*reach {
			break
		}
	}

	if !found {
		return Hit{ID: NoID, DistSq: math.Inf(1)}, false
	}
	return best, true
}

// scanRing visits every in-bounds cell exactly r steps from center.
func (g *Grid) scanRing(center CellCoord, r int, q geometry.Vector2D, exclude ID, best *Hit, found *bool) {
	if r == 0 {
		g.scanCell(center, q, exclude, best, found)
		return
	}

	xLo := max(center.X-r, 0)
	xHi := min(center.X+r, g.dim-1)

	for _, z := range [2]int{center.Z - r, center.Z + r} {
		if z < 0 || z >= g.dim {
			continue
		}
		for x := xLo; x <= xHi; x++ {
			g.scanCell(CellCoord{X: x, Z: z}, q, exclude, best, found)
		}
	}

	zLo := max(center.Z-r+1, 0)
	zHi := min(center.Z+r-1, g.dim-1)

	for _, x := range [2]int{center.X - r, center.X + r} {
		if x < 0 || x >= g.dim {
			continue
		}
		for z := zLo; z <= zHi; z++ {
			g.scanCell(CellCoord{X: x, Z: z}, q, exclude, best, found)
		}
	}
}

func (g *Grid) scanCell(c CellCoord, q geometry.Vector2D, exclude ID, best *Hit, found *bool) {
	g.counters.CellsScanned++
	for _, id := range g.cellAt(c).members {
		if id == exclude {
			continue
		}
		g.counters.CandidatesSeen++
		d := q.DistanceSquaredTo(g.enemies[id].pos)
		if d < best.DistSq {
			best.ID = id
			best.DistSq = d
			*found = true
		}
	}
}
