// Package spatial provides the uniform grid used to answer "nearest enemy"
// queries among moving agents without scanning the whole population.
//
// Only enemies are indexed. Each enemy lives in exactly one Cell; the driver
// reports every position change through Relocate so the index never drifts.
// Queries expand square rings of cells around the query point and stop only
// once no unvisited cell can hold anything closer, so the answer is always
// the true nearest enemy.
//
// A Grid is not safe for concurrent use. Relocations for a step must finish
// before that step's queries start.
package spatial

import (
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/geometry"
)

// ID identifies an enemy. Ids are small non-negative integers handed out by
// the driver; the grid stores per-enemy state in a slice indexed by ID.
type ID int

// NoID is the "no exclusion" value for FindNearestEnemy.
const NoID ID = -1

// MaxCellsPerAxis bounds the grid to MaxCellsPerAxis² cells. New rejects
// dimensions that would need more.
const MaxCellsPerAxis = 1024

type enemy struct {
	pos     geometry.Vector2D
	cell    CellCoord
	slot    int
	present bool
}

// Counters accumulate the work done by a Grid since it was created.
type Counters struct {
	Relocations     uint64 // Relocate calls that succeeded
	CellTransitions uint64 // relocations that changed cell
	Queries         uint64 // FindNearestEnemy calls
	CellsScanned    uint64 // cells visited by queries
	CandidatesSeen  uint64 // enemies whose distance was computed by queries
}

// Grid is a fixed gridDim x gridDim array of Cells covering [0, mapWidth)².
// Cells are stored row-major: cells[z*dim+x].
type Grid struct {
	mapWidth float64
	cellSize float64
	dim      int
	cells    []Cell
	enemies  []enemy
	count    int
	counters Counters
}

// New allocates an empty grid of ceil(mapWidth/cellSize) cells per axis.
// More than MaxCellsPerAxis cells per axis is ErrInvalidDimensions.
func New(mapWidth float64, cellSize int) (*Grid, error) {
	if !(mapWidth > 0) || math.IsInf(mapWidth, 0) || cellSize <= 0 {
		return nil, fmt.Errorf("%w: mapWidth=%v cellSize=%d", ErrInvalidDimensions, mapWidth, cellSize)
	}

	cs := float64(cellSize)
	cellsPerAxis := math.Ceil(mapWidth / cs)
	if cellsPerAxis > MaxCellsPerAxis {
		return nil, fmt.Errorf("%w: mapWidth=%v cellSize=%d needs %.0f cells per axis, limit is %d",
			ErrInvalidDimensions, mapWidth, cellSize, cellsPerAxis, MaxCellsPerAxis)
	}
	dim := max(int(cellsPerAxis), 1)

	cells := make([]Cell, dim*dim)
	for z := 0; z < dim; z++ {
		for x := 0; x < dim; x++ {
			cells[z*dim+x].coord = CellCoord{X: x, Z: z}
		}
	}

	return &Grid{
		mapWidth: mapWidth,
		cellSize: cs,
		dim:      dim,
		cells:    cells,
	}, nil
}

// MapWidth returns the side length of the indexed world.
func (g *Grid) MapWidth() float64 { return g.mapWidth }

// CellSize returns the side length of one cell.
func (g *Grid) CellSize() float64 { return g.cellSize }

// Dim returns the number of cells per axis.
func (g *Grid) Dim() int { return g.dim }

// Len returns the number of indexed enemies.
func (g *Grid) Len() int { return g.count }

// Counters returns the work counters accumulated so far.
func (g *Grid) Counters() Counters { return g.counters }

// CellOf maps a world position to its cell, clamping each axis to
// [0, dim-1] so positions on or past the world edge stay addressable.
func (g *Grid) CellOf(pos geometry.Vector2D) CellCoord {
	return CellCoord{X: g.axisIndex(pos.X), Z: g.axisIndex(pos.Y)}
}

func (g *Grid) axisIndex(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	i := math.Floor(v / g.cellSize)
	if i >= float64(g.dim-1) {
		return g.dim - 1
	}
	return int(i)
}

func (g *Grid) inBounds(c CellCoord) bool {
	return c.X >= 0 && c.X < g.dim && c.Z >= 0 && c.Z < g.dim
}

func (g *Grid) cellAt(c CellCoord) *Cell {
	return &g.cells[c.Z*g.dim+c.X]
}

// Cell returns the cell at c, or nil when c lies outside the grid.
func (g *Grid) Cell(c CellCoord) *Cell {
	if g.dim == 0 || !g.inBounds(c) {
		return nil
	}
	return g.cellAt(c)
}

// Members returns a copy of the ids registered in cell c.
func (g *Grid) Members(c CellCoord) []ID {
	cell := g.Cell(c)
	if cell == nil {
		return nil
	}
	return cell.Members()
}

// CurrentCell returns the cell the enemy is registered in.
func (g *Grid) CurrentCell(id ID) (CellCoord, bool) {
	e := g.lookup(id)
	if e == nil {
		return CellCoord{}, false
	}
	return e.cell, true
}

// Position returns the last position recorded for the enemy.
func (g *Grid) Position(id ID) (geometry.Vector2D, bool) {
	e := g.lookup(id)
	if e == nil {
		return geometry.Vector2D{}, false
	}
	return e.pos, true
}

func (g *Grid) lookup(id ID) *enemy {
	if id < 0 || int(id) >= len(g.enemies) || !g.enemies[id].present {
		return nil
	}
	return &g.enemies[id]
}

// Insert registers a new enemy at pos. It is used once per enemy when the
// population is created.
func (g *Grid) Insert(id ID, pos geometry.Vector2D) error {
	if g.dim == 0 {
		return ErrUninitialized
	}
	if id < 0 {
		return fmt.Errorf("%w: %d", ErrUnknownEnemy, id)
	}
	if g.lookup(id) != nil {
		return fmt.Errorf("%w: %d", ErrDuplicateEnemy, id)
	}
	if int(id) >= len(g.enemies) {
		grown := make([]enemy, int(id)+1, max(int(id)+1, 2*len(g.enemies)))
		copy(grown, g.enemies)
		g.enemies = grown
	}

	c := g.CellOf(pos)
	g.enemies[id] = enemy{
		pos:     pos,
		cell:    c,
		slot:    g.cellAt(c).add(id),
		present: true,
	}
	g.count++
	return nil
}

// Relocate records that the enemy moved from oldPos to newPos. The new
// position and Counters.Relocations are always updated. When both positions
// map to the same cell, cell membership is left untouched. Otherwise the id
// moves from the old cell to the new one.
//
// oldPos must map to the enemy's registered cell, else ErrStaleCell is
// returned and nothing changes. The driver must call Relocate after every
// move, queries do not re-validate positions.
func (g *Grid) Relocate(id ID, oldPos, newPos geometry.Vector2D) error {
	if g.dim == 0 {
		return ErrUninitialized
	}
	e := g.lookup(id)
	if e == nil {
		return fmt.Errorf("%w: %d", ErrUnknownEnemy, id)
	}

	from := g.CellOf(oldPos)
	if from != e.cell {
		return fmt.Errorf("%w: enemy %d registered in %s, old position %s maps to %s",
			ErrStaleCell, id, e.cell, oldPos, from)
	}

	e.pos = newPos
	g.counters.Relocations++

	to := g.CellOf(newPos)
	if to == from {
		return nil
	}

	if moved, ok := g.cellAt(from).remove(e.slot); ok {
		g.enemies[moved].slot = e.slot
	}
	e.cell = to
	e.slot = g.cellAt(to).add(id)
	g.counters.CellTransitions++
	return nil
}

// Move is Relocate using the last recorded position as oldPos.
func (g *Grid) Move(id ID, newPos geometry.Vector2D) error {
	e := g.lookup(id)
	if e == nil {
		if g.dim == 0 {
			return ErrUninitialized
		}
		return fmt.Errorf("%w: %d", ErrUnknownEnemy, id)
	}
	return g.Relocate(id, e.pos, newPos)
}
