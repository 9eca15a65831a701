package spatial

import "fmt"

// CellCoord addresses one cell of the grid. X follows the world x axis and
// Z the world z axis (geometry.Vector2D.Y).
type CellCoord struct {
	X, Z int
}

func (c CellCoord) String() string {
	return fmt.Sprintf("[%d,%d]", c.X, c.Z)
}

// chebyshev returns the ring radius separating c from other.
func (c CellCoord) chebyshev(other CellCoord) int {
	return max(abs(c.X-other.X), abs(c.Z-other.Z))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Cell is an unordered bucket of the enemies currently inside one square
// of the world. Members are kept in a dense slice; removal swaps the last
// member into the freed slot, so each enemy records its slot for O(1) removal.
type Cell struct {
	coord   CellCoord
	members []ID
}

// Coord returns the cell's own coordinate.
func (c *Cell) Coord() CellCoord { return c.coord }

// Len returns the number of enemies in the cell.
func (c *Cell) Len() int { return len(c.members) }

// Members returns a copy of the member ids in storage order.
func (c *Cell) Members() []ID {
	out := make([]ID, len(c.members))
	copy(out, c.members)
	return out
}

// add appends id and returns the slot it landed in.
func (c *Cell) add(id ID) int {
	c.members = append(c.members, id)
	return len(c.members) - 1
}

// remove drops the member at slot. When another member had to be moved into
// that slot its id is returned with ok set, so the caller can fix its slot.
func (c *Cell) remove(slot int) (moved ID, ok bool) {
	last := len(c.members) - 1
	if slot != last {
		moved = c.members[last]
		c.members[slot] = moved
		ok = true
	}
	c.members = c.members[:last]
	return moved, ok
}
