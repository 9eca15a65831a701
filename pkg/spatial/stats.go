package spatial

import (
	"fmt"
)

// GridStats describes cell occupancy, for debugging and profiling.
type GridStats struct {
	Dim            int
	TotalCells     int
	NonEmptyCells  int
	Enemies        int
	MaxInCell      int
	AvgPerNonEmpty float64
	Counters       Counters
}

// Stats walks every cell and reports occupancy.
func (g *Grid) Stats() GridStats {
	var total, maxInCell, nonEmpty int
	for i := range g.cells {
		n := len(g.cells[i].members)
		total += n
		if n > maxInCell {
			maxInCell = n
		}
		if n > 0 {
			nonEmpty++
		}
	}

	avg := 0.0
	if nonEmpty > 0 {
		avg = float64(total) / float64(nonEmpty)
	}

	return GridStats{
		Dim:            g.dim,
		TotalCells:     len(g.cells),
		NonEmptyCells:  nonEmpty,
		Enemies:        total,
		MaxInCell:      maxInCell,
		AvgPerNonEmpty: avg,
		Counters:       g.counters,
	}
}

// Occupancy returns the member count of every cell in row-major order.
// dst is reused when it has enough capacity.
func (g *Grid) Occupancy(dst []int) []int {
	dst = dst[:0]
	for i := range g.cells {
		dst = append(dst, len(g.cells[i].members))
	}
	return dst
}

// Validate checks the membership invariants: every registered enemy sits in
// exactly one cell, that cell matches its recorded position, and no cell
// holds duplicate or unknown ids. It is O(cells + enemies) and meant for
// tests and debug runs, not the hot path.
func (g *Grid) Validate() error {
	if g.dim == 0 {
		return ErrUninitialized
	}

	seen := 0
	for i := range g.cells {
		cell := &g.cells[i]
		for slot, id := range cell.members {
			e := g.lookup(id)
			if e == nil {
				return fmt.Errorf("%w: cell %s holds unknown id %d", ErrInconsistent, cell.coord, id)
			}
			if e.cell != cell.coord {
				return fmt.Errorf("%w: enemy %d found in %s but registered in %s", ErrInconsistent, id, cell.coord, e.cell)
			}
			if e.slot != slot {
				return fmt.Errorf("%w: enemy %d appears in %s at slot %d, expected slot %d (duplicate?)",
					ErrInconsistent, id, cell.coord, slot, e.slot)
			}
			if want := g.CellOf(e.pos); want != e.cell {
				return fmt.Errorf("%w: enemy %d at %s belongs in %s, registered in %s",
					ErrInconsistent, id, e.pos, want, e.cell)
			}
			seen++
		}
	}

	if seen != g.count {
		return fmt.Errorf("%w: %d enemies registered, %d found in cells", ErrInconsistent, g.count, seen)
	}
	return nil
}
