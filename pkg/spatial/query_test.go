package spatial

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/geometry"
)

type point struct {
	id  ID
	pos geometry.Vector2D
}

func (p point) EnemyID() ID                 { return p.id }
func (p point) Position() geometry.Vector2D { return p.pos }

func fill(t testing.TB, g *Grid, pts []geometry.Vector2D) []point {
	t.Helper()
	out := make([]point, len(pts))
	for i, p := range pts {
		if err := g.Insert(ID(i), p); err != nil {
			t.Fatalf("Insert(%d, %v): %v", i, p, err)
		}
		out[i] = point{id: ID(i), pos: p}
	}
	return out
}

func randomPoints(r *rand.Rand, n int, width float64) []geometry.Vector2D {
	pts := make([]geometry.Vector2D, n)
	for i := range pts {
		pts[i] = geometry.Vector2D{X: r.Float64() * width, Y: r.Float64() * width}
	}
	return pts
}

func TestFindNearestEnemy_Empty(t *testing.T) {
	g := mustGrid(t, 50, 10)
	hit, ok := g.FindNearestEnemy(geometry.Vector2D{X: 25, Y: 25}, NoID)
	if ok {
		t.Errorf("empty grid returned %+v", hit)
	}
	if hit.ID != NoID {
		t.Errorf("empty result ID = %d; want NoID", hit.ID)
	}

	if _, ok := NearestLinear(geometry.Vector2D{}, []point(nil), NoID); ok {
		t.Errorf("NearestLinear over no enemies returned a hit")
	}
}

func TestFindNearestEnemy_OppositeCorners(t *testing.T) {
	g := mustGrid(t, 50, 10)
	fill(t, g, []geometry.Vector2D{
		{X: 0.5, Y: 0.5},   // A
		{X: 49.5, Y: 49.5}, // B
	})

	hit, ok := g.FindNearestEnemy(geometry.Vector2D{X: 0, Y: 0}, NoID)
	if !ok || hit.ID != 0 {
		t.Fatalf("query (0,0) = %+v, %v; want enemy A", hit, ok)
	}
	if hit.DistSq != 0.5 {
		t.Errorf("query (0,0) squared distance = %v; want 0.5", hit.DistSq)
	}

	hit, ok = g.FindNearestEnemy(geometry.Vector2D{X: 49, Y: 49}, NoID)
	if !ok || hit.ID != 1 {
		t.Errorf("query (49,49) = %+v, %v; want enemy B", hit, ok)
	}
}

func TestFindNearestEnemy_Equidistant(t *testing.T) {
	g := mustGrid(t, 50, 10)
	pts := fill(t, g, []geometry.Vector2D{{X: 1, Y: 0}, {X: 0, Y: 1}})
	q := geometry.Vector2D{X: 0, Y: 0}

	gridHit, ok := g.FindNearestEnemy(q, NoID)
	if !ok || gridHit.DistSq != 1.0 {
		t.Errorf("grid = %+v, %v; want distance 1", gridHit, ok)
	}
	linHit, ok := NearestLinear(q, pts, NoID)
	if !ok || linHit.DistSq != 1.0 {
		t.Errorf("linear = %+v, %v; want distance 1", linHit, ok)
	}
	if gridHit.Distance() != 1.0 || linHit.Distance() != 1.0 {
		t.Errorf("Distance() = %v / %v; want 1", gridHit.Distance(), linHit.Distance())
	}
}

func TestFindNearestEnemy_AcrossCellBoundary(t *testing.T) {
	g := mustGrid(t, 50, 10)
	// query in cell [0,0], single enemy just inside cell [1,0]
	fill(t, g, []geometry.Vector2D{{X: 10.01, Y: 5}})

	hit, ok := g.FindNearestEnemy(geometry.Vector2D{X: 9.99, Y: 5}, NoID)
	if !ok || hit.ID != 0 {
		t.Fatalf("got %+v, %v; want the enemy one ring away", hit, ok)
	}
	if math.Abs(hit.Distance()-0.02) > 1e-9 {
		t.Errorf("distance = %v; want 0.02", hit.Distance())
	}
}

// A near-ring candidate sitting in its cell's far corner must lose to a
// closer enemy that is only reachable two rings out.
func TestFindNearestEnemy_FartherRingCanBeCloser(t *testing.T) {
	g := mustGrid(t, 100, 10)
	q := geometry.Vector2D{X: 9.9, Y: 0.1} // cell [0,0], on its right edge

	fill(t, g, []geometry.Vector2D{
		{X: 0.1, Y: 19.9},  // cell [0,1], ring 1, distance ~22.1
		{X: 29.0, Y: 0.1},  // cell [2,0], ring 2, distance 19.1
		{X: 90.0, Y: 90.0}, // far away
	})

	hit, ok := g.FindNearestEnemy(q, NoID)
	if !ok || hit.ID != 1 {
		t.Errorf("got %+v, %v; want enemy 1 from ring 2", hit, ok)
	}
}

func TestFindNearestEnemy_Exclude(t *testing.T) {
	g := mustGrid(t, 50, 10)
	fill(t, g, []geometry.Vector2D{{X: 5, Y: 5}, {X: 40, Y: 40}})

	hit, ok := g.FindNearestEnemy(geometry.Vector2D{X: 5, Y: 5}, 0)
	if !ok || hit.ID != 1 {
		t.Errorf("excluding 0 got %+v, %v; want enemy 1", hit, ok)
	}

	single := mustGrid(t, 50, 10)
	fill(t, single, []geometry.Vector2D{{X: 5, Y: 5}})
	if hit, ok := single.FindNearestEnemy(geometry.Vector2D{X: 5, Y: 5}, 0); ok {
		t.Errorf("excluding the only enemy returned %+v", hit)
	}
}

func TestFindNearestEnemy_Boundaries(t *testing.T) {
	const width = 50.0
	g := mustGrid(t, width, 10)
	r := rand.New(rand.NewPCG(3, 5))
	pts := fill(t, g, randomPoints(r, 25, width))

	eps := math.Nextafter(width, 0)
	queries := []geometry.Vector2D{
		{X: 0, Y: 0},
		{X: eps, Y: eps},
		{X: 0, Y: eps},
		{X: eps, Y: 0},
		{X: 10, Y: 10},
		{X: 20, Y: 30},
		{X: 40, Y: 0},
		{X: 25, Y: width},
		{X: -5, Y: 60}, // outside the world, still answered
	}

	for _, q := range queries {
		want, _ := NearestLinear(q, pts, NoID)
		got, ok := g.FindNearestEnemy(q, NoID)
		if !ok || got.DistSq != want.DistSq {
			t.Errorf("query %v: grid %+v, linear %+v", q, got, want)
		}
	}
}

func TestFindNearestEnemy_OracleEquivalence(t *testing.T) {
	configs := []struct {
		name     string
		width    float64
		cellSize int
		enemies  int
	}{
		{"reference demo", 50, 10, 300},
		{"sparse", 50, 10, 3},
		{"single enemy", 50, 10, 1},
		{"fine cells", 50, 1, 120},
		{"coarse cells", 50, 40, 80},
		{"uneven last cell", 47, 10, 60},
		{"large world", 1000, 25, 500},
	}

	for _, cfg := range configs {
		t.Run(cfg.name, func(t *testing.T) {
			r := rand.New(rand.NewPCG(42, uint64(cfg.enemies)))
			g := mustGrid(t, cfg.width, cfg.cellSize)
			pts := fill(t, g, randomPoints(r, cfg.enemies, cfg.width))

			for i := 0; i < 500; i++ {
				q := geometry.Vector2D{X: r.Float64() * cfg.width, Y: r.Float64() * cfg.width}
				want, wantOK := NearestLinear(q, pts, NoID)
				got, gotOK := g.FindNearestEnemy(q, NoID)
				if gotOK != wantOK || got.DistSq != want.DistSq {
					t.Fatalf("query %v: grid %+v (%v), linear %+v (%v)", q, got, gotOK, want, wantOK)
				}
			}
		})
	}
}

func TestFindNearestEnemy_OracleAfterMoves(t *testing.T) {
	const width = 50.0
	r := rand.New(rand.NewPCG(9, 9))
	g := mustGrid(t, width, 10)
	pts := fill(t, g, randomPoints(r, 150, width))

	for step := 0; step < 30; step++ {
		for i := range pts {
			next := pts[i].pos.Add(geometry.Vector2D{X: r.NormFloat64(), Y: r.NormFloat64()}).Clamp(width)
			if err := g.Relocate(pts[i].id, pts[i].pos, next); err != nil {
				t.Fatalf("Relocate: %v", err)
			}
			pts[i].pos = next
		}

		for i := 0; i < 50; i++ {
			q := geometry.Vector2D{X: r.Float64() * width, Y: r.Float64() * width}
			exclude := ID(r.IntN(len(pts)))
			want, _ := NearestLinear(q, pts, exclude)
			got, ok := g.FindNearestEnemy(q, exclude)
			if !ok || got.DistSq != want.DistSq || got.ID == exclude {
				t.Fatalf("step %d query %v excluding %d: grid %+v, linear %+v", step, q, exclude, got, want)
			}
		}
	}
}

func TestScanRing_VisitsEachCellOnce(t *testing.T) {
	g := mustGrid(t, 70, 10) // 7x7
	for i := 0; i < g.Dim()*g.Dim(); i++ {
		c := CellCoord{X: i % g.Dim(), Z: i / g.Dim()}
		centre := geometry.Vector2D{X: (float64(c.X) + 0.5) * 10, Y: (float64(c.Z) + 0.5) * 10}
		if err := g.Insert(ID(i), centre); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	for _, center := range []CellCoord{{3, 3}, {0, 0}, {6, 2}, {1, 5}} {
		total := 0
		for r := 0; r < g.Dim(); r++ {
			// a sentinel best that nothing beats, so every member gets counted
			best := Hit{ID: NoID, DistSq: -1}
			found := false
			before := g.Counters().CandidatesSeen
			g.scanRing(center, r, geometry.Vector2D{}, NoID, &best, &found)
			seen := int(g.Counters().CandidatesSeen - before)

			inRing := 0
			for i := 0; i < g.Dim()*g.Dim(); i++ {
				c := CellCoord{X: i % g.Dim(), Z: i / g.Dim()}
				if c.chebyshev(center) == r {
					inRing++
				}
			}
			if seen != inRing {
				t.Errorf("center %v ring %d scanned %d cells; want %d", center, r, seen, inRing)
			}
			if found {
				t.Errorf("center %v ring %d: sentinel best was replaced", center, r)
			}
			total += seen
		}
		if total != g.Dim()*g.Dim() {
			t.Errorf("center %v: rings covered %d cells; want %d", center, total, g.Dim()*g.Dim())
		}
	}
}

func TestNearestLinear_TieKeepsFirst(t *testing.T) {
	pts := []point{
		{id: 7, pos: geometry.Vector2D{X: 1, Y: 0}},
		{id: 3, pos: geometry.Vector2D{X: 0, Y: 1}},
	}
	hit, ok := NearestLinear(geometry.Vector2D{}, pts, NoID)
	if !ok || hit.ID != 7 {
		t.Errorf("tie resolved to %+v; want first item (7)", hit)
	}
}

func benchWorld(b *testing.B, n int) (*Grid, []point, []geometry.Vector2D) {
	b.Helper()
	const width = 50.0
	r := rand.New(rand.NewPCG(1, 1))
	g := mustGrid(b, width, 10)
	pts := fill(b, g, randomPoints(r, n, width))
	return g, pts, randomPoints(r, 1024, width)
}

func BenchmarkFindNearestEnemy_Grid(b *testing.B) {
	g, _, queries := benchWorld(b, 300)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.FindNearestEnemy(queries[i%len(queries)], NoID)
	}
}

func BenchmarkFindNearestEnemy_Linear(b *testing.B) {
	_, pts, queries := benchWorld(b, 300)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		NearestLinear(queries[i%len(queries)], pts, NoID)
	}
}

func BenchmarkGrid_Relocate(b *testing.B) {
	g, pts, targets := benchWorld(b, 300)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := &pts[i%len(pts)]
		next := targets[i%len(targets)]
		if err := g.Relocate(p.id, p.pos, next); err != nil {
			b.Fatal(err)
		}
		p.pos = next
	}
}
