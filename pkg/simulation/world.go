package simulation

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/spatial"
)

// StepObserver is told about every completed step.
type StepObserver interface {
	ObserveStep(StepReport)
}

// Option configures a World.
type Option func(*World)

// WithObserver registers observers notified after each step.
func WithObserver(observers ...StepObserver) Option {
	return func(w *World) {
		w.observers = append(w.observers, observers...)
	}
}

// WithRand replaces the random source used for spawning and wandering.
func WithRand(r *rand.Rand) Option {
	return func(w *World) {
		w.rng = r
	}
}

// WithOracleCheck makes every step compare each grid answer against the
// linear scan and fail on the first mismatch. Meant for verification runs.
func WithOracleCheck() Option {
	return func(w *World) {
		w.verify = true
	}
}

// World owns the agent population and the grid that indexes the enemies.
// It is the single owner of the grid: agents never touch it, the World
// relocates every enemy right after moving it.
//
// A World is not safe for concurrent use; SimulationActor serializes access.
type World struct {
	cfg      *Config
	settings behavior.Settings
	grid     *spatial.Grid
	logger   log.Logger
	rng      *rand.Rand

	enemies    []*Agent
	friendlies []*Agent

	// per step scratch, reused
	closest     []spatial.ID // per friendly
	highlighted []bool       // per enemy

	observers []StepObserver
	verify    bool
	step      uint64
	last      StepReport
}

// NewWorld builds the grid and spawns the fixed population at random
// positions. It fails when the config is invalid.
func NewWorld(cfg *Config, logger log.Logger, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid, err := spatial.New(cfg.MapWidth, cfg.CellSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create grid: %w", err)
	}

	if logger == nil {
		logger = log.DiscardLogger
	}

	w := &World{
		cfg:         cfg,
		settings:    cfg.Movement(),
		grid:        grid,
		logger:      logger,
		enemies:     make([]*Agent, 0, cfg.NumEnemies),
		friendlies:  make([]*Agent, 0, cfg.NumFriendlies),
		closest:     make([]spatial.ID, cfg.NumFriendlies),
		highlighted: make([]bool, cfg.NumEnemies),
		last:        StepReport{Mode: cfg.InitialMode(), ModeName: cfg.InitialMode().String()},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		w.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	if err := w.spawn(); err != nil {
		return nil, err
	}
	for i := range w.closest {
		w.closest[i] = spatial.NoID
	}

	stats := grid.Stats()
	w.logger.Infof("World spawned %d enemies and %d friendlies on a %dx%d grid (cell size %d, map width %.1f)",
		len(w.enemies), len(w.friendlies), stats.Dim, stats.Dim, cfg.CellSize, cfg.MapWidth)
	return w, nil
}

func (w *World) spawn() error {
	for i := 0; i < w.cfg.NumEnemies; i++ {
		e := &Agent{
			ID:     i,
			Team:   TeamEnemy,
			Pos:    behavior.RandomPosition(w.rng, w.cfg.MapWidth),
			wander: behavior.NewWanderer(w.rng, w.cfg.MapWidth),
		}
		if err := w.grid.Insert(e.EnemyID(), e.Pos); err != nil {
			return fmt.Errorf("failed to insert enemy %d: %w", i, err)
		}
		w.enemies = append(w.enemies, e)
	}

	for i := 0; i < w.cfg.NumFriendlies; i++ {
		w.friendlies = append(w.friendlies, &Agent{
			ID:   i,
			Team: TeamFriendly,
			Pos:  behavior.RandomPosition(w.rng, w.cfg.MapWidth),
		})
	}
	return nil
}

// Grid exposes the index for inspection. Callers must not mutate it.
func (w *World) Grid() *spatial.Grid { return w.grid }

// Config returns the config the world was built from.
func (w *World) Config() *Config { return w.cfg }

// Enemies returns the enemy population. Callers must not move them.
func (w *World) Enemies() []*Agent { return w.enemies }

// Friendlies returns the friendly population.
func (w *World) Friendlies() []*Agent { return w.friendlies }

// LastReport returns the report of the most recent step.
func (w *World) LastReport() StepReport { return w.last }

// Nearest answers one query in the given mode.
func (w *World) Nearest(mode Mode, q geometry.Vector2D) (spatial.Hit, bool) {
	if mode.Enabled() {
		return w.grid.FindNearestEnemy(q, spatial.NoID)
	}
	return spatial.NearestLinear(q, w.enemies, spatial.NoID)
}

// Step advances the simulation by one tick:
//  1. every enemy wanders and is relocated in the grid,
//  2. every friendly looks up its nearest enemy in the requested mode,
//     the enemy gets highlighted and the friendly walks toward it.
//
// The whole step is timed. An error means the grid rejected a relocation
// or a post-step check failed; both are programming errors. A failed step is
// not counted: the step number, LastReport and observers are left as they were.
func (w *World) Step(mode Mode) (StepReport, error) {
	start := time.Now()
	before := w.grid.Counters()

	for _, e := range w.enemies {
		old := e.Pos
		e.Pos = e.wander.Step(e.Pos, w.rng, w.settings)
		if err := w.grid.Relocate(e.EnemyID(), old, e.Pos); err != nil {
			return StepReport{}, fmt.Errorf("step %d: %w", w.step+1, err)
		}
	}

	queryStart := time.Now()
	clear(w.highlighted)
	found, highlighted := 0, 0
	for i, f := range w.friendlies {
		hit, ok := w.Nearest(mode, f.Pos)
		if !ok {
			w.closest[i] = spatial.NoID
			continue
		}
		found++
		w.closest[i] = hit.ID
		if !w.highlighted[hit.ID] {
			w.highlighted[hit.ID] = true
			highlighted++
		}
		f.Pos = behavior.Chase(f.Pos, w.enemies[hit.ID].Pos, w.settings)
	}
	end := time.Now()

	after := w.grid.Counters()
	report := StepReport{
		Step:         w.step + 1,
		Mode:         mode,
		ModeName:     mode.String(),
		Elapsed:      end.Sub(start),
		QueryTime:    end.Sub(queryStart),
		Queries:      len(w.friendlies),
		Found:        found,
		Highlighted:  highlighted,
		Relocations:  after.Relocations - before.Relocations,
		Transitions:  after.CellTransitions - before.CellTransitions,
		CellsScanned: after.CellsScanned - before.CellsScanned,
	}

	if w.cfg.CheckInvariants {
		if err := w.grid.Validate(); err != nil {
			w.logger.Errorf("step %d: grid invariant violated: %v", report.Step, err)
			return report, err
		}
	}
	if w.verify {
		if err := w.CheckOracle(); err != nil {
			w.logger.Errorf("step %d: grid disagrees with linear scan: %v", report.Step, err)
			return report, err
		}
	}

	w.step = report.Step
	w.last = report
	for _, o := range w.observers {
		o.ObserveStep(report)
	}
	w.logger.Debugf("step %d (%s): %s, %d/%d queries answered, %d cell transitions",
		report.Step, report.ModeName, report.Elapsed, report.Found, report.Queries, report.Transitions)
	return report, nil
}

// CheckOracle answers every friendly's query both ways and fails when the
// grid's distance differs from the linear scan's. Tie-breaks may differ.
func (w *World) CheckOracle() error {
	for _, f := range w.friendlies {
		got, gotOK := w.grid.FindNearestEnemy(f.Pos, spatial.NoID)
		want, wantOK := spatial.NearestLinear(f.Pos, w.enemies, spatial.NoID)
		if gotOK != wantOK || got.DistSq != want.DistSq {
			return fmt.Errorf("friendly %d at %s: grid found enemy %d at %.9f, linear found enemy %d at %.9f",
				f.ID, f.Pos, got.ID, got.Distance(), want.ID, want.Distance())
		}
	}
	return nil
}

// Snapshot copies the state needed to draw the current frame.
type Snapshot struct {
	Report     StepReport
	MapWidth   float64
	CellSize   float64
	Dim        int
	Occupancy  []int // enemies per cell, row-major
	Enemies    []AgentState
	Friendlies []AgentState
}

// Snapshot copies the current state. The result shares nothing with the World.
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		Report:     w.last,
		MapWidth:   w.grid.MapWidth(),
		CellSize:   w.grid.CellSize(),
		Dim:        w.grid.Dim(),
		Occupancy:  w.grid.Occupancy(nil),
		Enemies:    make([]AgentState, len(w.enemies)),
		Friendlies: make([]AgentState, len(w.friendlies)),
	}
	for i, e := range w.enemies {
		s.Enemies[i] = e.state()
		s.Enemies[i].Closest = w.highlighted[i]
	}
	for i, f := range w.friendlies {
		s.Friendlies[i] = f.state()
		s.Friendlies[i].Target = w.closest[i]
	}
	return s
}
