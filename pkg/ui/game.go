package ui

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/spatial"
)

var (
	backgroundColor  = color.RGBA{R: 15, G: 15, B: 25, A: 255}
	gridLineColor    = color.RGBA{R: 60, G: 60, B: 80, A: 255}
	enemyColor       = color.RGBA{R: 200, G: 50, B: 50, A: 255}
	highlightColor   = color.RGBA{R: 255, G: 220, B: 40, A: 255}
	friendlyColor    = color.RGBA{R: 50, G: 120, B: 255, A: 255}
	targetLineColor  = color.RGBA{R: 120, G: 160, B: 255, A: 70}
	occupiedCellTint = color.RGBA{R: 90, G: 30, B: 30, A: 255}
)

// Game drives the simulation actor once per ebiten tick and draws the latest
// snapshot. Only the actor touches the World.
type Game struct {
	ctx       context.Context
	system    actor.ActorSystem
	pid       *actor.PID
	snapshots <-chan *simulation.Snapshot
	logger    log.Logger

	screenWidth int
	askTimeout  time.Duration

	mode   simulation.Mode
	paused bool
	last   *simulation.Snapshot
	report simulation.StepReport

	panel       *UIPanel
	toggle      *Checkbox
	showTargets *Checkbox
	pause       *Button
}

// NewGame wires the UI to an already spawned SimulationActor.
func NewGame(ctx context.Context, system actor.ActorSystem, pid *actor.PID,
	snapshots <-chan *simulation.Snapshot, cfg *simulation.Config) *Game {
	g := &Game{
		ctx:         ctx,
		system:      system,
		pid:         pid,
		snapshots:   snapshots,
		logger:      system.Logger(),
		screenWidth: cfg.ScreenWidth,
		askTimeout:  time.Second,
		mode:        cfg.InitialMode(),
	}

	g.panel = NewUIPanel(10, 10, 300, "Spatial Partition Demo")
	g.toggle = g.panel.AddCheckbox("Spatial partition [Space]", g.mode.Enabled())
	g.toggle.Hotkey = ebiten.KeySpace
	g.showTargets = g.panel.AddCheckbox("Show targets [T]", false)
	g.showTargets.Hotkey = ebiten.KeyT
	g.pause = g.panel.AddButton("Pause [P]", g.togglePause)
	g.pause.Hotkey = ebiten.KeyP

	return g
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	if g.paused {
		g.pause.Label = "Resume [P]"
	} else {
		g.pause.Label = "Pause [P]"
	}
}

func (g *Game) Update() error {
	// 1. Input
	g.panel.Update()
	if g.toggle.Changed() {
		g.mode = simulation.ModeFromEnabled(g.toggle.Value)
		g.logger.Infof("%s", g.mode.Status())
	}

	// 2. Step the simulation, the reply arrives after the step completed
	if !g.paused {
		resp, err := g.system.NoSender().Ask(g.ctx, g.pid, simulation.StepRequest(g.mode), g.askTimeout)
		if err != nil {
			return fmt.Errorf("simulation step failed: %w", err)
		}
		if s, ok := resp.(*structpb.Struct); ok {
			report, err := simulation.StepReportFromProto(s)
			if err != nil {
				return err
			}
			g.report = report
		}
	}

	// 3. Drain snapshots, keep the newest
Loop:
	for {
		select {
		case snap := <-g.snapshots:
			g.last = snap
		default:
			break Loop
		}
	}

	g.panel.SetLines(
		g.mode.Status(),
		g.report.ElapsedText(),
		fmt.Sprintf("Step %d  queries %d  highlighted %d", g.report.Step, g.report.Queries, g.report.Highlighted),
		fmt.Sprintf("Cells scanned %d  transitions %d", g.report.CellsScanned, g.report.Transitions),
		fmt.Sprintf("FPS %.1f  TPS %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()),
	)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	if s := g.last; s != nil && s.MapWidth > 0 {
		scale := float64(g.screenWidth) / s.MapWidth
		g.drawGrid(screen, s, scale)
		g.drawAgents(screen, s, scale)
	}

	g.panel.Draw(screen)
}

func (g *Game) drawGrid(screen *ebiten.Image, s *simulation.Snapshot, scale float64) {
	side := float32(s.CellSize * scale)
	limit := float32(g.screenWidth)

	for z := 0; z < s.Dim; z++ {
		for x := 0; x < s.Dim; x++ {
			n := s.Occupancy[z*s.Dim+x]
			if n == 0 {
				continue
			}
			tint := occupiedCellTint
			tint.A = uint8(min(30+n*8, 160))
			px, pz := float32(x)*side, float32(z)*side
			vector.FillRect(screen, px, pz, min(side, limit-px), min(side, limit-pz), tint, false)
		}
	}

	for i := 0; i <= s.Dim; i++ {
		p := min(float32(i)*side, limit)
		vector.StrokeLine(screen, p, 0, p, limit, 1, gridLineColor, false)
		vector.StrokeLine(screen, 0, p, limit, p, 1, gridLineColor, false)
	}
}

func (g *Game) drawAgents(screen *ebiten.Image, s *simulation.Snapshot, scale float64) {
	if g.showTargets.Value {
		for _, f := range s.Friendlies {
			if f.Target == spatial.NoID {
				continue
			}
			e := s.Enemies[f.Target]
			vector.StrokeLine(screen,
				float32(f.Pos.X*scale), float32(f.Pos.Y*scale),
				float32(e.Pos.X*scale), float32(e.Pos.Y*scale),
				1, targetLineColor, true)
		}
	}

	for _, e := range s.Enemies {
		clr, r := enemyColor, float32(3)
		if e.Closest {
			clr, r = highlightColor, 4
		}
		vector.FillCircle(screen, float32(e.Pos.X*scale), float32(e.Pos.Y*scale), r, clr, true)
	}
	for _, f := range s.Friendlies {
		vector.FillCircle(screen, float32(f.Pos.X*scale), float32(f.Pos.Y*scale), 3, friendlyColor, true)
	}
}

func (g *Game) Layout(_, _ int) (int, int) { return g.screenWidth, g.screenWidth }
