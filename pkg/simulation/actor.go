package simulation

import (
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// StepRequest asks the SimulationActor to run one step. The flag is the
// "spatial partition enabled" toggle owned by the driver.
func StepRequest(mode Mode) *wrapperspb.BoolValue {
	return wrapperspb.Bool(mode.Enabled())
}

// StatusRequest asks the SimulationActor for the last step report.
func StatusRequest() *emptypb.Empty {
	return &emptypb.Empty{}
}

// SimulationActor is the single owner of a World. Its mailbox serializes
// steps, so every relocation of a step completes before that step's queries
// and nothing else touches the grid in between.
//
//   - *wrapperspb.BoolValue runs one step and replies with the StepReport
//     encoded by StepReport.ToProto.
//   - *emptypb.Empty replies with the last report without stepping.
type SimulationActor struct {
	world      *World
	snapshotCh chan<- *Snapshot

	// --- Throughput Stats ---
	steps       [2]int
	elapsed     [2]time.Duration
	lastLogTime time.Time
}

var _ actor.Actor = (*SimulationActor)(nil)

// NewSimulationActor wraps world. When snapshotCh is not nil a Snapshot is
// offered after every step; frames are dropped while the reader is busy.
func NewSimulationActor(world *World, snapshotCh chan<- *Snapshot) *SimulationActor {
	return &SimulationActor{
		world:      world,
		snapshotCh: snapshotCh,
	}
}

func (a *SimulationActor) PreStart(ctx *actor.Context) error {
	a.lastLogTime = time.Now()
	ctx.ActorSystem().Logger().Infof("Simulation actor starting: %d enemies, %d friendlies",
		len(a.world.Enemies()), len(a.world.Friendlies()))
	return nil
}

func (a *SimulationActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		ctx.Logger().Infof("Simulation actor %s started", ctx.Self().Name())

	case *wrapperspb.BoolValue:
		mode := ModeFromEnabled(msg.GetValue())
		report, err := a.world.Step(mode)
		if err != nil {
			ctx.Logger().Errorf("step failed: %v", err)
			ctx.Err(err)
			return
		}
		a.account(ctx, report)
		a.pushSnapshot()
		a.reply(ctx, report)

	case *emptypb.Empty:
		a.reply(ctx, a.world.LastReport())

	default:
		ctx.Unhandled()
	}
}

func (a *SimulationActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("Simulation actor stopped after %d steps", a.world.LastReport().Step)
	return nil
}

func (a *SimulationActor) reply(ctx *actor.ReceiveContext, report StepReport) {
	msg, err := report.ToProto()
	if err != nil {
		ctx.Err(err)
		return
	}
	ctx.Response(msg)
}

func (a *SimulationActor) pushSnapshot() {
	if a.snapshotCh == nil {
		return
	}
	select {
	case a.snapshotCh <- a.world.Snapshot():
	default:
		// UI busy, skip frame
	}
}

// account logs steps per second and mean step time per mode, once a second.
func (a *SimulationActor) account(ctx *actor.ReceiveContext, r StepReport) {
	a.steps[r.Mode]++
	a.elapsed[r.Mode] += r.Elapsed

	if time.Since(a.lastLogTime) < time.Second {
		return
	}
	for _, m := range []Mode{ModeSpatialPartition, ModeLinearScan} {
		if a.steps[m] == 0 {
			continue
		}
		ctx.Logger().Infof("📊 %s: %d steps/sec, mean step %s",
			m, a.steps[m], a.elapsed[m]/time.Duration(a.steps[m]))
	}
	a.steps = [2]int{}
	a.elapsed = [2]time.Duration{}
	a.lastLogTime = time.Now()
}
