package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/simulation"
)

var errUnexpectedReply = errors.New("unexpected reply from simulation actor")

type result struct {
	steps     int
	elapsed   time.Duration
	queryTime time.Duration
	scanned   uint64
}

func main() {
	configFile := flag.String("config", "", "JSON config file, built-in defaults when empty")
	steps := flag.Int("steps", 600, "steps to run in each mode")
	verify := flag.Bool("verify", false, "check grid invariants and compare every grid answer with the linear scan")
	debug := flag.Bool("debug", false, "log every step")
	flag.Parse()

	ctx := context.Background()

	level := golog.InfoLevel
	if *debug {
		level = golog.DebugLevel
	}
	logger := golog.New(level, os.Stdout)

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = simulation.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	// both worlds must start from the same population
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	cfg.CheckInvariants = cfg.CheckInvariants || *verify

	system, err := actor.NewActorSystem("SpatialBenchmark",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		log.Fatalf("Failed to create actor system: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		log.Fatalf("Failed to start actor system: %v", err)
	}
	defer system.Stop(ctx)

	results := make(map[simulation.Mode]result, 2)
	for _, mode := range []simulation.Mode{simulation.ModeSpatialPartition, simulation.ModeLinearScan} {
		var opts []simulation.Option
		if *verify {
			opts = append(opts, simulation.WithOracleCheck())
		}
		world, err := simulation.NewWorld(cfg, logger, opts...)
		if err != nil {
			log.Fatalf("Failed to create world: %v", err)
		}
		pid, err := system.Spawn(ctx, mode.String(), simulation.NewSimulationActor(world, nil))
		if err != nil {
			log.Fatalf("Failed to spawn %s simulation: %v", mode, err)
		}

		res, err := run(ctx, system, pid, mode, *steps)
		if err != nil {
			log.Fatalf("%s run failed: %v", mode, err)
		}
		results[mode] = res
		logger.Infof("%s: %d steps, mean step %s, mean query phase %s, %d cells scanned",
			mode, res.steps, mean(res.elapsed, res.steps), mean(res.queryTime, res.steps), res.scanned)
	}

	grid, linear := results[simulation.ModeSpatialPartition], results[simulation.ModeLinearScan]
	if grid.queryTime > 0 {
		logger.Infof("🏁 %d enemies, %d friendlies, cell size %d: grid queries are %.2fx faster than the linear scan",
			cfg.NumEnemies, cfg.NumFriendlies, cfg.CellSize, float64(linear.queryTime)/float64(grid.queryTime))
	}
	if *verify {
		logger.Infof("✅ every grid answer matched the linear scan")
	}
}

func run(ctx context.Context, system actor.ActorSystem, pid *actor.PID, mode simulation.Mode, steps int) (result, error) {
	var res result
	for i := 0; i < steps; i++ {
		resp, err := system.NoSender().Ask(ctx, pid, simulation.StepRequest(mode), 10*time.Second)
		if err != nil {
			return res, err
		}
		s, ok := resp.(*structpb.Struct)
		if !ok {
			return res, errUnexpectedReply
		}
		r, err := simulation.StepReportFromProto(s)
		if err != nil {
			return res, err
		}
		res.steps++
		res.elapsed += r.Elapsed
		res.queryTime += r.QueryTime
		res.scanned += r.CellsScanned
	}
	return res, nil
}

func mean(total time.Duration, n int) time.Duration {
	if n == 0 {
		return 0
	}
	return total / time.Duration(n)
}
