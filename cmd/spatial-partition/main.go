package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-spatial-partition/internal/api"
	"github.com/lao-tseu-is-alive/go-spatial-partition/internal/metrics"
	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/ui"
)

func main() {
	configFile := flag.String("config", "", "JSON config file, built-in defaults when empty")
	metricsAddr := flag.String("metrics-addr", "", "serve /healthz, /status and /metrics on this address (e.g. 127.0.0.1:6060)")
	debug := flag.Bool("debug", false, "log every step")
	flag.Parse()

	ctx := context.Background()

	level := golog.InfoLevel
	if *debug {
		level = golog.DebugLevel
	}
	logger := golog.New(level, os.Stdout)

	// 1. Load Configuration
	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		var err error
		cfg, err = simulation.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// 2. Observers: status board always, Prometheus when serving metrics
	board := &simulation.StatusBoard{}
	observers := []simulation.StepObserver{board}
	if *metricsAddr != "" {
		observers = append(observers, metrics.NewRecorder(nil))
		srv := &http.Server{
			Addr:              *metricsAddr,
			Handler:           api.NewRouter(api.RouterConfig{Status: board, RequestsPerSecond: 20, Burst: 40}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Infof("📊 Metrics server listening on http://%s/metrics", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	world, err := simulation.NewWorld(cfg, logger, simulation.WithObserver(observers...))
	if err != nil {
		log.Fatalf("Failed to create world: %v", err)
	}

	// 3. Create Actor System
	system, err := actor.NewActorSystem("SpatialPartition",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		log.Fatalf("Failed to create actor system: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		log.Fatalf("Failed to start actor system: %v", err)
	}
	defer system.Stop(ctx)

	snapshots := make(chan *simulation.Snapshot, 1)
	pid, err := system.Spawn(ctx, "simulation", simulation.NewSimulationActor(world, snapshots))
	if err != nil {
		log.Fatalf("Failed to spawn simulation: %v", err)
	}

	// 4. Run Game
	ebiten.SetWindowSize(cfg.ScreenWidth, cfg.ScreenWidth)
	ebiten.SetWindowTitle("Spatial Partition: nearest enemy search")

	game := ui.NewGame(ctx, system, pid, snapshots, cfg)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
