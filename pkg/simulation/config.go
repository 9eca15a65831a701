package simulation

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/spatial"
)

//go:embed config.schema.json
var configSchema string

type Config struct {
	// World Dimensions
	MapWidth float64 `json:"mapWidth"`
	CellSize int     `json:"cellSize"`

	// Population, fixed for the whole run
	NumEnemies    int `json:"numEnemies"`
	NumFriendlies int `json:"numFriendlies"`

	// Movement
	EnemySpeed         float64 `json:"enemySpeed"`         // world units per second
	FriendlySpeed      float64 `json:"friendlySpeed"`      // world units per second
	EnemyArrivalRadius float64 `json:"enemyArrivalRadius"` // distance at which a wander target counts as reached
	DeltaTime          float64 `json:"deltaTime"`          // simulated seconds per step

	Seed uint64 `json:"seed"` // 0 picks a time based seed

	// Driver
	SpatialPartitionEnabled bool `json:"spatialPartitionEnabled"` // initial mode
	CheckInvariants         bool `json:"checkInvariants"`         // validate the grid after every step
	ScreenWidth             int  `json:"screenWidth"`             // window side in pixels
}

func DefaultConfig() *Config {
	return &Config{
		MapWidth:                50,
		CellSize:                10,
		NumEnemies:              300,
		NumFriendlies:           300,
		EnemySpeed:              1,
		FriendlySpeed:           2,
		EnemyArrivalRadius:      1,
		DeltaTime:               1.0 / 60.0,
		SpatialPartitionEnabled: true,
		ScreenWidth:             800,
	}
}

// Validate checks the constraints the schema cannot express on its own and
// guards configs built in code rather than loaded from disk.
func (c *Config) Validate() error {
	if !(c.MapWidth > 0) || c.CellSize <= 0 {
		return fmt.Errorf("invalid config: %w (mapWidth=%v, cellSize=%d)", spatial.ErrInvalidDimensions, c.MapWidth, c.CellSize)
	}
	if n := math.Ceil(c.MapWidth / float64(c.CellSize)); n > spatial.MaxCellsPerAxis {
		return fmt.Errorf("invalid config: %w (mapWidth/cellSize needs %.0f cells per axis, limit is %d)",
			spatial.ErrInvalidDimensions, n, spatial.MaxCellsPerAxis)
	}
	if c.NumEnemies < 0 || c.NumFriendlies < 0 {
		return fmt.Errorf("invalid config: negative population (enemies=%d, friendlies=%d)", c.NumEnemies, c.NumFriendlies)
	}
	if !(c.DeltaTime > 0) {
		return fmt.Errorf("invalid config: deltaTime must be positive, got %v", c.DeltaTime)
	}
	if c.EnemySpeed < 0 || c.FriendlySpeed < 0 || c.EnemyArrivalRadius < 0 {
		return fmt.Errorf("invalid config: speeds and arrival radius must not be negative")
	}
	return nil
}

// Movement returns the behavior settings derived from the config.
func (c *Config) Movement() behavior.Settings {
	return behavior.Settings{
		MapWidth:      c.MapWidth,
		EnemySpeed:    c.EnemySpeed,
		FriendlySpeed: c.FriendlySpeed,
		ArrivalRadius: c.EnemyArrivalRadius,
		DeltaTime:     c.DeltaTime,
	}
}

// InitialMode returns the query mode the driver starts in.
func (c *Config) InitialMode() Mode {
	return ModeFromEnabled(c.SpatialPartitionEnabled)
}

// LoadConfig loads configuration from a JSON file and validates it against
// the embedded schema. Keys missing from the file keep their default value.
func LoadConfig(configFile string) (*Config, error) {
	// 1. Compile Schema
	sch, err := jsonschema.CompileString("config.schema.json", configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	// 2. Read Config File
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Validate
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// 4. Unmarshal over the defaults
	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
