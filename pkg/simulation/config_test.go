package simulation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lao-tseu-is-alive/go-spatial-partition/pkg/spatial"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.MapWidth != 50 || cfg.CellSize != 10 || cfg.NumEnemies != 300 || cfg.NumFriendlies != 300 {
		t.Errorf("defaults drifted from the reference demo: %+v", cfg)
	}
	if !cfg.InitialMode().Enabled() {
		t.Errorf("spatial partition should start enabled")
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"mapWidth": 200,
		"cellSize": 20,
		"numEnemies": 1000,
		"spatialPartitionEnabled": false,
		"seed": 12
	}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MapWidth != 200 || cfg.CellSize != 20 || cfg.NumEnemies != 1000 || cfg.Seed != 12 {
		t.Errorf("loaded values not applied: %+v", cfg)
	}
	if cfg.NumFriendlies != 300 {
		t.Errorf("missing key should keep its default, got NumFriendlies=%d", cfg.NumFriendlies)
	}
	if cfg.InitialMode() != ModeLinearScan {
		t.Errorf("InitialMode = %v; want linear", cfg.InitialMode())
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero map width", `{"mapWidth": 0}`},
		{"negative cell size", `{"cellSize": -10}`},
		{"fractional cell size", `{"cellSize": 2.5}`},
		{"negative population", `{"numEnemies": -1}`},
		{"unknown key", `{"mapWidht": 50}`},
		{"wrong type", `{"spatialPartitionEnabled": "yes"}`},
		{"not json", `mapWidth: 50`},
		{"grid too large", `{"mapWidth": 1e12, "cellSize": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Errorf("LoadConfig(%s) succeeded; want error", tt.body)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("LoadConfig on a missing file succeeded")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CellSize = 0
	if err := cfg.Validate(); !errors.Is(err, spatial.ErrInvalidDimensions) {
		t.Errorf("Validate error = %v; want ErrInvalidDimensions", err)
	}

	cfg = DefaultConfig()
	cfg.MapWidth = 1e12
	cfg.CellSize = 1
	if err := cfg.Validate(); !errors.Is(err, spatial.ErrInvalidDimensions) {
		t.Errorf("oversized grid error = %v; want ErrInvalidDimensions", err)
	}
	if _, err := NewWorld(cfg, nil); !errors.Is(err, spatial.ErrInvalidDimensions) {
		t.Errorf("NewWorld on an oversized grid error = %v; want ErrInvalidDimensions", err)
	}

	cfg = DefaultConfig()
	cfg.MapWidth = spatial.MaxCellsPerAxis * 10
	if err := cfg.Validate(); err != nil {
		t.Errorf("grid at the cell limit rejected: %v", err)
	}

	cfg = DefaultConfig()
	cfg.DeltaTime = 0
	if err := cfg.Validate(); err == nil {
		t.Errorf("zero deltaTime accepted")
	}
}

func TestMode(t *testing.T) {
	m := ModeFromEnabled(true)
	if m != ModeSpatialPartition || m.String() != "grid" || m.Status() != "Spatial Partition: Enabled" {
		t.Errorf("enabled mode = %v / %q / %q", m, m.String(), m.Status())
	}
	m = m.Toggle()
	if m != ModeLinearScan || m.String() != "linear" || m.Status() != "Spatial Partition: Disabled" {
		t.Errorf("toggled mode = %v / %q / %q", m, m.String(), m.Status())
	}
	if m.Toggle() != ModeSpatialPartition {
		t.Errorf("double toggle did not return to grid mode")
	}
}

func TestLoadConfig_ShippedFiles(t *testing.T) {
	for _, name := range []string{"spatial-partition.json", "benchmark-large.json"} {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join("..", "..", "configs", name)); err != nil {
				t.Errorf("LoadConfig(%s): %v", name, err)
			}
		})
	}
}
