package simulation

// Mode selects how a step answers "nearest enemy" queries. It is driver
// state passed into every step; the grid never sees it.
type Mode int

const (
	ModeSpatialPartition Mode = iota // ring-expansion query on the grid
	ModeLinearScan                   // brute force over every enemy
)

// ModeFromEnabled maps the "spatial partition enabled" toggle to a Mode.
func ModeFromEnabled(enabled bool) Mode {
	if enabled {
		return ModeSpatialPartition
	}
	return ModeLinearScan
}

// Enabled reports whether the spatial partition is in use.
func (m Mode) Enabled() bool { return m == ModeSpatialPartition }

// Toggle flips between the two modes.
func (m Mode) Toggle() Mode { return ModeFromEnabled(!m.Enabled()) }

// String is the short name used in logs and metric labels.
func (m Mode) String() string {
	if m.Enabled() {
		return "grid"
	}
	return "linear"
}

// Status is the text shown to the user.
func (m Mode) Status() string {
	if m.Enabled() {
		return "Spatial Partition: Enabled"
	}
	return "Spatial Partition: Disabled"
}
