package simulation

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// StepReport summarizes one simulation step.
type StepReport struct {
	Step         uint64        `json:"step"`
	Mode         Mode          `json:"-"`
	ModeName     string        `json:"mode"`
	Elapsed      time.Duration `json:"elapsedNanos"`    // whole step: movement, relocation, queries
	QueryTime    time.Duration `json:"queryNanos"`      // queries and chasing only
	Queries      int           `json:"queries"`         // one per friendly
	Found        int           `json:"found"`           // queries that returned an enemy
	Highlighted  int           `json:"highlighted"`     // distinct enemies that are someone's nearest
	Relocations  uint64        `json:"relocations"`     // Relocate calls
	Transitions  uint64        `json:"cellTransitions"` // relocations that changed cell
	CellsScanned uint64        `json:"cellsScanned"`    // cells visited by grid queries
}

// ElapsedText mirrors the readout shown by the demo.
func (r StepReport) ElapsedText() string {
	return fmt.Sprintf("Time spent in Update: %.6f seconds", r.Elapsed.Seconds())
}

// ToProto converts the report into the message returned by the simulation actor.
func (r StepReport) ToProto() (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"step":            float64(r.Step),
		"spatialEnabled":  r.Mode.Enabled(),
		"elapsedNanos":    float64(r.Elapsed.Nanoseconds()),
		"queryNanos":      float64(r.QueryTime.Nanoseconds()),
		"queries":         float64(r.Queries),
		"found":           float64(r.Found),
		"highlighted":     float64(r.Highlighted),
		"relocations":     float64(r.Relocations),
		"cellTransitions": float64(r.Transitions),
		"cellsScanned":    float64(r.CellsScanned),
	})
}

// StepReportFromProto decodes a report produced by ToProto.
func StepReportFromProto(s *structpb.Struct) (StepReport, error) {
	if s == nil {
		return StepReport{}, fmt.Errorf("nil step report")
	}
	f := s.GetFields()
	num := func(key string) (float64, error) {
		v, ok := f[key]
		if !ok {
			return 0, fmt.Errorf("step report: missing field %q", key)
		}
		if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
			return 0, fmt.Errorf("step report: field %q is not a number", key)
		}
		return v.GetNumberValue(), nil
	}

	var (
		r   StepReport
		err error
		n   float64
	)
	read := func(key string, set func(float64)) {
		if err != nil {
			return
		}
		if n, err = num(key); err == nil {
			set(n)
		}
	}

	read("step", func(v float64) { r.Step = uint64(v) })
	read("elapsedNanos", func(v float64) { r.Elapsed = time.Duration(v) })
	read("queryNanos", func(v float64) { r.QueryTime = time.Duration(v) })
	read("queries", func(v float64) { r.Queries = int(v) })
	read("found", func(v float64) { r.Found = int(v) })
	read("highlighted", func(v float64) { r.Highlighted = int(v) })
	read("relocations", func(v float64) { r.Relocations = uint64(v) })
	read("cellTransitions", func(v float64) { r.Transitions = uint64(v) })
	read("cellsScanned", func(v float64) { r.CellsScanned = uint64(v) })
	if err != nil {
		return StepReport{}, err
	}

	r.Mode = ModeFromEnabled(f["spatialEnabled"].GetBoolValue())
	r.ModeName = r.Mode.String()
	return r, nil
}
