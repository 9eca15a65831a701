package simulation

import (
	"testing"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

func TestStepReport_Proto(t *testing.T) {
	in := StepReport{
		Step:         42,
		Mode:         ModeLinearScan,
		ModeName:     "linear",
		Elapsed:      1500 * time.Microsecond,
		QueryTime:    900 * time.Microsecond,
		Queries:      300,
		Found:        300,
		Highlighted:  187,
		Relocations:  300,
		Transitions:  4,
		CellsScanned: 0,
	}

	msg, err := in.ToProto()
	if err != nil {
		t.Fatalf("ToProto: %v", err)
	}
	out, err := StepReportFromProto(msg)
	if err != nil {
		t.Fatalf("StepReportFromProto: %v", err)
	}
	if out != in {
		t.Errorf("decoded report = %+v; want %+v", out, in)
	}
}

func TestStepReportFromProto_Invalid(t *testing.T) {
	if _, err := StepReportFromProto(nil); err == nil {
		t.Errorf("nil struct accepted")
	}

	partial, err := structpb.NewStruct(map[string]any{"step": 1.0})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	if _, err := StepReportFromProto(partial); err == nil {
		t.Errorf("report with missing fields accepted")
	}

	wrongType, err := structpb.NewStruct(map[string]any{"step": "one"})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	if _, err := StepReportFromProto(wrongType); err == nil {
		t.Errorf("report with a string step accepted")
	}
}

func TestStepReport_ElapsedText(t *testing.T) {
	r := StepReport{Elapsed: 1234567 * time.Nanosecond}
	if got, want := r.ElapsedText(), "Time spent in Update: 0.001235 seconds"; got != want {
		t.Errorf("ElapsedText = %q; want %q", got, want)
	}
}
