package trace

import (
	"testing"
)

func TestSimulationTrace_RecordStep_AppendsRecord(t *testing.T) {
	// GIVEN a trace configured for steps
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelSteps})

	// WHEN a step record is recorded
	st.RecordStep(StepRecord{
		Timestep:       3,
		ShiftStatuses:  []string{StatusOpen, StatusFilled},
		AvailableCount: 1,
		FilledCount:    1,
		Arrivals:       2,
		Bookings:       1,
	})

	// THEN the trace contains one step record with correct data
	if len(st.Steps) != 1 {
		t.Fatalf("expected 1 step, got %d", len(st.Steps))
	}
	if st.Steps[0].Timestep != 3 {
		t.Errorf("expected timestep 3, got %d", st.Steps[0].Timestep)
	}
	if st.Steps[0].FilledCount != 1 {
		t.Errorf("expected 1 filled shift, got %d", st.Steps[0].FilledCount)
	}
}

func TestSimulationTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	// GIVEN a trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelSteps})

	// WHEN multiple records are added
	for i := 0; i < 3; i++ {
		st.RecordStep(StepRecord{Timestep: i})
	}

	// THEN order is preserved
	if len(st.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(st.Steps))
	}
	for i, s := range st.Steps {
		if s.Timestep != i {
			t.Errorf("step %d has timestep %d", i, s.Timestep)
		}
	}
}

func TestTraceConfig_Enabled(t *testing.T) {
	if (TraceConfig{}).Enabled() {
		t.Error("empty level must not be enabled")
	}
	if (TraceConfig{Level: TraceLevelNone}).Enabled() {
		t.Error("none level must not be enabled")
	}
	if !(TraceConfig{Level: TraceLevelSteps}).Enabled() {
		t.Error("steps level must be enabled")
	}
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"steps", true},
		{"", true}, // empty defaults to none
		{"decisions", false},
		{"STEPS", false}, // case-sensitive
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := IsValidTraceLevel(tt.level); got != tt.valid {
				t.Errorf("IsValidTraceLevel(%q) = %v, want %v", tt.level, got, tt.valid)
			}
		})
	}
}

func TestOccupancyMatrix_ShiftByStep(t *testing.T) {
	// GIVEN two steps over three shifts
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelSteps})
	st.RecordStep(StepRecord{Timestep: 0, ShiftStatuses: []string{StatusFilled, StatusOpen, StatusOpen}})
	st.RecordStep(StepRecord{Timestep: 1, ShiftStatuses: []string{StatusOpen, StatusOpen, StatusFilled}})

	// WHEN the occupancy matrix is built
	m := st.OccupancyMatrix()

	// THEN rows are shifts and columns are steps
	if len(m) != 3 || len(m[0]) != 2 {
		t.Fatalf("expected 3x2 matrix, got %dx%d", len(m), len(m[0]))
	}
	want := [][]bool{{true, false}, {false, false}, {false, true}}
	for i := range want {
		for j := range want[i] {
			if m[i][j] != want[i][j] {
				t.Errorf("m[%d][%d] = %v, want %v", i, j, m[i][j], want[i][j])
			}
		}
	}
}

func TestOccupancyMatrix_NilTrace(t *testing.T) {
	var st *SimulationTrace
	if m := st.OccupancyMatrix(); m != nil {
		t.Errorf("expected nil matrix, got %v", m)
	}
}
