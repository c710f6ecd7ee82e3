package trace

// TraceLevel controls the verbosity of step tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelSteps captures a StepRecord after every time step.
	TraceLevelSteps TraceLevel = "steps"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelSteps: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelSteps
}

// SimulationTrace collects per-step market snapshots during a run.
type SimulationTrace struct {
	Config TraceConfig
	Steps  []StepRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config: config,
		Steps:  make([]StepRecord, 0),
	}
}

// RecordStep appends a step snapshot.
func (st *SimulationTrace) RecordStep(record StepRecord) {
	st.Steps = append(st.Steps, record)
}

// OccupancyMatrix returns, per shift, whether it was filled at the end of each
// recorded step: matrix[shift][step]. Shifts are indexed by their position in
// the recorded status lists. Returns nil for a nil or empty trace.
func (st *SimulationTrace) OccupancyMatrix() [][]bool {
	if st == nil || len(st.Steps) == 0 {
		return nil
	}
	nShifts := len(st.Steps[0].ShiftStatuses)
	matrix := make([][]bool, nShifts)
	for i := range matrix {
		matrix[i] = make([]bool, len(st.Steps))
	}
	for t, step := range st.Steps {
		for i, status := range step.ShiftStatuses {
			if i < nShifts {
				matrix[i][t] = status == StatusFilled
			}
		}
	}
	return matrix
}
