// Package testutil provides shared test infrastructure for the market simulator.
// It holds the scenario dataset and assertion helpers used by the sim test
// packages. It must not import sim, which imports it from its tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// ScenarioDataset represents the structure of testdata/scenarios.json.
type ScenarioDataset struct {
	Scenarios []Scenario `json:"scenarios"`
}

// Scenario is one market configuration together with the properties every
// run of it must satisfy, whatever the seed.
type Scenario struct {
	Name            string    `json:"name"`
	Horizon         int       `json:"horizon"`
	LambdaC         float64   `json:"lambda_c"`
	Mu              float64   `json:"mu"`
	K               int       `json:"k"`
	NShifts         int       `json:"n_shifts"`
	TreatmentProb   float64   `json:"treatment_prob"`
	TreatmentBoost  float64   `json:"treatment_boost"`
	PositionWeights []float64 `json:"position_weights"`
	Seeds           []int64   `json:"seeds"`

	Expect ScenarioExpectations `json:"expect"`
}

// ScenarioExpectations lists seed-independent properties of a scenario.
// Zero values mean "not asserted".
type ScenarioExpectations struct {
	ZeroArrivals      bool `json:"zero_arrivals"`
	NoTreatedBookings bool `json:"no_treated_bookings"`
	NoControlBookings bool `json:"no_control_bookings"`
	// MaxChoicePosition bounds every event's choice position; -1 disables the check.
	MaxChoicePosition int `json:"max_choice_position"`
}

// LoadScenarios loads the scenario dataset from the repo-root testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadScenarios(t *testing.T) *ScenarioDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "scenarios.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read scenario dataset: %v", err)
	}

	var dataset ScenarioDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse scenario dataset: %v", err)
	}
	if len(dataset.Scenarios) == 0 {
		t.Fatal("Scenario dataset is empty")
	}
	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertDistribution checks that probs is non-negative and sums to 1 within absTol.
func AssertDistribution(t *testing.T, probs []float64, absTol float64) {
	t.Helper()
	sum := 0.0
	for i, p := range probs {
		if p < 0 || math.IsNaN(p) {
			t.Errorf("probability %d is %v", i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > absTol {
		t.Errorf("probabilities sum to %v, want 1 (tol %v)", sum, absTol)
	}
}
