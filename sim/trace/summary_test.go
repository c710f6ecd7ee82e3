package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelSteps})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.Steps != 0 || summary.TotalArrivals != 0 || summary.TotalBookings != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
	if summary.MeanFilled != 0 || summary.PeakFilled != 0 {
		t.Errorf("expected zero occupancy, got %+v", summary)
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)
	if *summary != (TraceSummary{}) {
		t.Errorf("expected zero summary, got %+v", summary)
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with three steps over two shifts
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelSteps})
	st.RecordStep(StepRecord{Timestep: 0, AvailableCount: 1, FilledCount: 1, Arrivals: 1, Bookings: 1})
	st.RecordStep(StepRecord{Timestep: 1, AvailableCount: 0, FilledCount: 2, Arrivals: 3, Bookings: 1})
	st.RecordStep(StepRecord{Timestep: 2, AvailableCount: 2, FilledCount: 0, Reopened: 2})

	// WHEN summarized
	summary := Summarize(st)

	// THEN totals, means and peaks match
	if summary.Steps != 3 {
		t.Errorf("expected 3 steps, got %d", summary.Steps)
	}
	if summary.TotalArrivals != 4 {
		t.Errorf("expected 4 arrivals, got %d", summary.TotalArrivals)
	}
	if summary.TotalBookings != 2 {
		t.Errorf("expected 2 bookings, got %d", summary.TotalBookings)
	}
	if summary.TotalReopened != 2 {
		t.Errorf("expected 2 reopened, got %d", summary.TotalReopened)
	}
	if summary.MeanFilled != 1.0 {
		t.Errorf("expected mean filled 1.0, got %f", summary.MeanFilled)
	}
	if summary.PeakFilled != 2 || summary.PeakFilledStep != 1 {
		t.Errorf("expected peak 2 at step 1, got %d at step %d", summary.PeakFilled, summary.PeakFilledStep)
	}
	if summary.StepsFullyBooked != 1 {
		t.Errorf("expected 1 fully booked step, got %d", summary.StepsFullyBooked)
	}
}
