package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Steps            int
	TotalArrivals    int
	TotalBookings    int
	TotalReopened    int
	MeanFilled       float64
	PeakFilled       int
	PeakFilledStep   int // first step at which PeakFilled was reached
	StepsFullyBooked int // steps that ended with no available shift
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil || len(st.Steps) == 0 {
		return summary
	}

	summary.Steps = len(st.Steps)
	totalFilled := 0
	for _, s := range st.Steps {
		summary.TotalArrivals += s.Arrivals
		summary.TotalBookings += s.Bookings
		summary.TotalReopened += s.Reopened
		totalFilled += s.FilledCount
		if s.FilledCount > summary.PeakFilled {
			summary.PeakFilled = s.FilledCount
			summary.PeakFilledStep = s.Timestep
		}
		if s.AvailableCount == 0 {
			summary.StepsFullyBooked++
		}
	}
	summary.MeanFilled = float64(totalFilled) / float64(len(st.Steps))

	return summary
}
