// Package trace provides per-step state recording for marketplace runs.
// It has no dependencies on sim/ and stores pure data types only.
package trace

// Shift status strings as recorded in StepRecord.ShiftStatuses.
const (
	StatusOpen   = "open"
	StatusFilled = "filled"
)

// StepRecord captures the market at the end of one time step.
type StepRecord struct {
	Timestep       int
	ShiftStatuses  []string // status of each shift, in shift-population order
	AvailableCount int      // shifts bookable at the step time after all arrivals resolved
	FilledCount    int      // len(ShiftStatuses) - AvailableCount
	Reopened       int      // shifts reopened by the check at the start of the step
	Arrivals       int      // nurses that arrived in the step
	Bookings       int      // bookings made in the step
}
