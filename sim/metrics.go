// Folds the booking-event log of a run into summary counters.

package sim

import (
	"fmt"
	"io"

	"github.com/inference-sim/market-sim/sim/trace"
)

// Result aggregates a run for reporting. Every counter is derived from Events
// and TotalArrivals; Recompute rebuilds them from those two alone.
type Result struct {
	Events          []BookingEvent // booking log in creation order
	TotalArrivals   int            // nurses that arrived over the run
	TotalBookings   int            // len(Events)
	BookingRate     float64        // TotalBookings / TotalArrivals, 0 without arrivals
	TreatedBookings int            // bookings of treated shifts
	ControlBookings int            // TotalBookings - TreatedBookings

	RunID           string
	Seed            int64
	Horizon         int                    // steps executed; 0 when built by Aggregate alone
	ChoiceFallbacks int                    // choices drawn uniformly because the probability vector was invalid
	Trace           *trace.SimulationTrace // nil unless the run was traced
}

// Aggregate folds an event log and arrival count into a Result. Pure: it
// neither retains nor modifies events beyond storing the slice.
func Aggregate(events []BookingEvent, totalArrivals int) *Result {
	r := &Result{Events: events, TotalArrivals: totalArrivals}
	r.Recompute()
	return r
}

// Recompute re-derives every counter from Events and TotalArrivals.
func (r *Result) Recompute() {
	r.TotalBookings = len(r.Events)
	r.TreatedBookings = 0
	for _, ev := range r.Events {
		if ev.ShiftTreated {
			r.TreatedBookings++
		}
	}
	r.ControlBookings = r.TotalBookings - r.TreatedBookings
	r.BookingRate = 0
	if r.TotalArrivals > 0 {
		r.BookingRate = float64(r.TotalBookings) / float64(r.TotalArrivals)
	}
}

// Validate reports whether the stored counters match a recomputation from the
// event log and satisfy the booking invariants.
func (r *Result) Validate() error {
	want := Aggregate(r.Events, r.TotalArrivals)
	switch {
	case r.TotalBookings != want.TotalBookings:
		return fmt.Errorf("total bookings %d does not match event log (%d)", r.TotalBookings, want.TotalBookings)
	case r.TreatedBookings != want.TreatedBookings:
		return fmt.Errorf("treated bookings %d does not match event log (%d)", r.TreatedBookings, want.TreatedBookings)
	case r.ControlBookings != want.ControlBookings:
		return fmt.Errorf("control bookings %d does not match event log (%d)", r.ControlBookings, want.ControlBookings)
	case r.BookingRate != want.BookingRate:
		return fmt.Errorf("booking rate %g does not match event log (%g)", r.BookingRate, want.BookingRate)
	case r.TotalBookings > r.TotalArrivals:
		return fmt.Errorf("%d bookings exceed %d arrivals", r.TotalBookings, r.TotalArrivals)
	}
	return nil
}

// TreatedShare is the fraction of bookings that went to treated shifts.
func (r *Result) TreatedShare() float64 {
	if r.TotalBookings == 0 {
		return 0
	}
	return float64(r.TreatedBookings) / float64(r.TotalBookings)
}

// Print writes the run summary to w.
func (r *Result) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Results ===")
	if r.RunID != "" {
		fmt.Fprintf(w, "Run ID               : %s\n", r.RunID)
		fmt.Fprintf(w, "Seed                 : %d\n", r.Seed)
	}
	fmt.Fprintf(w, "Total Arrivals       : %d\n", r.TotalArrivals)
	fmt.Fprintf(w, "Total Bookings       : %d\n", r.TotalBookings)
	fmt.Fprintf(w, "Booking Rate         : %.4f\n", r.BookingRate)
	if r.TotalBookings > 0 {
		fmt.Fprintf(w, "Treated Bookings     : %d (%.1f%%)\n", r.TreatedBookings, 100*r.TreatedShare())
		fmt.Fprintf(w, "Control Bookings     : %d (%.1f%%)\n", r.ControlBookings, 100*(1-r.TreatedShare()))
	}
}
