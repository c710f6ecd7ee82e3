package sim

// Nurse is a single arrival. It lives for one time step: the simulator
// resolves it immediately and keeps nothing but the BookingEvent it may produce.
type Nurse struct {
	ID        int     // Unique per run, assigned in arrival order
	ArrivedAt float64 // Timestamp of the step it arrived in (>= 0)
	Treated   bool    // Sampled independently; not used by the choice model
}
