// Defines the Shift struct, the bookable resource of the marketplace, and its
// availability state machine (open -> filled -> open).

package sim

// ShiftStatus represents the availability state of a shift.
type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "open"
	ShiftFilled ShiftStatus = "filled"
)

// Shift is a bookable resource. ID, BaseUtility and Treated are fixed at
// creation; Status and FilledUntil are mutated only by the Simulator that owns it.
type Shift struct {
	ID          int         // Unique, stable for the run
	BaseUtility float64     // Sampled once at initialization
	Treated     bool        // Treatment arm, sampled once at initialization
	Status      ShiftStatus // open or filled
	FilledUntil float64     // Reopen time; only meaningful while filled
}

// NewShift returns an open shift that has never been booked.
func NewShift(id int, baseUtility float64, treated bool) *Shift {
	return &Shift{
		ID:          id,
		BaseUtility: baseUtility,
		Treated:     treated,
		Status:      ShiftOpen,
		FilledUntil: 0,
	}
}

// IsAvailable reports whether the shift can be booked at now.
func (s *Shift) IsAvailable(now float64) bool {
	return s.Status == ShiftOpen && now >= s.FilledUntil
}

// Book fills the shift and schedules its reopening after an exponential delay
// with rate mu, drawn from stream.
func (s *Shift) Book(now, mu float64, stream *Stream) {
	s.Status = ShiftFilled
	s.FilledUntil = now + stream.Exponential(mu)
}

// CheckReopen reopens a filled shift whose reopen time has been reached.
// Returns true if the shift transitioned to open.
func (s *Shift) CheckReopen(now float64) bool {
	if s.Status == ShiftFilled && now >= s.FilledUntil {
		s.Status = ShiftOpen
		return true
	}
	return false
}

// EffectiveUtility is the base utility plus boost for treated shifts.
func (s *Shift) EffectiveUtility(boost float64) float64 {
	if s.Treated {
		return s.BaseUtility + boost
	}
	return s.BaseUtility
}

// UpdateShiftStatuses runs the reopen check on every shift and returns the
// number of shifts that reopened.
func UpdateShiftStatuses(shifts []*Shift, now float64) int {
	reopened := 0
	for _, s := range shifts {
		if s.CheckReopen(now) {
			reopened++
		}
	}
	return reopened
}

// AvailableShifts filters shifts to those bookable at now, preserving order.
func AvailableShifts(shifts []*Shift, now float64) []*Shift {
	available := make([]*Shift, 0, len(shifts))
	for _, s := range shifts {
		if s.IsAvailable(now) {
			available = append(available, s)
		}
	}
	return available
}
