package sim

import "fmt"

// BookingEvent records a successful match between a nurse and a shift.
// Created exactly once per booking and never mutated afterwards.
type BookingEvent struct {
	Timestamp            float64 // Step time of the booking
	NurseID              int
	ShiftID              int
	NurseTreated         bool
	ShiftTreated         bool
	ConsiderationSetSize int     // Number of shifts the nurse was shown
	ShiftUtility         float64 // Base utility of the booked shift (boost excluded)
	ChoicePosition       int     // 0-indexed rank of the booked shift in the consideration set
}

// String renders the event on one line, for CLI listings and debug logs.
func (e BookingEvent) String() string {
	return fmt.Sprintf("t=%.1f nurse=%d shift=%d treated=%t position=%d/%d utility=%.3f",
		e.Timestamp, e.NurseID, e.ShiftID, e.ShiftTreated, e.ChoicePosition, e.ConsiderationSetSize, e.ShiftUtility)
}
