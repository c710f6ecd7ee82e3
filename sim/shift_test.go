package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShift_OpenAndAvailable(t *testing.T) {
	s := NewShift(3, 0.7, true)

	assert.Equal(t, 3, s.ID)
	assert.Equal(t, ShiftOpen, s.Status)
	assert.Equal(t, 0.0, s.FilledUntil)
	assert.True(t, s.IsAvailable(0), "a never-booked shift is available at t=0")
}

func TestShift_Book_UnavailableUntilReopen(t *testing.T) {
	// GIVEN an open shift
	s := NewShift(0, 0, false)
	stream := NewStream(NewSimulationKey(42))

	// WHEN it is booked at t0=5 with mu=0.1
	s.Book(5, 0.1, stream)

	// THEN it is filled, unavailable at t0, and due at a reopen time >= t0
	assert.Equal(t, ShiftFilled, s.Status)
	assert.GreaterOrEqual(t, s.FilledUntil, 5.0)
	assert.False(t, s.IsAvailable(5))

	// WHEN the reopen check runs before the reopen time
	assert.False(t, s.CheckReopen(s.FilledUntil-1e-9))
	assert.Equal(t, ShiftFilled, s.Status)

	// THEN at the reopen time it reopens and becomes available
	assert.True(t, s.CheckReopen(s.FilledUntil))
	assert.Equal(t, ShiftOpen, s.Status)
	assert.True(t, s.IsAvailable(s.FilledUntil))
}

func TestShift_CheckReopen_OpenShift_NoOp(t *testing.T) {
	s := NewShift(0, 0, false)
	assert.False(t, s.CheckReopen(100))
	assert.Equal(t, ShiftOpen, s.Status)
}

func TestShift_IsAvailable_FilledShift_NotAvailableBeforeCheck(t *testing.T) {
	// GIVEN a shift whose reopen time has passed but has not been checked
	s := NewShift(0, 0, false)
	s.Status = ShiftFilled
	s.FilledUntil = 2

	// THEN it stays unavailable until the reopen check flips its status
	assert.False(t, s.IsAvailable(10))
	s.CheckReopen(10)
	assert.True(t, s.IsAvailable(10))
}

func TestShift_EffectiveUtility(t *testing.T) {
	treated := NewShift(0, 1.0, true)
	control := NewShift(1, 1.0, false)

	assert.Equal(t, 1.5, treated.EffectiveUtility(0.5))
	assert.Equal(t, 1.0, control.EffectiveUtility(0.5))
	assert.Equal(t, 0.5, treated.EffectiveUtility(-0.5))
}

func TestUpdateShiftStatuses_CountsReopened(t *testing.T) {
	// GIVEN two filled shifts due at t=3 and t=8 and one open shift
	shifts := []*Shift{
		{ID: 0, Status: ShiftFilled, FilledUntil: 3},
		{ID: 1, Status: ShiftFilled, FilledUntil: 8},
		NewShift(2, 0, false),
	}

	// WHEN statuses are updated at t=5
	reopened := UpdateShiftStatuses(shifts, 5)

	// THEN only the shift due at t=3 reopened
	assert.Equal(t, 1, reopened)
	assert.Equal(t, ShiftOpen, shifts[0].Status)
	assert.Equal(t, ShiftFilled, shifts[1].Status)
}

func TestAvailableShifts_PreservesOrder(t *testing.T) {
	shifts := []*Shift{
		NewShift(0, 0, false),
		{ID: 1, Status: ShiftFilled, FilledUntil: 10},
		NewShift(2, 0, true),
	}

	available := AvailableShifts(shifts, 1)

	require.Len(t, available, 2)
	assert.Equal(t, 0, available[0].ID)
	assert.Equal(t, 2, available[1].ID)
}

func TestAvailableShifts_NoneAvailable_Empty(t *testing.T) {
	shifts := []*Shift{{ID: 0, Status: ShiftFilled, FilledUntil: 10}}
	assert.Empty(t, AvailableShifts(shifts, 1))
}
