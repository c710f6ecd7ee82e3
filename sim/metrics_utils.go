// sim/metrics_utils.go
package sim

import (
	"gonum.org/v1/gonum/stat"
)

// IntOrFloat64 constrains the numeric series helpers.
type IntOrFloat64 interface {
	int | int64 | float64
}

// CalculateMean returns the arithmetic mean of numbers, 0 for an empty slice.
func CalculateMean[T IntOrFloat64](numbers []T) float64 {
	if len(numbers) == 0 {
		return 0
	}
	return stat.Mean(toFloat64s(numbers), nil)
}

func toFloat64s[T IntOrFloat64](xs []T) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

// ShiftUtilization returns, per shift ID, bookings per step over the horizon,
// capped at 1. Shifts with no bookings map to 0; a non-positive horizon maps
// every shift to 0.
func ShiftUtilization(events []BookingEvent, shifts []Shift, horizon int) map[int]float64 {
	counts := make(map[int]int, len(shifts))
	for _, ev := range events {
		counts[ev.ShiftID]++
	}
	utilization := make(map[int]float64, len(shifts))
	for _, sh := range shifts {
		rate := 0.0
		if horizon > 0 {
			rate = float64(counts[sh.ID]) / float64(horizon)
		}
		utilization[sh.ID] = min(rate, 1.0)
	}
	return utilization
}

// ChoicePositionCounts histograms the choice positions of events over k ranks.
// Positions outside [0, k) are ignored.
func ChoicePositionCounts(events []BookingEvent, k int) []int {
	if k <= 0 {
		return []int{}
	}
	counts := make([]int, k)
	for _, ev := range events {
		if ev.ChoicePosition >= 0 && ev.ChoicePosition < k {
			counts[ev.ChoicePosition]++
		}
	}
	return counts
}

// BookingsPerStep splits bookings by shift arm and counts them per time step.
// Events timestamped outside [0, horizon) are dropped.
func BookingsPerStep(events []BookingEvent, horizon int) (treated, control []int) {
	if horizon <= 0 {
		return []int{}, []int{}
	}
	treated = make([]int, horizon)
	control = make([]int, horizon)
	for _, ev := range events {
		t := int(ev.Timestamp)
		if t < 0 || t >= horizon {
			continue
		}
		if ev.ShiftTreated {
			treated[t]++
		} else {
			control[t]++
		}
	}
	return treated, control
}

// RollingMean slides a window of the given width over series and returns the
// mean of each full window, labelled with the window's center step. A series
// shorter than the window, or a non-positive window, yields empty slices.
func RollingMean[T IntOrFloat64](series []T, window int) (times []int, means []float64) {
	times, means = []int{}, []float64{}
	if window <= 0 || len(series) < window {
		return times, means
	}
	values := toFloat64s(series)
	for end := window; end <= len(values); end++ {
		means = append(means, stat.Mean(values[end-window:end], nil))
		times = append(times, end-window/2)
	}
	return times, means
}
