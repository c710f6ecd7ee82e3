package cmd

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	sim "github.com/inference-sim/market-sim/sim"
	"github.com/inference-sim/market-sim/sim/trace"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(22)
	valueStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

func row(label string, value any) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(fmt.Sprint(value)))
}

func section(title string, rows ...string) string {
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), body))
}

// renderResult renders the headline counters of one run.
func renderResult(res *sim.Result) string {
	rows := []string{
		row("Run ID", res.RunID),
		row("Seed", res.Seed),
		row("Steps", res.Horizon),
		row("Total arrivals", res.TotalArrivals),
		row("Total bookings", res.TotalBookings),
		row("Booking rate", fmt.Sprintf("%.4f", res.BookingRate)),
		row("Treated bookings", res.TreatedBookings),
		row("Control bookings", res.ControlBookings),
	}
	if res.TotalBookings > 0 {
		rows = append(rows, row("Treated share", fmt.Sprintf("%.1f%%", 100*res.TreatedShare())))
	}
	if res.ChoiceFallbacks > 0 {
		rows = append(rows, row("Uniform fallbacks", warnStyle.Render(fmt.Sprint(res.ChoiceFallbacks))))
	}
	return section("Simulation Results", rows...)
}

// renderTracking renders the trace summary and per-shift analysis of a traced
// run. window is the width in steps of the rolling booking rates.
func renderTracking(res *sim.Result, shifts []sim.Shift, k, window int) string {
	summary := trace.Summarize(res.Trace)
	rows := []string{
		row("Mean filled shifts", fmt.Sprintf("%.2f", summary.MeanFilled)),
		row("Peak filled shifts", fmt.Sprintf("%d (step %d)", summary.PeakFilled, summary.PeakFilledStep)),
		row("Fully booked steps", summary.StepsFullyBooked),
		row("Reopenings", summary.TotalReopened),
	}

	util := sim.ShiftUtilization(res.Events, shifts, res.Horizon)
	if len(util) > 0 {
		ids := make([]int, 0, len(util))
		for id := range util {
			ids = append(ids, id)
		}
		// Highest utilization first; ID order among equals.
		sort.Slice(ids, func(i, j int) bool {
			if util[ids[i]] != util[ids[j]] {
				return util[ids[i]] > util[ids[j]]
			}
			return ids[i] < ids[j]
		})
		top, bottom := ids[0], ids[len(ids)-1]
		rows = append(rows,
			row("Most utilized shift", fmt.Sprintf("#%d (%.3f)", top, util[top])),
			row("Least utilized shift", fmt.Sprintf("#%d (%.3f)", bottom, util[bottom])),
		)
	}

	rows = append(rows, occupancyRows(res.Trace)...)
	rows = append(rows, rollingRateRows(res, window)...)

	positions := sim.ChoicePositionCounts(res.Events, k)
	parts := make([]string, len(positions))
	for i, c := range positions {
		parts[i] = fmt.Sprintf("%d:%d", i, c)
	}
	rows = append(rows, row("Choice positions", strings.Join(parts, " ")))
	return section("Market Trace", rows...)
}

// occupancyRows reports the share of recorded steps each shift ended filled.
func occupancyRows(st *trace.SimulationTrace) []string {
	matrix := st.OccupancyMatrix()
	if len(matrix) == 0 {
		return nil
	}
	shares := make([]float64, len(matrix))
	top, bottom := 0, 0
	for i, steps := range matrix {
		filled := 0
		for _, f := range steps {
			if f {
				filled++
			}
		}
		shares[i] = float64(filled) / float64(len(steps))
		if shares[i] > shares[top] {
			top = i
		}
		if shares[i] < shares[bottom] {
			bottom = i
		}
	}
	return []string{
		row("Mean occupancy", fmt.Sprintf("%.3f", sim.CalculateMean(shares))),
		row("Most occupied shift", fmt.Sprintf("#%d (%.3f)", top, shares[top])),
		row("Least occupied shift", fmt.Sprintf("#%d (%.3f)", bottom, shares[bottom])),
	}
}

// rollingRateRows reports the last and peak rolling bookings per step of each
// arm. The window is clamped to the steps executed.
func rollingRateRows(res *sim.Result, window int) []string {
	window = min(window, res.Horizon)
	treated, control := sim.BookingsPerStep(res.Events, res.Horizon)
	times, treatedMeans := sim.RollingMean(treated, window)
	_, controlMeans := sim.RollingMean(control, window)
	if len(times) == 0 {
		return nil
	}
	describe := func(means []float64) string {
		return fmt.Sprintf("last %.3f peak %.3f", means[len(means)-1], slices.Max(means))
	}
	return []string{
		row("Rolling window", fmt.Sprintf("%d steps (centers %d..%d)", window, times[0], times[len(times)-1])),
		row("Rolling treated/step", describe(treatedMeans)),
		row("Rolling control/step", describe(controlMeans)),
	}
}

// renderEvents lists the first n booking events.
func renderEvents(events []sim.BookingEvent, n int) string {
	n = min(n, len(events))
	rows := make([]string, 0, n+1)
	for _, ev := range events[:n] {
		rows = append(rows, ev.String())
	}
	if n < len(events) {
		rows = append(rows, labelStyle.Render(fmt.Sprintf("... %d more", len(events)-n)))
	}
	if len(rows) == 0 {
		rows = append(rows, warnStyle.Render("no bookings"))
	}
	return section(fmt.Sprintf("Booking Events (first %d)", n), rows...)
}

// renderReplications summarizes booking rates across replicated runs.
func renderReplications(results []*sim.Result) string {
	rates := make([]float64, len(results))
	treatedShares := make([]float64, len(results))
	rows := make([]string, 0, len(results)+2)
	for i, res := range results {
		rates[i] = res.BookingRate
		treatedShares[i] = res.TreatedShare()
		rows = append(rows, row(fmt.Sprintf("Seed %d", res.Seed),
			fmt.Sprintf("rate=%.4f bookings=%d/%d", res.BookingRate, res.TotalBookings, res.TotalArrivals)))
	}
	rows = append(rows,
		row("Mean booking rate", fmt.Sprintf("%.4f", sim.CalculateMean(rates))),
		row("Mean treated share", fmt.Sprintf("%.4f", sim.CalculateMean(treatedShares))),
	)
	return section(fmt.Sprintf("Replications (%d)", len(results)), rows...)
}
