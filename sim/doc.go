// Package sim provides the discrete-time marketplace simulation engine: nurses
// arrive each step and book shifts through a position-weighted choice model,
// and booked shifts reopen after a random delay.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - shift.go: Shift availability state machine (open → filled → open)
//   - choice.go: consideration-set ranking, choice probabilities and sampling
//   - simulator.go: the step loop, arrival resolution and initialization
//
// # Determinism
//
// A run draws every random number from one Stream (rng.go), in a fixed order:
// shift initialization, then per step the arrival count, the nurse treatment
// draws and, per nurse in arrival order, the choice and the reopening delay.
// Identical Config and seed give identical event logs.
//
// # Outputs
//
// Run returns a Result (metrics.go) folded from the booking-event log.
// metrics_utils.go holds read-only analysis helpers over that log, and the
// sim/trace sub-package holds per-step snapshots recorded with WithTrace.
package sim
