package sim

import (
	"hash/fnv"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two simulations with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical event logs.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// RandomSimulationKey draws a key from the runtime's auto-seeded generator.
// Used when no seed is configured; the drawn key is reported on the Result so
// the run can still be replayed.
func RandomSimulationKey() SimulationKey {
	return SimulationKey(rand.Int64())
}

// streamName seeds the second PCG word so that keys map onto a fixed family of streams.
const streamName = "market"

// === Stream ===

// Stream is the single pseudo-random stream a run draws from.
//
// Every draw of a run goes through one Stream, in a fixed order:
// shift initialization, then per step the arrival count, the per-nurse
// treatment draws and the per-nurse choice and reopening draws.
// The gonum distributions share the same underlying source, so mixing
// Stream helpers and distuv types never forks the sequence.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type Stream struct {
	key SimulationKey
	src rand.Source
	rng *rand.Rand
}

// NewStream creates a Stream seeded from key.
func NewStream(key SimulationKey) *Stream {
	src := rand.NewPCG(uint64(key), uint64(fnv1a64(streamName)))
	return &Stream{
		key: key,
		src: src,
		rng: rand.New(src),
	}
}

// Key returns the SimulationKey used to create this Stream.
func (s *Stream) Key() SimulationKey {
	return s.key
}

// Source exposes the underlying source for gonum distributions.
func (s *Stream) Source() rand.Source {
	return s.src
}

// Float64 returns a uniform draw in [0, 1).
func (s *Stream) Float64() float64 {
	return s.rng.Float64()
}

// IntN returns a uniform draw in [0, n). n must be positive.
func (s *Stream) IntN(n int) int {
	return s.rng.IntN(n)
}

// Normal draws from N(mu, sigma²).
func (s *Stream) Normal(mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma, Src: s.src}.Rand()
}

// Bernoulli returns true with probability p.
func (s *Stream) Bernoulli(p float64) bool {
	return distuv.Bernoulli{P: p, Src: s.src}.Rand() == 1
}

// Poisson draws an event count with mean lambda.
// A non-positive lambda yields 0 without consuming the stream.
func (s *Stream) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	return int(distuv.Poisson{Lambda: lambda, Src: s.src}.Rand())
}

// Exponential draws a waiting time with the given rate (mean 1/rate).
func (s *Stream) Exponential(rate float64) float64 {
	return distuv.Exponential{Rate: rate, Src: s.src}.Rand()
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
