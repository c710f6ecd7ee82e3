// sim/simulator.go
package sim

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/market-sim/sim/trace"
)

// utilityMean and utilityStdDev parameterize the base-utility draw of each shift.
const (
	utilityMean   = 0.0
	utilityStdDev = 1.0
)

// drawRandomKey supplies the key of an unseeded run.
var drawRandomKey = RandomSimulationKey

// Option configures optional Simulator behavior.
type Option func(*Simulator)

// WithTrace records a trace.StepRecord after every time step when cfg is
// enabled; a disabled config leaves the run untraced.
// Tracing only reads market state and never touches the random stream, so a
// traced run produces the same event log as an untraced run with the same seed.
func WithTrace(cfg trace.TraceConfig) Option {
	return func(s *Simulator) {
		if !cfg.Enabled() {
			s.trace = nil
			return
		}
		s.trace = trace.NewSimulationTrace(cfg)
	}
}

// StepOutcome is what a single time step produced.
type StepOutcome struct {
	Timestep int
	Arrivals int            // len of the arrival sample that was resolved
	Reopened int            // shifts reopened by the check at the start of the step
	Events   []BookingEvent // bookings made in the step, in arrival order
}

// Simulator is the core object that owns the shift population, the random
// stream and the event log of one run.
//
// Thread-safety: NOT thread-safe. A Simulator runs on a single goroutine;
// run independent replications with independent Simulators.
type Simulator struct {
	cfg      Config
	stream   *Stream
	shifts   []*Shift
	arrivals *ArrivalGenerator

	events    []BookingEvent
	nextStep  int
	fallbacks int // choices that degraded to a uniform draw

	runID string
	trace *trace.SimulationTrace // nil unless WithTrace is enabled
}

// NewSimulator validates cfg, seeds the run's stream and draws the shift
// population. When cfg.RandomSeed is nil a random key is drawn and reported on
// the Result so the run can be replayed.
func NewSimulator(cfg Config, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	var key SimulationKey
	if cfg.RandomSeed != nil {
		key = NewSimulationKey(*cfg.RandomSeed)
	} else {
		key = drawRandomKey()
	}
	stream := NewStream(key)

	s := &Simulator{
		cfg:      cfg,
		stream:   stream,
		arrivals: NewArrivalGenerator(cfg.LambdaC, cfg.TreatmentProb, stream),
		events:   make([]BookingEvent, 0),
		runID:    uuid.New().String(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.initializeShifts()

	logrus.Infof("Simulator %s created: seed=%d shifts=%d horizon=%d lambda=%.3f mu=%.3f k=%d",
		s.runID, int64(key), cfg.NShifts, cfg.Horizon, cfg.LambdaC, cfg.Mu, cfg.K)
	return s, nil
}

// initializeShifts draws, per shift in ID order, one normal base utility and
// then one treatment assignment.
func (s *Simulator) initializeShifts() {
	s.shifts = make([]*Shift, s.cfg.NShifts)
	treated := 0
	for i := range s.shifts {
		u := s.stream.Normal(utilityMean, utilityStdDev)
		t := s.stream.Bernoulli(s.cfg.TreatmentProb)
		if t {
			treated++
		}
		s.shifts[i] = NewShift(i, u, t)
	}
	logrus.Debugf("Initialized %d shifts (%d treated)", len(s.shifts), treated)
}

// Config returns a copy of the configuration the simulator runs with.
func (s *Simulator) Config() Config {
	return s.cfg.Clone()
}

// Seed returns the seed the run's stream was created from.
func (s *Simulator) Seed() int64 {
	return int64(s.stream.Key())
}

// RunID returns the identifier attached to this run's Result.
func (s *Simulator) RunID() string {
	return s.runID
}

// Shifts returns a snapshot of the shift population.
func (s *Simulator) Shifts() []Shift {
	out := make([]Shift, len(s.shifts))
	for i, sh := range s.shifts {
		out[i] = *sh
	}
	return out
}

// Events returns the bookings made so far, in creation order.
func (s *Simulator) Events() []BookingEvent {
	return append([]BookingEvent(nil), s.events...)
}

// TotalArrivals returns the number of nurses resolved so far. Every generated
// nurse is resolved in its own step, so this is the generator's count.
func (s *Simulator) TotalArrivals() int {
	return s.arrivals.Generated()
}

// ChoiceFallbacks returns how many choices so far degraded to a uniform draw.
func (s *Simulator) ChoiceFallbacks() int {
	return s.fallbacks
}

// ProcessNurseChoice resolves one nurse at time now: filter available shifts,
// rank the consideration set, compute choice probabilities, sample a shift and
// book it. Returns false when no shift is available, or (never in practice) when
// sampling yields no index. Only the chosen shift is mutated.
func (s *Simulator) ProcessNurseChoice(nurse Nurse, now float64) (BookingEvent, bool) {
	available := AvailableShifts(s.shifts, now)
	if len(available) == 0 {
		return BookingEvent{}, false
	}
	set := SelectConsiderationSet(available, s.cfg)
	probs := ChoiceProbabilities(set, s.cfg)
	idx, ok, uniform := sampleChoice(probs, s.stream)
	if uniform {
		s.fallbacks++
	}
	if !ok {
		return BookingEvent{}, false
	}
	chosen := set[idx]
	chosen.Book(now, s.cfg.Mu, s.stream)

	return BookingEvent{
		Timestamp:            now,
		NurseID:              nurse.ID,
		ShiftID:              chosen.ID,
		NurseTreated:         nurse.Treated,
		ShiftTreated:         chosen.Treated,
		ConsiderationSetSize: len(set),
		ShiftUtility:         chosen.BaseUtility,
		ChoicePosition:       idx,
	}, true
}

// Step advances the market through time step t: reopen-check every shift,
// sample the step's arrivals once, then resolve them sequentially so each
// nurse sees the bookings of the nurses before it.
func (s *Simulator) Step(t int) StepOutcome {
	now := float64(t)
	out := StepOutcome{Timestep: t}

	out.Reopened = UpdateShiftStatuses(s.shifts, now)

	nurses := s.arrivals.Generate(now)
	out.Arrivals = len(nurses)
	for _, nurse := range nurses {
		if ev, ok := s.ProcessNurseChoice(nurse, now); ok {
			out.Events = append(out.Events, ev)
		}
	}

	s.events = append(s.events, out.Events...)
	s.nextStep = t + 1

	if s.trace != nil {
		s.recordStep(out, now)
	}
	logrus.Debugf("[step %06d] arrivals=%d bookings=%d reopened=%d", t, out.Arrivals, len(out.Events), out.Reopened)
	return out
}

func (s *Simulator) recordStep(out StepOutcome, now float64) {
	statuses := make([]string, len(s.shifts))
	available := 0
	for i, sh := range s.shifts {
		if sh.IsAvailable(now) {
			available++
			statuses[i] = trace.StatusOpen
		} else {
			statuses[i] = trace.StatusFilled
		}
	}
	s.trace.RecordStep(trace.StepRecord{
		Timestep:       out.Timestep,
		ShiftStatuses:  statuses,
		AvailableCount: available,
		FilledCount:    len(s.shifts) - available,
		Reopened:       out.Reopened,
		Arrivals:       out.Arrivals,
		Bookings:       len(out.Events),
	})
}

// Run executes the remaining steps up to the horizon and aggregates the event
// log. ctx is checked between steps only; a cancelled run returns the result
// of the steps completed so far.
func (s *Simulator) Run(ctx context.Context) *Result {
	for t := s.nextStep; t < s.cfg.Horizon; t++ {
		if err := ctx.Err(); err != nil {
			logrus.Warnf("Run %s interrupted at step %d: %v", s.runID, t, err)
			break
		}
		s.Step(t)
	}
	if s.fallbacks > 0 {
		logrus.Warnf("Run %s: %d choices had no valid probability vector and fell back to a uniform draw (treatment_boost=%g)",
			s.runID, s.fallbacks, s.cfg.TreatmentBoost)
	}
	res := s.Result()
	logrus.Infof("Run %s ended: arrivals=%d bookings=%d rate=%.4f",
		s.runID, res.TotalArrivals, res.TotalBookings, res.BookingRate)
	return res
}

// Result aggregates the current event log with the run's metadata.
func (s *Simulator) Result() *Result {
	res := Aggregate(s.Events(), s.TotalArrivals())
	res.RunID = s.runID
	res.Seed = s.Seed()
	res.Horizon = s.nextStep
	res.ChoiceFallbacks = s.fallbacks
	res.Trace = s.trace
	return res
}

// RunSimulation builds a Simulator for cfg and runs it to the horizon.
func RunSimulation(ctx context.Context, cfg Config, opts ...Option) (*Result, error) {
	s, err := NewSimulator(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx), nil
}
