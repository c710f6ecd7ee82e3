package sim

// ArrivalGenerator produces the nurses arriving in each time step.
// Nurse IDs come from a run-level counter, so they are unique and increase
// in arrival order across the whole run.
type ArrivalGenerator struct {
	rate          float64 // Poisson mean arrivals per step
	treatmentProb float64
	stream        *Stream
	nextID        int
}

// NewArrivalGenerator creates a generator drawing from stream.
func NewArrivalGenerator(rate, treatmentProb float64, stream *Stream) *ArrivalGenerator {
	return &ArrivalGenerator{
		rate:          rate,
		treatmentProb: treatmentProb,
		stream:        stream,
	}
}

// Generate draws the arrivals for the step at now: one Poisson count draw,
// then one treatment draw per nurse in arrival order.
// Callers must resolve and count the returned slice; calling Generate again
// for the same step samples a different, independent set of nurses.
func (g *ArrivalGenerator) Generate(now float64) []Nurse {
	n := g.stream.Poisson(g.rate)
	arrivals := make([]Nurse, n)
	for i := range arrivals {
		arrivals[i] = Nurse{
			ID:        g.nextID,
			ArrivedAt: now,
			Treated:   g.stream.Bernoulli(g.treatmentProb),
		}
		g.nextID++
	}
	return arrivals
}

// Generated returns how many nurses have been generated so far.
func (g *ArrivalGenerator) Generated() int {
	return g.nextID
}
