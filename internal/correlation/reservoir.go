package correlation

import (
	"math/rand/v2"
	"time"
)

// DefaultMaxPoints is the reservoir capacity used when none is given.
const DefaultMaxPoints = 2000

// Point is one sampled (x, y) pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Reservoir keeps a uniform random sample of at most a fixed number of
// points from a stream of unknown length in a single pass (Algorithm R).
type Reservoir struct {
	max    int
	rng    *rand.Rand
	points []Point
	seen   int
}

// NewReservoir creates a reservoir holding at most maxPoints points. A
// non-positive maxPoints uses DefaultMaxPoints; a nil rng is seeded from the
// clock.
func NewReservoir(maxPoints int, rng *rand.Rand) *Reservoir {
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	if rng == nil {
		//nolint:gosec // sampling for charts, not security
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Reservoir{
		max:    maxPoints,
		rng:    rng,
		points: make([]Point, 0, min(maxPoints, 1024)),
	}
}

// NewSeededReservoir creates a reservoir with a deterministic PCG source.
// A zero seed falls back to the clock.
func NewSeededReservoir(maxPoints int, seed uint64) *Reservoir {
	if seed == 0 {
		return NewReservoir(maxPoints, nil)
	}
	//nolint:gosec // sampling for charts, not security
	return NewReservoir(maxPoints, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Offer presents the next valid pair. The i-th pair is kept with
// probability max/i, replacing a uniformly chosen current point.
func (r *Reservoir) Offer(x, y float64) {
	r.seen++
	p := Point{X: x, Y: y}
	if len(r.points) < r.max {
		r.points = append(r.points, p)
		return
	}
	if j := r.rng.IntN(r.seen); j < r.max {
		r.points[j] = p
	}
}

// Points returns a copy of the current sample.
func (r *Reservoir) Points() []Point {
	out := make([]Point, len(r.points))
	copy(out, r.points)
	return out
}

// Seen returns how many pairs were offered.
func (r *Reservoir) Seen() int {
	return r.seen
}

// Cap returns the maximum sample size.
func (r *Reservoir) Cap() int {
	return r.max
}
