package sampler

import (
	"math/rand"
	"time"
)

// Candidate is a card eligible for selection together with its weight.
type Candidate struct {
	ID     int64
	Weight float64
}

// Sampler draws one candidate at random, proportionally to its weight.
// A Sampler is not safe for concurrent use.
type Sampler struct {
	rng *rand.Rand
}

// New returns a Sampler backed by rng.
func New(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// NewSeeded returns a Sampler with a deterministic source. A zero seed
// selects a time-based seed.
func NewSeeded(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return New(rand.New(rand.NewSource(seed)))
}

// PickOne returns the ID of the chosen candidate. It returns false when
// there is nothing to choose from. When no candidate has a positive weight
// every candidate is equally likely.
func (s *Sampler) PickOne(candidates []Candidate) (int64, bool) {
	if len(candidates) == 0 {
		return 0, false
	}

	var total float64
	for _, c := range candidates {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return candidates[s.rng.Intn(len(candidates))].ID, true
	}

	// Walk the cumulative segments until the point is covered.
	point := s.rng.Float64() * total
	var cumulative float64
	last := 0
	for i, c := range candidates {
		if c.Weight <= 0 {
			continue
		}
		cumulative += c.Weight
		last = i
		if point < cumulative {
			return c.ID, true
		}
	}
	// Rounding can leave point at the very end of the line.
	return candidates[last].ID, true
}
