package weight

import "math"

// Initial is the weight given to a newly created card and restored by a reset.
const Initial = 0.5

// Params holds the factors of the weight update rule.
type Params struct {
	Decay float64 // applied after a correct answer
	Boost float64 // applied after an incorrect answer
	Min   float64 // floor, keeps every card reachable
	Max   float64 // ceiling, keeps any card from dominating
}

// DefaultParams returns the standard update factors.
func DefaultParams() *Params {
	return &Params{
		Decay: 0.7,
		Boost: 1.3,
		Min:   0.1,
		Max:   1.0,
	}
}

// Update returns the weight a card should carry after being judged.
// Correct answers make the card less likely to be drawn again and
// incorrect answers more likely. The result always lies in [Min, Max].
func (p *Params) Update(current float64, correct bool) float64 {
	factor := p.Boost
	if correct {
		factor = p.Decay
	}
	return p.Clamp(current * factor)
}

// Clamp forces w into [Min, Max]. NaN is mapped to Min.
func (p *Params) Clamp(w float64) float64 {
	if math.IsNaN(w) {
		return p.Min
	}
	return math.Max(p.Min, math.Min(w, p.Max))
}

// InRange reports whether w is a valid stored weight.
func (p *Params) InRange(w float64) bool {
	return w >= p.Min && w <= p.Max
}

// Update applies the default parameters.
func Update(current float64, correct bool) float64 {
	return DefaultParams().Update(current, correct)
}
