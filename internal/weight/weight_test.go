package weight

import (
	"math"
	"testing"
)

func TestUpdate(t *testing.T) {
	testCases := []struct {
		name     string
		current  float64
		correct  bool
		expected float64
	}{
		{name: "Correct decays", current: 0.5, correct: true, expected: 0.35},
		{name: "Incorrect boosts", current: 0.5, correct: false, expected: 0.65},
		{name: "Floor holds", current: 0.1, correct: true, expected: 0.1},
		{name: "Ceiling holds", current: 1.0, correct: false, expected: 1.0},
		{name: "Decay clamps to floor", current: 0.12, correct: true, expected: 0.1},
		{name: "Boost clamps to ceiling", current: 0.9, correct: false, expected: 1.0},
		{name: "Negative input clamps", current: -3, correct: false, expected: 0.1},
		{name: "Oversized input clamps", current: 7, correct: true, expected: 1.0},
		{name: "Zero input clamps", current: 0, correct: false, expected: 0.1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Update(tc.current, tc.correct)
			if math.Abs(got-tc.expected) > 1e-9 {
				t.Errorf("Expected Update(%.2f, %t) to be %.4f, but got %.4f", tc.current, tc.correct, tc.expected, got)
			}
		})
	}
}

func TestUpdateBounds(t *testing.T) {
	p := DefaultParams()
	for w := 0.1; w <= 1.0; w += 0.001 {
		for _, correct := range []bool{true, false} {
			got := p.Update(w, correct)
			if !p.InRange(got) {
				t.Fatalf("Update(%.3f, %t) = %.4f is outside [%.1f, %.1f]", w, correct, got, p.Min, p.Max)
			}
		}
	}
}

func TestUpdateDirection(t *testing.T) {
	p := DefaultParams()
	for w := 0.11; w < 1.0; w += 0.01 {
		if got := p.Update(w, true); got > w {
			t.Errorf("Expected a correct answer to lower %.2f, but got %.4f", w, got)
		}
		if got := p.Update(w, false); got <= w {
			t.Errorf("Expected an incorrect answer to raise %.2f, but got %.4f", w, got)
		}
		// Strict below the floor region.
		if w*p.Decay > p.Min {
			if got := p.Update(w, true); got >= w {
				t.Errorf("Expected a strict decrease from %.2f, but got %.4f", w, got)
			}
		}
	}
}

func TestClamp(t *testing.T) {
	p := DefaultParams()
	if got := p.Clamp(math.NaN()); got != p.Min {
		t.Errorf("Expected NaN to clamp to %.1f, but got %v", p.Min, got)
	}
	if got := p.Clamp(0.42); got != 0.42 {
		t.Errorf("Expected an in-range weight to be unchanged, but got %v", got)
	}
	if p.InRange(0.05) || p.InRange(1.01) {
		t.Error("Expected out-of-range weights to be reported as such")
	}
}
