package gacha

import (
	"errors"
	"math"
)

var ErrInvalidProb = errors.New("probability must be within 0..1")

// ValidProb reports whether p is a usable probability.
func ValidProb(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}

// Draw reports whether a single roll lands under p. Exactly one roll is
// consumed for every valid p, so seeded sequences stay aligned whatever the
// probability. p == 0 never hits and p == 1 always hits.
func Draw(p float64, rng RandomSource) (bool, error) {
	if !ValidProb(p) {
		return false, ErrInvalidProb
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}
