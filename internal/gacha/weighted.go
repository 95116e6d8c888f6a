package gacha

// PickWeighted walks the cumulative weights with one roll and returns the
// chosen index. Weights need not sum to 1; non-positive weights are never
// chosen. Returns -1 when no weight is positive.
func PickWeighted(weights []float64, rng RandomSource) int {
	var total float64
	last := -1
	for i, w := range weights {
		if w > 0 {
			total += w
			last = i
		}
	}
	if last < 0 {
		return -1
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	roll := rng.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if roll < w {
			return i
		}
		roll -= w
	}
	// float drift on the last bucket
	return last
}
