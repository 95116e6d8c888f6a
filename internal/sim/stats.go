package sim

import (
	"math"
	"slices"
)

// Stats summarizes the per-trial metric of a run.
type Stats struct {
	Trials int     `json:"trials"`
	Mean   float64 `json:"mean"`
	Var    float64 `json:"var"`
	StdDev float64 `json:"stddev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`

	Samples []int `json:"-"`
}

func calcStats(samples []int) Stats {
	if len(samples) == 0 {
		return Stats{}
	}
	n := float64(len(samples))

	var sum, sumSq float64
	for _, v := range samples {
		sum += float64(v)
	}
	mean := sum / n
	for _, v := range samples {
		d := float64(v) - mean
		sumSq += d * d
	}
	// population variance
	variance := sumSq / n

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	return Stats{
		Trials:  len(samples),
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		Min:     sorted[0],
		Max:     sorted[len(sorted)-1],
		P50:     quantile(sorted, 0.50),
		P90:     quantile(sorted, 0.90),
		P99:     quantile(sorted, 0.99),
		Samples: samples,
	}
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []int, q float64) float64 {
	last := len(sorted) - 1
	pos := math.Min(math.Max(q, 0), 1) * float64(last)
	lo := int(pos)
	if lo >= last {
		return float64(sorted[last])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo]) + frac*float64(sorted[lo+1]-sorted[lo])
}
