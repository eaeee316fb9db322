package energy

// ComputeDeltas returns the difference between each cumulative value and the
// one before it. The first value has no predecessor so its delta is 0.
// Negative deltas are kept: they mean the counter went backwards or the site
// drew more than it produced.
func ComputeDeltas(values []float64) []float64 {
	deltas := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		deltas[i] = values[i] - values[i-1]
	}
	return deltas
}
