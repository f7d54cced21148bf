package forecast

// Project applies linear growth to a byte total for each horizon:
// projected(h) = total x (1 + growth x h). Growth over h years is h times
// one year's growth added once to the base, never compounded. Negative
// growth projects below the base, a valid shrinkage forecast.
func Project(totalBytes int64, growth float64, horizons ...int) map[int]float64 {
	projections := make(map[int]float64, len(horizons))
	for _, h := range horizons {
		projections[h] = float64(totalBytes) * (1 + growth*float64(h))
	}
	return projections
}
