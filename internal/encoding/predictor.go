package encoding

// MaxOrder is the highest fixed predictor order.
const MaxOrder = 4

// predict returns the fixed polynomial prediction of x[i] from the previous order samples.
func predict(x []int32, i int, order int) int64 {
	switch order {
	case 0:
		return 0
	case 1:
		return int64(x[i-1])
	case 2:
		return 2*int64(x[i-1]) - int64(x[i-2])
	case 3:
		return 3*int64(x[i-1]) - 3*int64(x[i-2]) + int64(x[i-3])
	default:
		return 4*int64(x[i-1]) - 6*int64(x[i-2]) + 4*int64(x[i-3]) - int64(x[i-4])
	}
}

// Residuals writes x[i] - prediction(i) for every i >= order into dst and returns it.
func Residuals(dst []int64, x []int32, order int) []int64 {
	dst = dst[:0]
	for i := order; i < len(x); i++ {
		dst = append(dst, int64(x[i])-predict(x, i, order))
	}

	return dst
}

// BestOrder returns the predictor order in [0, maxOrder] with the smallest
// sum of absolute residuals, preferring lower orders on ties.
func BestOrder(x []int32, maxOrder int) int {
	maxOrder = max(min(maxOrder, MaxOrder, len(x)-1), 0)

	// every order is scored over the same samples, past the longest warmup
	var costs [MaxOrder + 1]uint64
	for i := maxOrder; i < len(x); i++ {
		for order := 0; order <= maxOrder; order++ {
			r := int64(x[i]) - predict(x, i, order)
			if r < 0 {
				r = -r
			}
			costs[order] += uint64(r) //nolint:gosec
		}
	}

	best := 0
	for order := 1; order <= maxOrder; order++ {
		if costs[order] < costs[best] {
			best = order
		}
	}

	return best
}

// Restore rebuilds samples in place: x[:order] must already hold the warmup
// samples and residuals the remaining len(x)-order residuals.
func Restore(x []int32, residuals []int64, order int) {
	for i := order; i < len(x); i++ {
		x[i] = int32(residuals[i-order] + predict(x, i, order)) //nolint:gosec
	}
}
