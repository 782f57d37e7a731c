package mathutil

import "math"

// LogZero represents log(0), used as negative infinity in log-domain arithmetic.
const LogZero = -1e30

// Viable reports whether a log-domain score is above the LogZero floor.
// NaN and -Inf are never viable.
func Viable(v float64) bool {
	return v > LogZero+1
}

// LogSumExp returns log(sum(exp(v))) without overflow.
func LogSumExp(v []float64) float64 {
	maxVal := math.Inf(-1)
	for _, x := range v {
		if x > maxVal {
			maxVal = x
		}
	}
	if math.IsInf(maxVal, -1) {
		return maxVal
	}
	sum := 0.0
	for _, x := range v {
		sum += math.Exp(x - maxVal)
	}
	return maxVal + math.Log(sum)
}

// LogSoftmax normalizes v in place so that exp(v) sums to one.
func LogSoftmax(v []float64) {
	lse := LogSumExp(v)
	for i := range v {
		v[i] -= lse
	}
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
