package feature

import "math"

// PreEmphasize applies a first-order high-pass filter: y[n] = x[n] - alpha*x[n-1].
func PreEmphasize(samples []float64, alpha float64) []float64 {
	out := make([]float64, len(samples))
	if len(samples) == 0 {
		return out
	}
	out[0] = samples[0]
	for i := 1; i < len(samples); i++ {
		out[i] = samples[i] - alpha*samples[i-1]
	}
	return out
}

// Frame splits samples into overlapping frames.
// frameLen and frameShift are in number of samples.
func Frame(samples []float64, frameLen, frameShift int) [][]float64 {
	n := len(samples)
	if n < frameLen || frameShift <= 0 {
		return nil
	}
	numFrames := 1 + (n-frameLen)/frameShift
	frames := make([][]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		start := i * frameShift
		frames[i] = samples[start : start+frameLen]
	}
	return frames
}

// hammingWindow returns Hamming window coefficients of length n.
func hammingWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// ApplyCMN subtracts the utterance-level mean from each feature dimension.
func ApplyCMN(features [][]float64) {
	T := len(features)
	if T == 0 {
		return
	}
	dim := len(features[0])
	mean := make([]float64, dim)
	for t := 0; t < T; t++ {
		for d := 0; d < dim; d++ {
			mean[d] += features[t][d]
		}
	}
	invT := 1.0 / float64(T)
	for d := 0; d < dim; d++ {
		mean[d] *= invT
	}
	for t := 0; t < T; t++ {
		for d := 0; d < dim; d++ {
			features[t][d] -= mean[d]
		}
	}
}
