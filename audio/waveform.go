package audio

import "time"

// Waveform is mono PCM audio normalized to [-1.0, 1.0].
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the length of the waveform in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Length returns the waveform duration as a time.Duration.
func (w Waveform) Length() time.Duration {
	return time.Duration(w.Duration() * float64(time.Second))
}

// PadTrailing returns a copy of w with n zero samples appended.
func PadTrailing(w Waveform, n int) Waveform {
	if n <= 0 {
		return w
	}
	samples := make([]float64, len(w.Samples)+n)
	copy(samples, w.Samples)
	return Waveform{Samples: samples, SampleRate: w.SampleRate}
}
