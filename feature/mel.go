package feature

import "math"

// sparseFilter stores only the non-zero range of a triangular filter.
type sparseFilter struct {
	start  int
	coeffs []float64
}

// MelFilterbank is a bank of triangular Mel-spaced filters.
type MelFilterbank struct {
	filters []sparseFilter
}

// NewMelFilterbank constructs the filterbank.
func NewMelFilterbank(numFilters, fftSize, sampleRate int, lowFreq, highFreq float64) *MelFilterbank {
	nBins := fftSize/2 + 1
	lowMel, highMel := hzToMel(lowFreq), hzToMel(highFreq)

	bins := make([]int, numFilters+2)
	step := (highMel - lowMel) / float64(numFilters+1)
	for i := range bins {
		freq := melToHz(lowMel + float64(i)*step)
		bins[i] = int(math.Floor(freq * float64(fftSize+1) / float64(sampleRate)))
	}

	fb := &MelFilterbank{filters: make([]sparseFilter, numFilters)}
	for i := 0; i < numFilters; i++ {
		left, center, right := bins[i], bins[i+1], bins[i+2]
		if right >= nBins {
			right = nBins - 1
		}
		sf := sparseFilter{start: left}
		for j := left; j <= right; j++ {
			var v float64
			switch {
			case j < center && center != left:
				v = float64(j-left) / float64(center-left)
			case j >= center && right != center:
				v = float64(right-j) / float64(right-center)
			case j == center:
				v = 1
			}
			sf.coeffs = append(sf.coeffs, v)
		}
		fb.filters[i] = sf
	}
	return fb
}

// NumFilters returns the number of bands.
func (fb *MelFilterbank) NumFilters() int {
	return len(fb.filters)
}

// Apply writes log Mel energies of powerSpec into dst.
func (fb *MelFilterbank) Apply(powerSpec, dst []float64) {
	for i, sf := range fb.filters {
		sum := 0.0
		for j, c := range sf.coeffs {
			if k := sf.start + j; k < len(powerSpec) {
				sum += powerSpec[k] * c
			}
		}
		if sum < 1e-10 {
			sum = 1e-10
		}
		dst[i] = math.Log(sum)
	}
}

func hzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

func melToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10, mel/2595.0) - 1.0)
}
