package feature

import (
	"math"
	"math/cmplx"
)

// fftWorkspace holds reusable buffers for radix-2 FFT power spectra.
type fftWorkspace struct {
	buf   []complex128
	power []float64 // [fftSize/2+1]
	perm  []int     // bit-reversal permutation
	tw    [][]complex128
}

func bitReverse(x, bits int) int {
	var result int
	for i := 0; i < bits; i++ {
		result = (result << 1) | (x & 1)
		x >>= 1
	}
	return result
}

func newFFTWorkspace(fftSize int) *fftWorkspace {
	bits := 0
	for v := fftSize; v > 1; v >>= 1 {
		bits++
	}
	perm := make([]int, fftSize)
	for i := range perm {
		perm[i] = bitReverse(i, bits)
	}

	var tw [][]complex128
	for size := 2; size <= fftSize; size *= 2 {
		half := size / 2
		stage := make([]complex128, half)
		w := cmplx.Exp(complex(0, -2*math.Pi/float64(size)))
		wn := complex(1, 0)
		for k := 0; k < half; k++ {
			stage[k] = wn
			wn *= w
		}
		tw = append(tw, stage)
	}

	return &fftWorkspace{
		buf:   make([]complex128, fftSize),
		power: make([]float64, fftSize/2+1),
		perm:  perm,
		tw:    tw,
	}
}

// powerSpectrum windows and zero-pads frame, runs an in-place FFT and writes
// |X|^2 / N into ws.power.
func (ws *fftWorkspace) powerSpectrum(frame, window []float64) []float64 {
	n := len(ws.buf)
	for i := range ws.buf {
		ws.buf[i] = 0
	}
	for i := 0; i < len(frame) && i < n; i++ {
		ws.buf[ws.perm[i]] = complex(frame[i]*window[i], 0)
	}

	for stage, size := 0, 2; size <= n; stage, size = stage+1, size*2 {
		half := size / 2
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				u := ws.buf[start+k]
				t := ws.tw[stage][k] * ws.buf[start+k+half]
				ws.buf[start+k] = u + t
				ws.buf[start+k+half] = u - t
			}
		}
	}

	fn := float64(n)
	for i := range ws.power {
		r, im := real(ws.buf[i]), imag(ws.buf[i])
		ws.power[i] = (r*r + im*im) / fn
	}
	return ws.power
}
