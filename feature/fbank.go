package feature

import "fmt"

// Extract computes log-mel filterbank features from raw audio samples.
// Returns a matrix of shape [numFrames][NumMelFilters].
func Extract(samples []float64, cfg Config) ([][]float64, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("empty samples")
	}

	emphasized := PreEmphasize(samples, cfg.PreEmphCoeff)
	frames := Frame(emphasized, cfg.frameLen(), cfg.frameShift())
	if len(frames) == 0 {
		return nil, fmt.Errorf("audio too short for a single frame")
	}

	melFB := NewMelFilterbank(cfg.NumMelFilters, cfg.FFTSize, cfg.SampleRate, cfg.LowFreq, cfg.HighFreq)
	ws := newFFTWorkspace(cfg.FFTSize)
	window := hammingWindow(cfg.frameLen())

	feats := make([][]float64, len(frames))
	all := make([]float64, len(frames)*cfg.NumMelFilters)
	for i, frame := range frames {
		row := all[i*cfg.NumMelFilters : (i+1)*cfg.NumMelFilters]
		melFB.Apply(ws.powerSpectrum(frame, window), row)
		feats[i] = row
	}

	if cfg.UseCMN {
		ApplyCMN(feats)
	}
	return feats, nil
}
