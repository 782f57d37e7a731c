package feature

// Config holds log-mel filterbank extraction parameters.
type Config struct {
	SampleRate    int
	FrameLenMs    float64 // frame length in milliseconds
	FrameShiftMs  float64 // frame shift in milliseconds
	PreEmphCoeff  float64
	NumMelFilters int
	LowFreq       float64
	HighFreq      float64
	FFTSize       int
	UseCMN        bool // per-utterance mean normalization
}

// DefaultConfig returns a 40-band log-mel configuration at 16 kHz with
// 20 ms frames, matching the emission rate of the reference acoustic model.
func DefaultConfig() Config {
	return Config{
		SampleRate:    16000,
		FrameLenMs:    25.0,
		FrameShiftMs:  20.0,
		PreEmphCoeff:  0.97,
		NumMelFilters: 40,
		LowFreq:       20,
		HighFreq:      7600,
		FFTSize:       512,
		UseCMN:        true,
	}
}

// FeatureDim returns the feature vector dimension.
func (c Config) FeatureDim() int {
	return c.NumMelFilters
}

func (c Config) frameLen() int {
	return int(c.FrameLenMs * float64(c.SampleRate) / 1000.0)
}

func (c Config) frameShift() int {
	return int(c.FrameShiftMs * float64(c.SampleRate) / 1000.0)
}

// NumFrames returns the number of frames Extract produces for n samples.
func (c Config) NumFrames(n int) int {
	fl, fs := c.frameLen(), c.frameShift()
	if n < fl || fs <= 0 {
		return 0
	}
	return 1 + (n-fl)/fs
}
