// Package acoustic defines the boundary to the pretrained acoustic model:
// waveform in, per-frame symbol log-probabilities out.
package acoustic

import (
	"context"
	"fmt"
	"math"

	"github.com/ieee0824/forcealign/audio"
	"github.com/ieee0824/forcealign/internal/mathutil"
	"github.com/ieee0824/forcealign/lexicon"
)

// Waveform contract expected by every Model.
const (
	// SampleRate is the only accepted input rate (mono).
	SampleRate = 16000
	// MinPadding is the number of trailing zero samples (2 s) a waveform must
	// carry so the model emits trailing silence frames that absorb alignment
	// slack at the end of the query.
	MinPadding = 32000
)

// Emission is a T×V matrix of per-frame log-probabilities over the model vocabulary.
type Emission struct {
	LogProbs mathutil.Mat
}

// Frames returns T.
func (e *Emission) Frames() int {
	return len(e.LogProbs)
}

// Symbols returns V, or 0 for an empty matrix.
func (e *Emission) Symbols() int {
	if len(e.LogProbs) == 0 {
		return 0
	}
	return len(e.LogProbs[0])
}

// Validate checks that every row has one finite-or--Inf entry per vocabulary symbol.
func (e *Emission) Validate(v *lexicon.Vocabulary) error {
	if e.Frames() == 0 {
		return fmt.Errorf("emission has no frames")
	}
	for t, row := range e.LogProbs {
		if len(row) != v.Size() {
			return fmt.Errorf("frame %d: %d symbols, vocabulary has %d", t, len(row), v.Size())
		}
		for j, lp := range row {
			if math.IsNaN(lp) || lp > 1e-6 {
				return fmt.Errorf("frame %d symbol %d: invalid log-probability %v", t, j, lp)
			}
		}
	}
	return nil
}

// Model produces emissions for a waveform. Implementations may hold an
// accelerator and are not safe for concurrent use.
type Model interface {
	Infer(ctx context.Context, w audio.Waveform) (*Emission, error)
	Vocabulary() *lexicon.Vocabulary
}

// CheckWaveform verifies the rate and that the waveform is non-empty.
func CheckWaveform(w audio.Waveform) error {
	if w.SampleRate != SampleRate {
		return fmt.Errorf("sample rate %d, model expects %d", w.SampleRate, SampleRate)
	}
	if len(w.Samples) == 0 {
		return fmt.Errorf("empty waveform")
	}
	return nil
}
