// Package forcealign computes word timestamps for narrated audio whose
// transcript is known, by CTC forced alignment over acoustic model emissions.
package forcealign

import (
	"context"
	"fmt"

	"github.com/ieee0824/forcealign/acoustic"
	"github.com/ieee0824/forcealign/align"
	"github.com/ieee0824/forcealign/audio"
	"github.com/ieee0824/forcealign/lexicon"
)

// Aligner is the top-level word aligner. It owns its model and is not safe
// for concurrent use.
type Aligner struct {
	Model      acoustic.Model
	Normalizer *lexicon.Normalizer
	Loader     *audio.Loader
}

// Option configures an Aligner.
type Option func(*Aligner)

// WithNormalizer replaces the normalizer built from the model vocabulary.
func WithNormalizer(n *lexicon.Normalizer) Option {
	return func(a *Aligner) {
		a.Normalizer = n
	}
}

// WithLoader sets how AlignFile reads audio. The default loader accepts
// 16 kHz WAV files and appends acoustic.MinPadding zero samples.
func WithLoader(l *audio.Loader) Option {
	return func(a *Aligner) {
		a.Loader = l
	}
}

// New creates an Aligner around model.
func New(model acoustic.Model, opts ...Option) *Aligner {
	a := &Aligner{
		Model:      model,
		Normalizer: lexicon.NewNormalizer(model.Vocabulary()),
		Loader:     &audio.Loader{SampleRate: acoustic.SampleRate, Padding: acoustic.MinPadding},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is a full alignment: word spans plus the token spans they were merged from.
type Result struct {
	Words  []align.WordSpan
	Tokens []align.TokenSpan
	Frames int
	Ratio  float64 // seconds per frame
}

// Align returns the word spans of transcript in w. The waveform must already
// satisfy the model contract (rate and trailing padding).
func (a *Aligner) Align(ctx context.Context, transcript string, w audio.Waveform) ([]align.WordSpan, error) {
	res, err := a.AlignDetailed(ctx, transcript, w)
	if err != nil {
		return nil, err
	}
	return res.Words, nil
}

// AlignDetailed is Align that also returns the token-level alignment.
func (a *Aligner) AlignDetailed(ctx context.Context, transcript string, w audio.Waveform) (*Result, error) {
	q, err := a.Normalizer.Normalize(transcript)
	if err != nil {
		return nil, err
	}
	if err := acoustic.CheckWaveform(w); err != nil {
		return nil, err
	}

	vocab := a.Model.Vocabulary()
	em, err := a.Model.Infer(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("infer: %w", err)
	}
	if err := em.Validate(vocab); err != nil {
		return nil, fmt.Errorf("emission: %w", err)
	}

	spans, err := align.ForcedAlign(em.LogProbs, q.Tokens(), vocab.Blank)
	if err != nil {
		return nil, err
	}
	ratio := align.Ratio(w.Duration(), em.Frames())
	words, err := align.MergeWords(q.Words, spans, ratio)
	if err != nil {
		return nil, err
	}
	return &Result{Words: words, Tokens: spans, Frames: em.Frames(), Ratio: ratio}, nil
}

// AlignFile loads path with the configured loader and aligns transcript against it.
func (a *Aligner) AlignFile(ctx context.Context, path, transcript string) ([]align.WordSpan, error) {
	w, err := a.Loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return a.Align(ctx, transcript, w)
}
