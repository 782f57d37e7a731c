// Package runner aligns a whole corpus, one utterance at a time, persisting
// after each so an interrupted run resumes where it stopped.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/ieee0824/forcealign/align"
	"github.com/ieee0824/forcealign/audio"
	"github.com/ieee0824/forcealign/corpus"
)

// ErrInterrupted is returned when the context is cancelled between utterances.
var ErrInterrupted = errors.New("run interrupted")

// DefaultSkipLogEvery is how many skipped utterances pass between progress lines.
const DefaultSkipLogEvery = 50

// Aligner turns a transcript and its audio into word spans.
type Aligner interface {
	Align(ctx context.Context, transcript string, w audio.Waveform) ([]align.WordSpan, error)
}

// Loader reads an audio asset into a model-ready waveform.
type Loader interface {
	Load(ctx context.Context, path string) (audio.Waveform, error)
}

// Store holds completed results. Save must replace the persisted state atomically.
type Store interface {
	Has(id string) bool
	Put(id string, words []align.WordSpan)
	Save() error
}

// UtteranceError reports the utterance that stopped a run.
type UtteranceError struct {
	ID            string
	LastCompleted string // empty if nothing was aligned in this run
	Err           error
}

func (e *UtteranceError) Error() string {
	return fmt.Sprintf("utterance %s (last completed %q): %v", e.ID, e.LastCompleted, e.Err)
}

func (e *UtteranceError) Unwrap() error {
	return e.Err
}

// Summary describes a finished or stopped run.
type Summary struct {
	Total         int
	Skipped       int
	Processed     int
	LastCompleted string
	Elapsed       time.Duration
}

// Runner drives the per-utterance pipeline. It never runs utterances concurrently.
type Runner struct {
	Source  corpus.Source
	Locator audio.Locator
	Loader  Loader
	Aligner Aligner
	Store   Store

	SkipLogEvery int
	Logger       log.FieldLogger
}

// Option configures a Runner.
type Option func(*Runner)

// WithSkipLogEvery sets the skip progress interval. n <= 0 disables skip logging.
func WithSkipLogEvery(n int) Option {
	return func(r *Runner) {
		r.SkipLogEvery = n
	}
}

// WithLogger replaces the standard logrus logger.
func WithLogger(l log.FieldLogger) Option {
	return func(r *Runner) {
		r.Logger = l
	}
}

// New creates a Runner.
func New(src corpus.Source, loc audio.Locator, loader Loader, aligner Aligner, st Store, opts ...Option) *Runner {
	r := &Runner{
		Source:       src,
		Locator:      loc,
		Loader:       loader,
		Aligner:      aligner,
		Store:        st,
		SkipLogEvery: DefaultSkipLogEvery,
		Logger:       log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run aligns every utterance missing from the store, in source order. It stops
// at the first failing utterance and returns an *UtteranceError; everything
// completed before it is already persisted.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	logger := r.Logger.WithField("run_id", uuid.NewString())

	var sum Summary
	us, err := r.Source.Utterances(ctx)
	if err != nil {
		return sum, fmt.Errorf("list utterances: %w", err)
	}
	sum.Total = len(us)
	logger.WithField("total", sum.Total).Info("run started")

	finish := func() {
		sum.Elapsed = time.Since(start)
		logger.WithFields(log.Fields{
			"total":     sum.Total,
			"skipped":   sum.Skipped,
			"processed": sum.Processed,
			"elapsed":   sum.Elapsed.Round(time.Millisecond),
		}).Info("run finished")
	}

	for _, u := range us {
		if err := ctx.Err(); err != nil {
			finish()
			return sum, r.interrupted(logger, sum, err)
		}
		if r.Store.Has(u.ID) {
			sum.Skipped++
			if r.SkipLogEvery > 0 && sum.Skipped%r.SkipLogEvery == 0 {
				logger.Infof("skipped %d already aligned utterances", sum.Skipped)
			}
			continue
		}

		ulog := logger.WithField("utterance", u.ID)
		words, err := r.alignOne(ctx, u)
		if err == nil {
			r.Store.Put(u.ID, words)
			if err = r.Store.Save(); err != nil {
				err = fmt.Errorf("persist: %w", err)
			}
		}
		if err != nil {
			finish()
			if ctxErr := ctx.Err(); ctxErr != nil {
				return sum, r.interrupted(logger, sum, ctxErr)
			}
			ulog.WithError(err).Error("alignment failed")
			return sum, &UtteranceError{ID: u.ID, LastCompleted: sum.LastCompleted, Err: err}
		}

		sum.Processed++
		sum.LastCompleted = u.ID
		ulog.WithField("words", len(words)).Info("aligned")
	}
	finish()
	return sum, nil
}

func (r *Runner) alignOne(ctx context.Context, u corpus.Utterance) ([]align.WordSpan, error) {
	path, err := r.Locator.Locate(u.Chapter, u.Verse)
	if err != nil {
		return nil, fmt.Errorf("locate: %w", err)
	}
	w, err := r.Loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	words, err := r.Aligner.Align(ctx, u.Transcript, w)
	if err != nil {
		return nil, fmt.Errorf("align: %w", err)
	}
	return words, nil
}

func (r *Runner) interrupted(logger log.FieldLogger, sum Summary, cause error) error {
	logger.WithField("last_completed", sum.LastCompleted).Warn("run interrupted")
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}

// Progress lists which utterances are aligned and which remain, in source order.
type Progress struct {
	Done    []string
	Pending []string
}

// Status reports progress without aligning anything.
func (r *Runner) Status(ctx context.Context) (Progress, error) {
	var p Progress
	us, err := r.Source.Utterances(ctx)
	if err != nil {
		return p, fmt.Errorf("list utterances: %w", err)
	}
	for _, u := range us {
		if r.Store.Has(u.ID) {
			p.Done = append(p.Done, u.ID)
		} else {
			p.Pending = append(p.Pending, u.ID)
		}
	}
	return p, nil
}
