package runner

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/forcealign"
	"github.com/ieee0824/forcealign/acoustic"
	"github.com/ieee0824/forcealign/audio"
	"github.com/ieee0824/forcealign/corpus"
	"github.com/ieee0824/forcealign/lexicon"
	"github.com/ieee0824/forcealign/store"
)

// flatModel emits one uniform frame per 20 ms, so every path is equally likely.
type flatModel struct {
	vocab *lexicon.Vocabulary
}

func (m flatModel) Vocabulary() *lexicon.Vocabulary { return m.vocab }

func (m flatModel) Infer(ctx context.Context, w audio.Waveform) (*acoustic.Emission, error) {
	T := len(w.Samples) / 320
	V := m.vocab.Size()
	rows := make([][]float64, T)
	for t := range rows {
		rows[t] = make([]float64, V)
		for j := range rows[t] {
			rows[t][j] = -math.Log(float64(V))
		}
	}
	return &acoustic.Emission{LogProbs: rows}, nil
}

func TestRun_EndToEndWithWAVAssets(t *testing.T) {
	root := t.TempDir()
	loc := audio.NewPatternLocator(root, "ch%02[1]d_sh%02[2]d.wav")
	src := corpus.SliceSource{
		{Chapter: 1, Verse: 1, Transcript: "dharma-kṣetre kuru-kṣetre"},
		{Chapter: 1, Verse: 2, Transcript: "sañjaya uvāca ||"},
	}
	for _, u := range src {
		w := audio.Waveform{Samples: make([]float64, 8000), SampleRate: acoustic.SampleRate}
		require.NoError(t, audio.WriteWAVFile(loc.Path(u.Chapter, u.Verse), w))
	}

	path := filepath.Join(t.TempDir(), "timings.json")
	st, err := store.Open(path)
	require.NoError(t, err)
	loader := &audio.Loader{SampleRate: acoustic.SampleRate, Padding: acoustic.MinPadding}
	aligner := forcealign.New(flatModel{vocab: lexicon.DefaultVocabulary()})

	sum, err := New(src, loc, loader, aligner, st, WithLogger(quietLogger())).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Processed)

	reloaded, err := store.Open(path)
	require.NoError(t, err)
	// 0.5 s of audio plus 2 s of padding.
	const duration = 2.5
	wantWords := map[string][]string{
		"1.1": {"dharmaksetre", "kuruksetre"},
		"1.2": {"sanjaya", "uvaca"},
	}
	for id, want := range wantWords {
		words, ok := reloaded.Get(id)
		require.True(t, ok, id)
		require.Len(t, words, len(want), id)
		prevEnd := 0.0
		for i, w := range words {
			assert.Equal(t, want[i], w.Word)
			assert.GreaterOrEqual(t, w.Start, prevEnd, "%s word %d overlaps", id, i)
			assert.LessOrEqual(t, w.Start, w.End)
			assert.LessOrEqual(t, w.End, duration)
			prevEnd = w.End
		}
	}
}
