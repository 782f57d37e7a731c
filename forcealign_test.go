package forcealign

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/forcealign/acoustic"
	"github.com/ieee0824/forcealign/align"
	"github.com/ieee0824/forcealign/audio"
	"github.com/ieee0824/forcealign/lexicon"
)

// scriptedModel emits one frame per peak symbol, regardless of the input audio.
type scriptedModel struct {
	vocab *lexicon.Vocabulary
	peaks []int
	calls int
}

func (m *scriptedModel) Vocabulary() *lexicon.Vocabulary { return m.vocab }

func (m *scriptedModel) Infer(ctx context.Context, w audio.Waveform) (*acoustic.Emission, error) {
	m.calls++
	V := m.vocab.Size()
	rest := math.Log(0.03 / float64(V-1))
	rows := make([][]float64, len(m.peaks))
	for t, sym := range m.peaks {
		rows[t] = make([]float64, V)
		for j := range rows[t] {
			rows[t][j] = rest
		}
		rows[t][sym] = math.Log(0.97)
	}
	return &acoustic.Emission{LogProbs: rows}, nil
}

func ramaKrishnaModel(t *testing.T) *scriptedModel {
	t.Helper()
	vocab := lexicon.DefaultVocabulary()
	q, err := lexicon.NewNormalizer(vocab).Normalize("rama krishna")
	require.NoError(t, err)
	return &scriptedModel{vocab: vocab, peaks: q.Tokens()}
}

func waveform(seconds float64) audio.Waveform {
	return audio.Waveform{
		Samples:    make([]float64, int(seconds*acoustic.SampleRate)),
		SampleRate: acoustic.SampleRate,
	}
}

func TestAlign_RamaKrishna(t *testing.T) {
	a := New(ramaKrishnaModel(t))
	words, err := a.Align(context.Background(), "Rāma || Krishna |", waveform(2.2))
	require.NoError(t, err)
	assert.Equal(t, []align.WordSpan{
		{Word: "rama", Start: 0, End: 0.8},
		{Word: "krishna", Start: 0.8, End: 2.2},
	}, words)
}

func TestAlignDetailed(t *testing.T) {
	a := New(ramaKrishnaModel(t))
	res, err := a.AlignDetailed(context.Background(), "rama krishna", waveform(2.2))
	require.NoError(t, err)
	assert.Equal(t, 11, res.Frames)
	assert.Len(t, res.Tokens, 11)
	assert.InDelta(t, 0.2, res.Ratio, 1e-12)
}

func TestAlign_EmptyTranscriptSkipsInference(t *testing.T) {
	m := ramaKrishnaModel(t)
	_, err := New(m).Align(context.Background(), "|| 123 ||", waveform(2.2))
	assert.ErrorIs(t, err, lexicon.ErrEmptyTranscript)
	assert.Zero(t, m.calls)
}

func TestAlign_TooFewFrames(t *testing.T) {
	m := ramaKrishnaModel(t)
	m.peaks = m.peaks[:3]
	_, err := New(m).Align(context.Background(), "rama krishna", waveform(2.2))
	assert.ErrorIs(t, err, align.ErrAlignment)
}

func TestAlign_WrongSampleRate(t *testing.T) {
	w := waveform(1)
	w.SampleRate = 8000
	_, err := New(ramaKrishnaModel(t)).Align(context.Background(), "rama", w)
	assert.Error(t, err)
}

func TestAlignFile_PadsWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ch01_sh01.wav")
	// 0.2 s of audio plus 2 s of padding gives the 2.2 s used above.
	require.NoError(t, audio.WriteWAVFile(path, waveform(0.2)))

	words, err := New(ramaKrishnaModel(t)).AlignFile(context.Background(), path, "rama krishna")
	require.NoError(t, err)
	require.Len(t, words, 2)
	assert.Equal(t, 0.8, words[0].End)
	assert.Equal(t, 2.2, words[1].End)
}
