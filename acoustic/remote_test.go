package acoustic

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/forcealign/audio"
	"github.com/ieee0824/forcealign/lexicon"
)

func uniformRows(T, V int) [][]float64 {
	rows := make([][]float64, T)
	for t := range rows {
		rows[t] = make([]float64, V)
		for j := range rows[t] {
			rows[t][j] = -math.Log(float64(V))
		}
	}
	return rows
}

func testWaveform() audio.Waveform {
	return audio.Waveform{Samples: make([]float64, 1600), SampleRate: SampleRate}
}

func TestRemoteInfer(t *testing.T) {
	vocab := lexicon.DefaultVocabulary()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emissions", r.URL.Path)
		f, _, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		wav, err := audio.ReadWAV(f)
		if !assert.NoError(t, err) {
			return
		}
		assert.Equal(t, SampleRate, wav.SampleRate)
		assert.Len(t, wav.Samples, 1600)

		json.NewEncoder(w).Encode(emissionResp{Labels: vocab.Labels, LogProbs: uniformRows(5, vocab.Size())})
	}))
	defer srv.Close()

	m := NewRemote(srv.URL, vocab, 5*time.Second)
	e, err := m.Infer(context.Background(), testWaveform())
	require.NoError(t, err)
	assert.Equal(t, 5, e.Frames())
	assert.Equal(t, vocab.Size(), e.Symbols())
}

func TestRemoteInfer_LabelMismatch(t *testing.T) {
	vocab := lexicon.DefaultVocabulary()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(emissionResp{Labels: []string{"-", "a"}, LogProbs: uniformRows(5, 2)})
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL, vocab, 0).Infer(context.Background(), testWaveform())
	assert.Error(t, err)
}

func TestRemoteInfer_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL, lexicon.DefaultVocabulary(), 0).Infer(context.Background(), testWaveform())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestEmissionValidate(t *testing.T) {
	vocab := lexicon.DefaultVocabulary()
	e := &Emission{LogProbs: uniformRows(3, vocab.Size())}
	assert.NoError(t, e.Validate(vocab))

	e.LogProbs[1] = e.LogProbs[1][:4]
	assert.Error(t, e.Validate(vocab))

	assert.Error(t, (&Emission{}).Validate(vocab))
}
