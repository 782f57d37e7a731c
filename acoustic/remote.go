package acoustic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/ieee0824/forcealign/audio"
	"github.com/ieee0824/forcealign/lexicon"
)

// Remote calls an inference service that hosts the acoustic model.
// POST {URL}/emissions with a multipart "file" WAV; the response is
// {"labels": [...], "log_probs": [[...], ...]}.
type Remote struct {
	URL   string
	vocab *lexicon.Vocabulary
	c     *http.Client
}

type emissionResp struct {
	Labels   []string    `json:"labels"`
	LogProbs [][]float64 `json:"log_probs"`
}

// NewRemote creates a client. A zero timeout leaves requests bounded only by ctx.
func NewRemote(url string, vocab *lexicon.Vocabulary, timeout time.Duration) *Remote {
	return &Remote{URL: url, vocab: vocab, c: &http.Client{Timeout: timeout}}
}

// Vocabulary returns the symbol set the service is expected to emit.
func (r *Remote) Vocabulary() *lexicon.Vocabulary {
	return r.vocab
}

// Infer uploads w and decodes the emission matrix.
func (r *Remote) Infer(ctx context.Context, w audio.Waveform) (*Emission, error) {
	if err := CheckWaveform(w); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "emission_*.wav")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()
	if err := audio.WriteWAV(tmp, w); err != nil {
		return nil, err
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	mw := multipart.NewWriter(&b)
	fw, err := mw.CreateFormFile("file", "utterance.wav")
	if err != nil {
		return nil, err
	}
	if _, err = io.Copy(fw, tmp); err != nil {
		return nil, err
	}
	if err = mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL+"/emissions", &b)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("emissions %s: %s", resp.Status, string(body))
	}

	var out emissionResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("emissions decode: %w", err)
	}
	if len(out.Labels) > 0 && !r.vocab.Equal(out.Labels) {
		return nil, fmt.Errorf("emissions: service labels %q do not match vocabulary", out.Labels)
	}

	e := &Emission{LogProbs: out.LogProbs}
	if err := e.Validate(r.vocab); err != nil {
		return nil, fmt.Errorf("emissions: %w", err)
	}
	return e, nil
}
