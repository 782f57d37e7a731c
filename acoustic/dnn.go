package acoustic

import (
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"

	"github.com/ieee0824/forcealign/audio"
	"github.com/ieee0824/forcealign/feature"
	"github.com/ieee0824/forcealign/internal/mathutil"
	"github.com/ieee0824/forcealign/lexicon"
)

// DNNLayer holds weights and biases for a single fully-connected layer.
// W is [OutDim × InDim] row-major, B is [OutDim].
type DNNLayer struct {
	W      []float64
	B      []float64
	InDim  int
	OutDim int
}

// BatchNormParams holds inference statistics for one batch normalization layer.
type BatchNormParams struct {
	Gamma       []float64
	Beta        []float64
	RunningMean []float64
	RunningVar  []float64
}

// DNN is a feedforward character classifier over context-windowed log-mel frames.
// Architecture: input → hidden (ReLU) × N → output (log-softmax over the vocabulary).
type DNN struct {
	Layers     []DNNLayer // hidden layers + output layer
	ContextLen int        // frames on each side (e.g. 5 → 11-frame window)
	BN         []BatchNormParams
	Feature    feature.Config

	vocab *lexicon.Vocabulary
}

// NewDNN creates a DNN with Xavier-initialized weights drawn from rng.
func NewDNN(cfg feature.Config, vocab *lexicon.Vocabulary, hiddenDim, contextLen, numHiddenLayers int, rng *rand.Rand) *DNN {
	inputDim := (2*contextLen + 1) * cfg.FeatureDim()
	layers := make([]DNNLayer, numHiddenLayers+1)
	prevDim := inputDim
	for i := range layers {
		out := hiddenDim
		if i == numHiddenLayers {
			out = vocab.Size()
		}
		layers[i] = DNNLayer{
			W:      make([]float64, out*prevDim),
			B:      make([]float64, out),
			InDim:  prevDim,
			OutDim: out,
		}
		scale := math.Sqrt(2.0 / float64(prevDim+out))
		for j := range layers[i].W {
			layers[i].W[j] = rng.NormFloat64() * scale
		}
		prevDim = out
	}
	return &DNN{Layers: layers, ContextLen: contextLen, Feature: cfg, vocab: vocab}
}

// InputDim returns the width of one context-windowed input vector.
func (d *DNN) InputDim() int {
	return d.Layers[0].InDim
}

// OutputDim returns the number of output classes.
func (d *DNN) OutputDim() int {
	return d.Layers[len(d.Layers)-1].OutDim
}

// Vocabulary returns the symbols of the output layer, in order.
func (d *DNN) Vocabulary() *lexicon.Vocabulary {
	return d.vocab
}

// batchNormEps is the epsilon for numerical stability in batch normalization.
const batchNormEps = 1e-5

// ForwardFrames computes log-posteriors for all T frames.
// Context windows replicate the edge frames. Returns [T][OutputDim].
func (d *DNN) ForwardFrames(features [][]float64) mathutil.Mat {
	T := len(features)
	if T == 0 {
		return nil
	}
	featDim := len(features[0])
	winSize := 2*d.ContextLen + 1

	out := mathutil.NewMat(T, d.OutputDim())
	input := make([]float64, winSize*featDim)
	acts := make([][]float64, len(d.Layers)-1)
	for i := range acts {
		acts[i] = make([]float64, d.Layers[i].OutDim)
	}

	for t := 0; t < T; t++ {
		for w := 0; w < winSize; w++ {
			src := t - d.ContextLen + w
			if src < 0 {
				src = 0
			} else if src >= T {
				src = T - 1
			}
			copy(input[w*featDim:(w+1)*featDim], features[src])
		}

		prev := input
		for i := range d.Layers {
			layer := &d.Layers[i]
			if i == len(d.Layers)-1 {
				mathutil.Affine(out[t], layer.W, prev, layer.B)
				mathutil.LogSoftmax(out[t])
				break
			}
			mathutil.Affine(acts[i], layer.W, prev, layer.B)
			if len(d.BN) > i {
				applyBN(acts[i], &d.BN[i])
			}
			for j, v := range acts[i] {
				if v < 0 {
					acts[i][j] = 0
				}
			}
			prev = acts[i]
		}
	}
	return out
}

func applyBN(z []float64, bn *BatchNormParams) {
	for j := range z {
		z[j] = bn.Gamma[j]*(z[j]-bn.RunningMean[j])/math.Sqrt(bn.RunningVar[j]+batchNormEps) + bn.Beta[j]
	}
}

// Infer extracts log-mel features and runs the network.
func (d *DNN) Infer(ctx context.Context, w audio.Waveform) (*Emission, error) {
	if err := CheckWaveform(w); err != nil {
		return nil, err
	}
	feats, err := feature.Extract(w.Samples, d.Feature)
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}
	if len(feats[0])*(2*d.ContextLen+1) != d.InputDim() {
		return nil, fmt.Errorf("feature dim %d does not match network input %d", len(feats[0]), d.InputDim())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Emission{LogProbs: d.ForwardFrames(feats)}, nil
}

// --- Serialization ---

type serializedDNN struct {
	Version    int // = 1
	ContextLen int
	Layers     []DNNLayer
	BN         []BatchNormParams
	Feature    feature.Config
	Labels     []string
	Blank      string
	Star       string
}

// Save serializes the DNN to a writer using gob encoding.
func (d *DNN) Save(w io.Writer) error {
	sd := serializedDNN{
		Version:    1,
		ContextLen: d.ContextLen,
		Layers:     d.Layers,
		BN:         d.BN,
		Feature:    d.Feature,
		Labels:     d.vocab.Labels,
		Blank:      d.vocab.Label(d.vocab.Blank),
		Star:       d.vocab.Label(d.vocab.Star),
	}
	return gob.NewEncoder(w).Encode(sd)
}

// LoadDNN deserializes a DNN from a reader.
func LoadDNN(r io.Reader) (*DNN, error) {
	var sd serializedDNN
	if err := gob.NewDecoder(r).Decode(&sd); err != nil {
		return nil, err
	}
	if sd.Version != 1 || len(sd.Layers) == 0 {
		return nil, fmt.Errorf("unsupported DNN format (version %d, %d layers)", sd.Version, len(sd.Layers))
	}
	vocab, err := lexicon.NewVocabulary(sd.Labels, sd.Blank, sd.Star)
	if err != nil {
		return nil, fmt.Errorf("DNN labels: %w", err)
	}
	d := &DNN{
		Layers:     sd.Layers,
		ContextLen: sd.ContextLen,
		BN:         sd.BN,
		Feature:    sd.Feature,
		vocab:      vocab,
	}
	if d.OutputDim() != vocab.Size() {
		return nil, fmt.Errorf("output layer has %d classes, %d labels", d.OutputDim(), vocab.Size())
	}
	return d, nil
}

// LoadDNNFile is a convenience wrapper that opens a file path.
func LoadDNNFile(path string) (*DNN, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDNN(f)
}
