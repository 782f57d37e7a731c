// Package align assigns a known token sequence to the frames of an emission
// matrix and groups the result into timed words.
package align

import (
	"errors"
	"fmt"

	"github.com/ieee0824/forcealign/internal/mathutil"
)

// ErrAlignment is returned when no monotonic path maps the tokens onto the frames.
var ErrAlignment = errors.New("alignment failed")

// TokenSpan is the frame range assigned to one query token.
type TokenSpan struct {
	Index  int     // position in the query
	Symbol int     // vocabulary index
	Start  int     // inclusive
	End    int     // exclusive
	Score  float64 // mean per-frame log-probability of Symbol over [Start, End)
}

// Frames returns the number of frames covered by the span.
func (s TokenSpan) Frames() int {
	return s.End - s.Start
}

// MinFrames returns the fewest frames that can hold tokens: one per token plus
// one blank between each pair of identical neighbours.
func MinFrames(tokens []int) int {
	n := len(tokens)
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == tokens[i-1] {
			n++
		}
	}
	return n
}

// Back-pointer steps into the previous frame.
const (
	stepStay int8 = iota // same state
	stepNext             // from state s-1
	stepSkip             // from state s-2, skipping a blank
)

// ForcedAlign performs CTC Viterbi forced alignment of tokens against the
// T×V emission matrix. The lattice has 2N+1 states per frame: a blank before,
// between and after the N tokens. A path starts in the first blank or the
// first token, ends in the last token or the trailing blank, and at each frame
// stays, advances one state, or skips a blank between two different tokens.
// Returns exactly one span per token.
func ForcedAlign(emission mathutil.Mat, tokens []int, blank int) ([]TokenSpan, error) {
	T := len(emission)
	N := len(tokens)
	if N == 0 {
		return nil, fmt.Errorf("empty token sequence: %w", ErrAlignment)
	}
	if T == 0 {
		return nil, fmt.Errorf("empty emission: %w", ErrAlignment)
	}
	V := len(emission[0])
	for t, row := range emission {
		if len(row) != V {
			return nil, fmt.Errorf("frame %d has %d symbols, want %d: %w", t, len(row), V, ErrAlignment)
		}
	}
	if blank < 0 || blank >= V {
		return nil, fmt.Errorf("blank %d outside vocabulary of %d: %w", blank, V, ErrAlignment)
	}
	for i, tok := range tokens {
		if tok < 0 || tok >= V || tok == blank {
			return nil, fmt.Errorf("token %d has invalid symbol %d: %w", i, tok, ErrAlignment)
		}
	}
	if need := MinFrames(tokens); need > T {
		return nil, fmt.Errorf("too few frames (%d) for %d tokens (%d required): %w", T, N, need, ErrAlignment)
	}

	S := 2*N + 1
	label := func(s int) int {
		if s%2 == 0 {
			return blank
		}
		return tokens[s/2]
	}

	// Viterbi with double-buffered score vectors
	prev := mathutil.NewVecFill(S, mathutil.LogZero)
	curr := mathutil.NewVecFill(S, mathutil.LogZero)

	// Backpointer matrix: bp[t][s] = step taken into s at frame t
	bp := make([][]int8, T)
	flat := make([]int8, T*S)
	for t := range bp {
		bp[t] = flat[t*S : (t+1)*S]
	}

	prev[0] = emission[0][blank]
	prev[1] = emission[0][tokens[0]]

	for t := 1; t < T; t++ {
		mathutil.FillVec(curr, mathutil.LogZero)
		row := emission[t]

		// States below lo cannot reach the end in the frames left;
		// states above hi cannot be reached yet.
		lo := S - 2*(T-t)
		if lo < 0 {
			lo = 0
		}
		hi := 2*t + 1
		if hi > S-1 {
			hi = S - 1
		}

		for s := lo; s <= hi; s++ {
			best := prev[s]
			step := stepStay
			if s >= 1 && prev[s-1] > best {
				best = prev[s-1]
				step = stepNext
			}
			if s >= 2 && s%2 == 1 && tokens[s/2] != tokens[s/2-1] && prev[s-2] > best {
				best = prev[s-2]
				step = stepSkip
			}
			if mathutil.Viable(best) {
				curr[s] = best + row[label(s)]
			}
			bp[t][s] = step
		}
		prev, curr = curr, prev
	}

	// Termination: last token or trailing blank
	end := S - 1
	bestScore := prev[S-1]
	if prev[S-2] > bestScore {
		end = S - 2
		bestScore = prev[S-2]
	}
	if !mathutil.Viable(bestScore) {
		return nil, fmt.Errorf("no viable path for %d tokens over %d frames: %w", N, T, ErrAlignment)
	}

	// Backtrace
	path := make([]int, T)
	path[T-1] = end
	for t := T - 1; t > 0; t-- {
		path[t-1] = path[t] - int(bp[t][path[t]])
	}

	// Extract token spans from the state path
	spans := make([]TokenSpan, N)
	sums := make([]float64, N)
	for i := range spans {
		spans[i] = TokenSpan{Index: i, Symbol: tokens[i], Start: -1}
	}
	for t, s := range path {
		if s%2 == 0 {
			continue
		}
		i := s / 2
		if spans[i].Start < 0 {
			spans[i].Start = t
		}
		spans[i].End = t + 1
		sums[i] += emission[t][tokens[i]]
	}
	for i := range spans {
		if spans[i].Start < 0 {
			return nil, fmt.Errorf("token %d received no frames: %w", i, ErrAlignment)
		}
		spans[i].Score = sums[i] / float64(spans[i].Frames())
	}
	return spans, nil
}
