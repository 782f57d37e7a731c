package align

import (
	"fmt"

	"github.com/ieee0824/forcealign/internal/mathutil"
	"github.com/ieee0824/forcealign/lexicon"
)

// Precision is the number of decimal places kept in word timestamps.
const Precision = 2

// WordSpan is the time range of one transcript word, in seconds.
type WordSpan struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Ratio returns the seconds per emission frame for a waveform of the given
// duration that produced frames rows.
func Ratio(duration float64, frames int) float64 {
	if frames <= 0 {
		return 0
	}
	return duration / float64(frames)
}

// MergeWords groups token spans by word. Words without tokens are omitted, so
// the i-th result belongs to the i-th non-empty word, not the i-th word.
func MergeWords(words []lexicon.Word, spans []TokenSpan, ratio float64) ([]WordSpan, error) {
	total := 0
	for _, w := range words {
		total += len(w.Tokens)
	}
	if total != len(spans) {
		return nil, fmt.Errorf("%d token spans for %d tokens: %w", len(spans), total, ErrAlignment)
	}

	out := make([]WordSpan, 0, len(words))
	next := 0
	for _, w := range words {
		n := len(w.Tokens)
		if n == 0 {
			continue
		}
		group := spans[next : next+n]
		next += n
		out = append(out, WordSpan{
			Word:  w.Text,
			Start: mathutil.Round(float64(group[0].Start)*ratio, Precision),
			End:   mathutil.Round(float64(group[n-1].End)*ratio, Precision),
		})
	}
	return out, nil
}
