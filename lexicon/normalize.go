package lexicon

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyTranscript is returned when no token of a transcript survives normalization.
var ErrEmptyTranscript = errors.New("empty transcript after normalization")

// Word is one transcript word and its vocabulary tokens.
// Tokens is empty when every character was filtered out.
type Word struct {
	Text   string
	Tokens []int
}

// Query is a normalized transcript, partitioned by word.
type Query struct {
	Words []Word
}

// Tokens returns the flat token sequence fed to the aligner.
func (q Query) Tokens() []int {
	var out []int
	for _, w := range q.Words {
		out = append(out, w.Tokens...)
	}
	return out
}

// Counts returns the per-word token counts, zero for filtered words.
func (q Query) Counts() []int {
	counts := make([]int, len(q.Words))
	for i, w := range q.Words {
		counts[i] = len(w.Tokens)
	}
	return counts
}

// NonEmpty returns the number of words with at least one token.
func (q Query) NonEmpty() int {
	n := 0
	for _, w := range q.Words {
		if len(w.Tokens) > 0 {
			n++
		}
	}
	return n
}

// markers strips verse separators and emphasis marks.
var markers = strings.NewReplacer("<C>", " ", "*", " ", "||", "", "|", "")

// Normalizer maps raw transcript text to vocabulary tokens.
type Normalizer struct {
	vocab *Vocabulary
}

// NewNormalizer creates a normalizer for the given vocabulary.
func NewNormalizer(v *Vocabulary) *Normalizer {
	return &Normalizer{vocab: v}
}

// Vocabulary returns the vocabulary used to filter words.
func (n *Normalizer) Vocabulary() *Vocabulary {
	return n.vocab
}

// Words splits text into lowercase ASCII words.
// Diacritics are decomposed and dropped, so "Kṛṣṇa" becomes "krsna".
func (n *Normalizer) Words(text string) ([]string, error) {
	text = markers.Replace(text)

	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	ascii, _, err := transform.String(t, text)
	if err != nil {
		return nil, fmt.Errorf("decompose transcript: %w", err)
	}

	ascii = strings.ToLower(ascii)
	ascii = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, ascii)
	return strings.Fields(ascii), nil
}

// Normalize returns the query for text. It fails with ErrEmptyTranscript
// when no word keeps a single token.
func (n *Normalizer) Normalize(text string) (Query, error) {
	words, err := n.Words(text)
	if err != nil {
		return Query{}, err
	}

	q := Query{Words: make([]Word, 0, len(words))}
	total := 0
	for _, w := range words {
		var tokens []int
		for _, r := range w {
			if id, ok := n.vocab.Lookup(r); ok {
				tokens = append(tokens, id)
			}
		}
		total += len(tokens)
		q.Words = append(q.Words, Word{Text: w, Tokens: tokens})
	}
	if total == 0 {
		return Query{}, fmt.Errorf("%q: %w", text, ErrEmptyTranscript)
	}
	return q, nil
}
