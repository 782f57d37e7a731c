package lexicon

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// defaultLabels is the character set of the multilingual MMS forced-alignment
// model. Index 0 is the CTC blank.
var defaultLabels = []string{
	"-", "a", "i", "e", "n", "o", "u", "t", "s", "r", "m", "k", "l", "d", "g",
	"h", "y", "b", "p", "w", "c", "v", "j", "z", "f", "'", "q", "x", "*",
}

// Vocabulary is the ordered symbol set of an acoustic model.
// Every label is a single rune; the blank and star labels never appear in a query.
type Vocabulary struct {
	Labels []string
	Blank  int // index of the CTC blank
	Star   int // index of the wildcard symbol, -1 if absent

	index map[rune]int
}

// vocabularyFile is the YAML layout accepted by LoadVocabulary.
type vocabularyFile struct {
	Blank  string   `yaml:"blank"`
	Star   string   `yaml:"star"`
	Labels []string `yaml:"labels"`
}

// DefaultVocabulary returns the built-in character vocabulary (blank "-", star "*").
func DefaultVocabulary() *Vocabulary {
	v, err := NewVocabulary(defaultLabels, "-", "*")
	if err != nil {
		panic(err)
	}
	return v
}

// NewVocabulary builds a vocabulary from labels. blank must be one of the labels;
// star may be empty.
func NewVocabulary(labels []string, blank, star string) (*Vocabulary, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("empty label set")
	}
	v := &Vocabulary{
		Labels: append([]string(nil), labels...),
		Blank:  -1,
		Star:   -1,
		index:  make(map[rune]int, len(labels)),
	}
	for i, l := range labels {
		if utf8.RuneCountInString(l) != 1 {
			return nil, fmt.Errorf("label %d (%q): must be a single character", i, l)
		}
		r, _ := utf8.DecodeRuneInString(l)
		if _, dup := v.index[r]; dup {
			return nil, fmt.Errorf("label %d (%q): duplicate", i, l)
		}
		v.index[r] = i
		switch l {
		case blank:
			v.Blank = i
		case star:
			v.Star = i
		}
	}
	if v.Blank < 0 {
		return nil, fmt.Errorf("blank label %q not in label set", blank)
	}
	if star != "" && v.Star < 0 {
		return nil, fmt.Errorf("star label %q not in label set", star)
	}
	return v, nil
}

// LoadVocabulary reads a vocabulary from YAML:
//
//	blank: "-"
//	star: "*"
//	labels: ["-", "a", "i", ...]
func LoadVocabulary(r io.Reader) (*Vocabulary, error) {
	var f vocabularyFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode vocabulary: %w", err)
	}
	if f.Blank == "" {
		f.Blank = "-"
	}
	return NewVocabulary(f.Labels, f.Blank, f.Star)
}

// LoadVocabularyFile is a convenience wrapper that opens a file path.
func LoadVocabularyFile(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadVocabulary(f)
}

// Size returns the number of symbols V, including blank.
func (v *Vocabulary) Size() int {
	return len(v.Labels)
}

// Lookup returns the symbol index of r. Blank and star are not queryable.
func (v *Vocabulary) Lookup(r rune) (int, bool) {
	i, ok := v.index[r]
	if !ok || i == v.Blank || i == v.Star {
		return 0, false
	}
	return i, true
}

// Label returns the label of a symbol index.
func (v *Vocabulary) Label(id int) string {
	if id < 0 || id >= len(v.Labels) {
		return ""
	}
	return v.Labels[id]
}

// Equal reports whether two vocabularies have the same labels in the same order.
func (v *Vocabulary) Equal(labels []string) bool {
	if len(labels) != len(v.Labels) {
		return false
	}
	for i := range labels {
		if labels[i] != v.Labels[i] {
			return false
		}
	}
	return true
}
