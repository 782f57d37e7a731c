// Package store persists alignment results as a single JSON document keyed by
// utterance id. The document is rewritten atomically after every change.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ieee0824/forcealign/align"
)

// ErrPersist is returned when the store cannot be read or written.
var ErrPersist = errors.New("store persistence failed")

// Results maps utterance ids to their word spans.
type Results map[string][]align.WordSpan

// Store is a JSON file of Results. It is not safe for concurrent use.
type Store struct {
	path    string
	results Results
}

// Open loads the store at path. A missing file yields an empty store; an
// unreadable or malformed one is an error, never silently reset.
func Open(path string) (*Store, error) {
	s := &Store{path: path, results: Results{}}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %v", path, ErrPersist, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.results); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", path, ErrPersist, err)
	}
	if s.results == nil {
		s.results = Results{}
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Has reports whether id has a stored result.
func (s *Store) Has(id string) bool {
	_, ok := s.results[id]
	return ok
}

// Get returns the stored spans of id.
func (s *Store) Get(id string) ([]align.WordSpan, bool) {
	words, ok := s.results[id]
	return words, ok
}

// Put records the spans of id in memory. Call Save to persist.
func (s *Store) Put(id string, words []align.WordSpan) {
	if words == nil {
		words = []align.WordSpan{}
	}
	s.results[id] = words
}

// Len returns the number of stored utterances.
func (s *Store) Len() int {
	return len(s.results)
}

// IDs returns the stored ids in lexical order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.results))
	for id := range s.results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Save writes the full store to a temporary file beside the target and
// renames it into place, so readers see either the old or the new document.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w: %v", dir, ErrPersist, err)
	}
	f, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store: %w: %v", ErrPersist, err)
	}
	tmp := f.Name()

	if err := writeJSON(f, s.results); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w: %v", tmp, ErrPersist, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w: %v", tmp, ErrPersist, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace %s: %w: %v", s.path, ErrPersist, err)
	}
	return nil
}

func writeJSON(f *os.File, v any) error {
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Sync()
}
