package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrAssetMissing is returned when no audio file exists for an utterance.
var ErrAssetMissing = errors.New("audio asset missing")

// DefaultPattern is the recitation naming convention:
// Chapter{c}_audio/ch{cc}_sh{vv}.m4a, with c the chapter and v the verse.
const DefaultPattern = "Chapter%[1]d_audio/ch%02[1]d_sh%02[2]d.m4a"

// Locator resolves the audio file of an utterance.
type Locator interface {
	Locate(chapter, verse int) (string, error)
}

// PatternLocator builds paths from a fmt pattern taking (chapter, verse).
type PatternLocator struct {
	Root    string
	Pattern string
}

// NewPatternLocator creates a locator rooted at root. An empty pattern selects DefaultPattern.
func NewPatternLocator(root, pattern string) *PatternLocator {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &PatternLocator{Root: root, Pattern: pattern}
}

// Path returns the expected asset path without checking that it exists.
func (l *PatternLocator) Path(chapter, verse int) string {
	return filepath.Join(l.Root, filepath.FromSlash(fmt.Sprintf(l.Pattern, chapter, verse)))
}

// Locate returns the asset path, or ErrAssetMissing when the file does not exist.
func (l *PatternLocator) Locate(chapter, verse int) (string, error) {
	p := l.Path(chapter, verse)
	fi, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", p, ErrAssetMissing)
		}
		return "", fmt.Errorf("stat %s: %w", p, err)
	}
	if fi.IsDir() {
		return "", fmt.Errorf("%s is a directory: %w", p, ErrAssetMissing)
	}
	return p, nil
}
