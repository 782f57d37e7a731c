// Package corpus supplies the utterances to align: one recited verse per
// utterance, identified by chapter and verse number.
package corpus

import (
	"context"
	"fmt"
	"sort"
)

// Utterance is one verse with its transcript.
type Utterance struct {
	ID         string
	Chapter    int
	Verse      int
	Transcript string
}

// Key returns the utterance id for a chapter and verse, e.g. "2.47".
func Key(chapter, verse int) string {
	return fmt.Sprintf("%d.%d", chapter, verse)
}

// Source lists utterances in processing order.
type Source interface {
	Utterances(ctx context.Context) ([]Utterance, error)
}

// Sort orders utterances by chapter, then verse.
func Sort(us []Utterance) {
	sort.SliceStable(us, func(i, j int) bool {
		if us[i].Chapter != us[j].Chapter {
			return us[i].Chapter < us[j].Chapter
		}
		return us[i].Verse < us[j].Verse
	})
}

// SliceSource serves a fixed list, sorted on every call.
type SliceSource []Utterance

// Utterances returns a sorted copy of the list.
func (s SliceSource) Utterances(ctx context.Context) ([]Utterance, error) {
	out := make([]Utterance, len(s))
	copy(out, s)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = Key(out[i].Chapter, out[i].Verse)
		}
	}
	Sort(out)
	return out, nil
}
