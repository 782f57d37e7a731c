package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee0824/forcealign/align"
)

func words(names ...string) []align.WordSpan {
	out := make([]align.WordSpan, len(names))
	for i, n := range names {
		out[i] = align.WordSpan{Word: n, Start: float64(i) * 0.5, End: float64(i)*0.5 + 0.4}
	}
	return out
}

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "timings.json"))
	require.NoError(t, err)
	assert.Zero(t, s.Len())
	assert.False(t, s.Has("1.1"))
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"1.1": [`), 0o644))

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrPersist)
}

func TestSaveAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "timings.json")
	s, err := Open(path)
	require.NoError(t, err)

	s.Put("1.1", words("dharma", "kshetre"))
	s.Put("1.2", nil)
	require.NoError(t, s.Save())

	r, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	got, ok := r.Get("1.1")
	require.True(t, ok)
	assert.Equal(t, words("dharma", "kshetre"), got)
	empty, ok := r.Get("1.2")
	require.True(t, ok)
	assert.Empty(t, empty)
	assert.Equal(t, []string{"1.1", "1.2"}, r.IDs())
}

func TestSave_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timings.json")
	s, err := Open(path)
	require.NoError(t, err)
	s.Put("1.1", []align.WordSpan{{Word: "om", Start: 0, End: 0.42}})
	require.NoError(t, s.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "{\n  \"1.1\": [\n    {\n      \"word\": \"om\",\n      \"start\": 0,\n      \"end\": 0.42\n    }\n  ]\n}\n"
	assert.Equal(t, want, string(data))
}

func TestSave_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timings.json")
	s, err := Open(path)
	require.NoError(t, err)
	for _, id := range []string{"1.1", "1.2", "1.3"} {
		s.Put(id, words("a"))
		require.NoError(t, s.Save())
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "timings.json", entries[0].Name())
}

func TestSave_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timings.json")
	s, err := Open(path)
	require.NoError(t, err)
	s.Put("2.10", words("a", "b"))
	s.Put("2.9", words("c"))
	require.NoError(t, s.Save())
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	r, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, r.Save())
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSave_FailureKeepsPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "timings.json")
	s, err := Open(path)
	require.NoError(t, err)
	s.Put("1.1", words("a"))
	require.NoError(t, s.Save())
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// A directory in the target's place makes the rename fail.
	blocked := &Store{path: filepath.Join(dir, "blocked"), results: Results{"1.1": words("b")}}
	require.NoError(t, os.Mkdir(blocked.path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(blocked.path, "x"), nil, 0o644))
	assert.ErrorIs(t, blocked.Save(), ErrPersist)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp file must be removed")
}
