package corpus

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "2.47", Key(2, 47))
	assert.Equal(t, "18.1", Key(18, 1))
}

func TestSliceSource_SortsAndFillsIDs(t *testing.T) {
	src := SliceSource{
		{Chapter: 2, Verse: 1, Transcript: "b"},
		{Chapter: 1, Verse: 10, Transcript: "a10"},
		{Chapter: 1, Verse: 2, Transcript: "a2"},
	}
	us, err := src.Utterances(context.Background())
	require.NoError(t, err)
	ids := make([]string, len(us))
	for i, u := range us {
		ids[i] = u.ID
	}
	assert.Equal(t, []string{"1.2", "1.10", "2.1"}, ids)
	assert.Empty(t, src[0].ID, "source list must not be modified")
}

func seedDB(t *testing.T) string {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "corpus.db")
	db, err := sqlx.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()

	db.MustExec(`CREATE TABLE master_shlokas (
		chapter_no INTEGER NOT NULL,
		shloka_no INTEGER NOT NULL,
		sanskrit_romanized TEXT
	)`)
	rows := []struct {
		c, v int
		text any
	}{
		{2, 1, "sañjaya uvāca"},
		{1, 2, "dṛṣṭvā tu pāṇḍavānīkaṁ"},
		{1, 1, "dharma-kṣetre kuru-kṣetre"},
		{1, 3, nil},
	}
	for _, r := range rows {
		db.MustExec(`INSERT INTO master_shlokas (chapter_no, shloka_no, sanskrit_romanized) VALUES (?, ?, ?)`, r.c, r.v, r.text)
	}
	return dsn
}

func TestSQLSource_DefaultQuery(t *testing.T) {
	ctx := context.Background()
	src, err := Open(ctx, DBConfig{Driver: "sqlite", DSN: seedDB(t)})
	require.NoError(t, err)
	defer src.Close()

	us, err := src.Utterances(ctx)
	require.NoError(t, err)
	require.Len(t, us, 4)
	assert.Equal(t, Utterance{ID: "1.1", Chapter: 1, Verse: 1, Transcript: "dharma-kṣetre kuru-kṣetre"}, us[0])
	assert.Equal(t, "1.2", us[1].ID)
	assert.Equal(t, "1.3", us[2].ID)
	assert.Empty(t, us[2].Transcript)
	assert.Equal(t, "2.1", us[3].ID)
}

func TestSQLSource_CustomQuery(t *testing.T) {
	ctx := context.Background()
	src, err := Open(ctx, DBConfig{
		DSN:   seedDB(t),
		Query: `SELECT chapter_no AS chapter, shloka_no AS verse, sanskrit_romanized AS transcript FROM master_shlokas WHERE chapter_no = 2`,
	})
	require.NoError(t, err)
	defer src.Close()

	us, err := src.Utterances(ctx)
	require.NoError(t, err)
	require.Len(t, us, 1)
	assert.Equal(t, "2.1", us[0].ID)
}

func TestSQLSource_BadQuery(t *testing.T) {
	ctx := context.Background()
	src, err := Open(ctx, DBConfig{DSN: seedDB(t), Query: "SELECT nope FROM missing"})
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Utterances(ctx)
	assert.Error(t, err)
}
