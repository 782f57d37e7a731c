package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DefaultQuery reads the verse table of the recitation database. Any query
// returning chapter, verse and transcript columns can replace it.
const DefaultQuery = `SELECT chapter_no AS chapter, shloka_no AS verse, sanskrit_romanized AS transcript
FROM master_shlokas
ORDER BY chapter_no, shloka_no`

// DBConfig selects the database holding the corpus.
type DBConfig struct {
	Driver          string // "sqlite" or "mysql"
	DSN             string
	Query           string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// SQLSource reads utterances from a relational database.
type SQLSource struct {
	db    *sqlx.DB
	query string
}

type utteranceRow struct {
	Chapter    int            `db:"chapter"`
	Verse      int            `db:"verse"`
	Transcript sql.NullString `db:"transcript"`
}

// Open connects to the corpus database and verifies the connection.
func Open(ctx context.Context, cfg DBConfig) (*SQLSource, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite"
	}
	db, err := sqlx.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open %s corpus: %w", driver, err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s corpus: %w", driver, err)
	}
	return NewSQLSource(db, cfg.Query), nil
}

// NewSQLSource wraps an open database. An empty query selects DefaultQuery.
func NewSQLSource(db *sqlx.DB, query string) *SQLSource {
	if query == "" {
		query = DefaultQuery
	}
	return &SQLSource{db: db, query: query}
}

// Utterances runs the query and returns the rows sorted by chapter and verse.
// A NULL transcript becomes empty and fails normalization downstream.
func (s *SQLSource) Utterances(ctx context.Context) ([]Utterance, error) {
	var rows []utteranceRow
	if err := s.db.SelectContext(ctx, &rows, s.query); err != nil {
		return nil, fmt.Errorf("query corpus: %w", err)
	}
	out := make([]Utterance, len(rows))
	for i, r := range rows {
		out[i] = Utterance{
			ID:         Key(r.Chapter, r.Verse),
			Chapter:    r.Chapter,
			Verse:      r.Verse,
			Transcript: r.Transcript.String,
		}
	}
	Sort(out)
	return out, nil
}

// Close releases the database connection.
func (s *SQLSource) Close() error {
	return s.db.Close()
}
