package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

var _ Store = (*SqlStore)(nil)

// Open opens or creates a SQLite DB at path and initializes the schema.
// Creates the parent directory (e.g. .causeway) if it does not exist.
func Open(path string) (*SqlStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableCount == 0 {
		// Fresh database.
		if _, err := s.db.Exec(schemaV1); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}

	var v int
	if err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != schemaVersion {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

// Close closes the database connection.
func (s *SqlStore) Close() error {
	return s.db.Close()
}

func (s *SqlStore) SaveAnalysis(rec *Record) (int64, error) {
	treatments, err := json.Marshal(rec.Treatments)
	if err != nil {
		return 0, fmt.Errorf("marshal treatments: %w", err)
	}
	outcomes, err := json.Marshal(rec.Outcomes)
	if err != nil {
		return 0, fmt.Errorf("marshal outcomes: %w", err)
	}
	summary, err := json.Marshal(rec.Summary)
	if err != nil {
		return 0, fmt.Errorf("marshal summary: %w", err)
	}

	identified := 0
	if rec.Identified {
		identified = 1
	}
	res, err := s.db.Exec(
		`INSERT INTO analyses(created_at, source, treatments, outcomes, identified, summary)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		nowUTC(), rec.Source, string(treatments), string(outcomes), identified, string(summary),
	)
	if err != nil {
		return 0, fmt.Errorf("insert analysis: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("analysis id: %w", err)
	}
	rec.ID = id
	return id, nil
}

func (s *SqlStore) GetAnalysis(id int64) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT id, created_at, source, treatments, outcomes, identified, summary
		 FROM analyses WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return rec, err
}

func (s *SqlStore) ListAnalyses(limit int) ([]*Record, error) {
	q := `SELECT id, created_at, source, treatments, outcomes, identified, summary
	      FROM analyses ORDER BY id DESC`
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec        Record
		treatments string
		outcomes   string
		summary    string
		identified int
	)
	err := row.Scan(&rec.ID, &rec.CreatedAt, &rec.Source,
		&treatments, &outcomes, &identified, &summary)
	if err != nil {
		return nil, err
	}
	rec.Identified = identified != 0
	if err := json.Unmarshal([]byte(treatments), &rec.Treatments); err != nil {
		return nil, fmt.Errorf("unmarshal treatments: %w", err)
	}
	if err := json.Unmarshal([]byte(outcomes), &rec.Outcomes); err != nil {
		return nil, fmt.Errorf("unmarshal outcomes: %w", err)
	}
	if err := json.Unmarshal([]byte(summary), &rec.Summary); err != nil {
		return nil, fmt.Errorf("unmarshal summary: %w", err)
	}
	return &rec, nil
}
