package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ashureev/uiforge/internal/domain"
	_ "modernc.org/sqlite"
)

// MaxListLimit caps ListGenerations.
const MaxListLimit = 100

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// modernc applies _pragma parameters on every new pooled connection.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS generations (
		id TEXT PRIMARY KEY,
		client_id TEXT NOT NULL,
		operation TEXT NOT NULL,
		framework TEXT NOT NULL,
		prompt TEXT NOT NULL DEFAULT '',
		code TEXT NOT NULL,
		explanation TEXT NOT NULL DEFAULT '',
		suggestions_json TEXT,
		changes_json TEXT,
		fallback INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_generations_client ON generations(client_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_generations_created ON generations(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveGeneration appends a record to the history.
func (s *SQLiteStore) SaveGeneration(ctx context.Context, rec *domain.GenerationRecord) error {
	suggestions, err := marshalList(rec.Suggestions)
	if err != nil {
		return fmt.Errorf("marshal suggestions: %w", err)
	}
	changes, err := marshalList(rec.Changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	query := `
	INSERT INTO generations (id, client_id, operation, framework, prompt, code, explanation,
		suggestions_json, changes_json, fallback, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.ClientID, string(rec.Operation), string(rec.Framework),
		rec.Prompt, rec.Code, rec.Explanation,
		suggestions, changes, boolToInt(rec.Fallback), rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

const selectColumns = `
	SELECT id, client_id, operation, framework, prompt, code, explanation,
	       suggestions_json, changes_json, fallback, created_at
	FROM generations`

// GetGeneration retrieves a record owned by clientID.
func (s *SQLiteStore) GetGeneration(ctx context.Context, clientID, id string) (*domain.GenerationRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ? AND client_id = ?`, id, clientID)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan generation row: %w", err)
	}
	return rec, nil
}

// ListGenerations returns the newest records for a client, newest first.
func (s *SQLiteStore) ListGenerations(ctx context.Context, clientID string, limit int) ([]*domain.GenerationRecord, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE client_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, clientID, limit)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var out []*domain.GenerationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan generation row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generations: %w", err)
	}
	return out, nil
}

// DeleteOlderThan removes records created before cutoff.
func (s *SQLiteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM generations WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("delete generations: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.GenerationRecord, error) {
	var rec domain.GenerationRecord
	var operation, framework string
	var suggestions, changes sql.NullString
	var fallback int
	var createdAt int64

	if err := row.Scan(
		&rec.ID, &rec.ClientID, &operation, &framework, &rec.Prompt, &rec.Code, &rec.Explanation,
		&suggestions, &changes, &fallback, &createdAt,
	); err != nil {
		return nil, err
	}

	rec.Operation = domain.Operation(operation)
	rec.Framework = domain.Framework(framework)
	rec.Fallback = fallback != 0
	rec.CreatedAt = time.UnixMilli(createdAt)

	if err := unmarshalList(suggestions, &rec.Suggestions); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	if err := unmarshalList(changes, &rec.Changes); err != nil {
		return nil, fmt.Errorf("decode changes: %w", err)
	}
	return &rec, nil
}

func marshalList(list []string) (any, error) {
	if list == nil {
		return nil, nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalList(s sql.NullString, dst *[]string) error {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(s.String), dst)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
