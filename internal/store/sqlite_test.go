package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ashureev/uiforge/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func record(id, client string, created time.Time) *domain.GenerationRecord {
	return &domain.GenerationRecord{
		ID:          id,
		ClientID:    client,
		Operation:   domain.OpGenerate,
		Framework:   domain.FrameworkReact,
		Prompt:      "a button",
		Code:        "export const B = () => null;",
		Explanation: "a button",
		Suggestions: []string{"Add tests"},
		CreatedAt:   created,
	}
}

func TestSQLiteStore_SaveAndGet(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	created := time.UnixMilli(time.Now().UnixMilli())
	rec := record("g1", "anon_a", created)
	rec.Changes = []string{"Applied user feedback"}
	rec.Fallback = true

	if err := s.SaveGeneration(ctx, rec); err != nil {
		t.Fatalf("SaveGeneration: %v", err)
	}

	got, err := s.GetGeneration(ctx, "anon_a", "g1")
	if err != nil {
		t.Fatalf("GetGeneration: %v", err)
	}
	if got == nil {
		t.Fatal("expected record, got nil")
	}
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, rec)
	}
}

func TestSQLiteStore_GetScopedToClient(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveGeneration(ctx, record("g1", "anon_a", time.Now())); err != nil {
		t.Fatalf("SaveGeneration: %v", err)
	}

	got, err := s.GetGeneration(ctx, "anon_b", "g1")
	if err != nil {
		t.Fatalf("GetGeneration: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for another client, got %+v", got)
	}
}

func TestSQLiteStore_ListNewestFirst(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		if err := s.SaveGeneration(ctx, record(id, "anon_a", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("SaveGeneration: %v", err)
		}
	}
	if err := s.SaveGeneration(ctx, record("other", "anon_b", time.Now())); err != nil {
		t.Fatalf("SaveGeneration: %v", err)
	}

	got, err := s.ListGenerations(ctx, "anon_a", 2)
	if err != nil {
		t.Fatalf("ListGenerations: %v", err)
	}
	if len(got) != 2 || got[0].ID != "new" || got[1].ID != "mid" {
		ids := make([]string, len(got))
		for i, r := range got {
			ids[i] = r.ID
		}
		t.Errorf("ids = %v, want [new mid]", ids)
	}
}

func TestSQLiteStore_DeleteOlderThan(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	_ = s.SaveGeneration(ctx, record("stale", "anon_a", time.Now().Add(-48*time.Hour)))
	_ = s.SaveGeneration(ctx, record("fresh", "anon_a", time.Now()))

	n, err := s.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}

	got, _ := s.ListGenerations(ctx, "anon_a", 10)
	if len(got) != 1 || got[0].ID != "fresh" {
		t.Errorf("unexpected remaining records: %+v", got)
	}
}

func TestSQLiteStore_Ping(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestSQLiteStore_Pragmas(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	// Pin several pooled connections so each one is checked.
	conns := make([]*sql.Conn, 3)
	for i := range conns {
		c, err := s.db.Conn(ctx)
		if err != nil {
			t.Fatalf("Conn: %v", err)
		}
		defer c.Close()
		conns[i] = c
	}

	for i, c := range conns {
		var mode string
		if err := c.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode); err != nil {
			t.Fatalf("journal_mode: %v", err)
		}
		if mode != "wal" {
			t.Errorf("conn %d journal_mode = %q, want wal", i, mode)
		}

		var timeout int
		if err := c.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout); err != nil {
			t.Fatalf("busy_timeout: %v", err)
		}
		if timeout != 5000 {
			t.Errorf("conn %d busy_timeout = %d, want 5000", i, timeout)
		}
	}
}
