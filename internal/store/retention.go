package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ashureev/uiforge/internal/domain"
	"github.com/ashureev/uiforge/internal/shared"
)

const (
	maxRetries     = 3
	baseRetryDelay = 50 * time.Millisecond
)

// withRetry runs op, retrying with exponential backoff (50ms, 100ms) while
// SQLite reports lock contention.
func withRetry(ctx context.Context, name string, op func() error) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		err = op()
		if err == nil {
			return nil
		}
		if !shared.IsSQLiteConflictError(err) || i == maxRetries-1 {
			break
		}

		delay := baseRetryDelay * time.Duration(1<<i)
		slog.Debug("Database locked, retrying", "op", name, "attempt", i+1, "delay", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("%s: %w", name, err)
}

// SaveWithRetry persists rec, retrying on SQLITE_BUSY.
func SaveWithRetry(ctx context.Context, repo Repository, rec *domain.GenerationRecord) error {
	return withRetry(ctx, "save generation", func() error {
		return repo.SaveGeneration(ctx, rec)
	})
}

// StartRetentionWorker runs a background goroutine that periodically deletes
// history older than ttl. It stops when ctx is done.
func StartRetentionWorker(ctx context.Context, repo Repository, ttl, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Retention worker started", "interval", interval, "ttl", ttl)

		for {
			select {
			case <-ticker.C:
				pruneHistory(ctx, repo, ttl)
			case <-ctx.Done():
				slog.Info("Retention worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

func pruneHistory(ctx context.Context, repo Repository, ttl time.Duration) int64 {
	var deleted int64
	err := withRetry(ctx, "prune history", func() error {
		n, err := repo.DeleteOlderThan(ctx, time.Now().Add(-ttl))
		deleted = n
		return err
	})
	if err != nil {
		slog.Error("Retention worker failed to prune history", "error", err)
		return 0
	}
	if deleted > 0 {
		slog.Info("Retention worker pruned history", "count", deleted)
	}
	return deleted
}
