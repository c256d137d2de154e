// Package store provides persistence for generation history.
package store

import (
	"context"
	"time"

	"github.com/ashureev/uiforge/internal/domain"
)

// Repository defines the interface for persisting generation history.
type Repository interface {
	// SaveGeneration appends a record to the history.
	SaveGeneration(ctx context.Context, rec *domain.GenerationRecord) error

	// GetGeneration retrieves a record owned by clientID. It returns nil, nil
	// when no such record exists.
	GetGeneration(ctx context.Context, clientID, id string) (*domain.GenerationRecord, error)

	// ListGenerations returns the newest records for a client, newest first.
	ListGenerations(ctx context.Context, clientID string, limit int) ([]*domain.GenerationRecord, error)

	// DeleteOlderThan removes records created before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
