// Package store persists board snapshots per project. The editor never
// depends on it; the host saves and loads snapshots through a Store.
package store

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"whiteboard/diagram"
)

// ErrNotFound is returned by Load for a project that was never saved.
var ErrNotFound = errors.New("project not found")

// Store saves and loads whole snapshots keyed by project id.
type Store interface {
	Save(ctx context.Context, project string, s diagram.Snapshot) error
	Load(ctx context.Context, project string) (diagram.Snapshot, error)
	List(ctx context.Context) ([]string, error)
	Close() error
}

// Open picks a backend from dsn: "sqlite://path", "postgres://..." or
// "postgresql://..." use gorm; anything else is a directory for JSON files.
func Open(dsn string, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		return OpenSQLite(strings.TrimPrefix(dsn, "sqlite://"), logger)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenPostgres(dsn, logger)
	default:
		return NewFileStore(dsn, logger)
	}
}
