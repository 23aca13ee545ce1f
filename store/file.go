package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"whiteboard/diagram"
)

const fileExt = ".json"

// FileStore keeps one JSON file per project in a directory.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create save directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Path returns the file a project is stored in.
func (f *FileStore) Path(project string) string {
	return filepath.Join(f.dir, filepath.Base(project)+fileExt)
}

// Save writes the snapshot atomically through a temp file.
func (f *FileStore) Save(ctx context.Context, project string, s diagram.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := diagram.MarshalSnapshot(s)
	if err != nil {
		return fmt.Errorf("encode %s: %w", project, err)
	}
	path := f.Path(project)
	tmp, err := os.CreateTemp(f.dir, ".save-*")
	if err != nil {
		return fmt.Errorf("save %s: %w", project, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save %s: %w", project, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save %s: %w", project, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save %s: %w", project, err)
	}
	f.logger.Debug("snapshot saved", zap.String("path", path), zap.Int("nodes", len(s.Nodes)))
	return nil
}

// Load reads and validates a project file.
func (f *FileStore) Load(ctx context.Context, project string) (diagram.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return diagram.Snapshot{}, err
	}
	data, err := os.ReadFile(f.Path(project))
	if errors.Is(err, os.ErrNotExist) {
		return diagram.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return diagram.Snapshot{}, fmt.Errorf("load %s: %w", project, err)
	}
	s, err := diagram.UnmarshalSnapshot(data)
	if err != nil {
		return diagram.Snapshot{}, fmt.Errorf("load %s: %w", project, err)
	}
	return s, nil
}

// List returns saved project ids, sorted.
func (f *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != fileExt {
			continue
		}
		out = append(out, strings.TrimSuffix(name, fileExt))
	}
	sort.Strings(out)
	return out, nil
}

// Close is a no-op.
func (f *FileStore) Close() error { return nil }
