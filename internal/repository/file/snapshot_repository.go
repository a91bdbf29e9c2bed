// Package file keeps the circulation snapshot as a single JSON document,
// shaped like the browser build's library_data entry.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"library-desk/internal/domain"
	"library-desk/internal/repository"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SnapshotRepository reads and writes one JSON file.
type SnapshotRepository struct {
	path string
}

func NewSnapshotRepository(path string) repository.SnapshotRepository {
	return &SnapshotRepository{path: path}
}

func (r *SnapshotRepository) Init(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) Load(ctx context.Context) (*domain.Snapshot, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Save writes to a temp file next to the target and renames it into place, so
// a crash never leaves a half-written document behind.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snapshot.Users == nil {
		snapshot.Users = []domain.User{}
	}
	if snapshot.Books == nil {
		snapshot.Books = []domain.Book{}
	}
	if snapshot.Loans == nil {
		snapshot.Loans = []domain.Loan{}
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after rename

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
