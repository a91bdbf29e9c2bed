package repository

import (
	"context"

	"library-desk/internal/domain"
)

// SnapshotRepository persists the whole circulation state as one unit.
type SnapshotRepository interface {
	Init(ctx context.Context) error
	// Load returns nil and no error when nothing has been saved yet.
	Load(ctx context.Context) (*domain.Snapshot, error)
	Save(ctx context.Context, snapshot domain.Snapshot) error
}
