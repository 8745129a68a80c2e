package tracker

import (
	"context"

	"github.com/clipdeck/clipdeck/internal/models"
)

// SnapshotRepository caches the latest reconciled Job so a restarted
// console can render a view before the first poll lands.
type SnapshotRepository interface {
	SetSnapshot(ctx context.Context, job *models.Job) error
	GetSnapshot(ctx context.Context, jobID string) (*models.Job, error)
	DeleteSnapshot(ctx context.Context, jobID string) error
}
