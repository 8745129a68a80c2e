package tracker

import (
	"context"

	"github.com/clipdeck/clipdeck/internal/models"
)

type UseCase interface {
	StartProcessing(ctx context.Context, fileID string) (*models.Job, error)
	StartManualProcessing(ctx context.Context, fileID string, clips []models.Clip) (*models.Job, error)
	Track(ctx context.Context, jobID, fileID, mode string) error
	Teardown(ctx context.Context) error

	CurrentJob() (*models.Job, error)
	Logs() ([]models.LogEntry, error)
	StreamConnected() bool
	History(ctx context.Context, limit int) ([]models.JobRecord, error)
}
