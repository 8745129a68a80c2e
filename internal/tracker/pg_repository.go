package tracker

import (
	"context"

	"github.com/clipdeck/clipdeck/internal/models"
)

type HistoryRepository interface {
	CreateRecord(ctx context.Context, record *models.JobRecord) (*models.JobRecord, error)
	FinishRecord(ctx context.Context, jobID string, status models.JobStatus, outputURL, errMsg string) error
	ListRecords(ctx context.Context, limit int) ([]models.JobRecord, error)
}
