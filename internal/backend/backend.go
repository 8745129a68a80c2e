package backend

import (
	"context"

	"github.com/clipdeck/clipdeck/internal/models"
)

// Client is the request/response half of the processing-engine boundary.
// The engine itself is opaque; jobs are identified only by id and status.
type Client interface {
	CreateJob(ctx context.Context, fileID string) (*models.JobSnapshot, error)
	CreateManualJob(ctx context.Context, fileID string, clips []models.Clip) (*models.JobSnapshot, error)
	GetJobSnapshot(ctx context.Context, jobID string) (*models.JobSnapshot, error)
}
