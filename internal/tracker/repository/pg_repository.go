package repository

import (
	"context"
	"fmt"

	"github.com/clipdeck/clipdeck/internal/models"
	"github.com/clipdeck/clipdeck/internal/tracker"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type historyRepo struct {
	db *sqlx.DB
}

func NewHistoryRepo(db *sqlx.DB) tracker.HistoryRepository {
	return &historyRepo{db: db}
}

func (h *historyRepo) CreateRecord(ctx context.Context, record *models.JobRecord) (*models.JobRecord, error) {
	if record.RecordID == "" {
		record.RecordID = uuid.New().String()
	}
	created := &models.JobRecord{}
	if err := h.db.QueryRowxContext(
		ctx,
		createRecordQuery,
		record.RecordID,
		record.JobID,
		record.FileID,
		record.Mode,
		record.Status,
	).StructScan(created); err != nil {
		return nil, fmt.Errorf("historyRepo.CreateRecord: %w", err)
	}
	return created, nil
}

func (h *historyRepo) FinishRecord(ctx context.Context, jobID string, status models.JobStatus, outputURL, errMsg string) error {
	if _, err := h.db.ExecContext(ctx, finishRecordQuery, status, outputURL, errMsg, jobID); err != nil {
		return fmt.Errorf("historyRepo.FinishRecord: %w", err)
	}
	return nil
}

func (h *historyRepo) ListRecords(ctx context.Context, limit int) ([]models.JobRecord, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	records := make([]models.JobRecord, 0, limit)
	if err := h.db.SelectContext(ctx, &records, listRecordsQuery, limit); err != nil {
		return nil, fmt.Errorf("historyRepo.ListRecords: %w", err)
	}
	return records, nil
}
