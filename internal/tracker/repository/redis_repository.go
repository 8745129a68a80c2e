package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/models"
	"github.com/clipdeck/clipdeck/internal/tracker"
	"github.com/go-redis/redis/v8"
)

const snapshotKeyPrefix = "job:snapshot:"

type snapshotRedisRepo struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewSnapshotRedisRepo(redisClient *redis.Client, cfg *config.Config) tracker.SnapshotRepository {
	ttl := time.Duration(cfg.Redis.SnapshotTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &snapshotRedisRepo{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (s *snapshotRedisRepo) SetSnapshot(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job snapshot: %w", err)
	}
	if err = s.redisClient.Set(ctx, snapshotKeyPrefix+job.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache job snapshot: %w", err)
	}
	return nil
}

func (s *snapshotRedisRepo) GetSnapshot(ctx context.Context, jobID string) (*models.Job, error) {
	data, err := s.redisClient.Get(ctx, snapshotKeyPrefix+jobID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read job snapshot: %w", err)
	}
	job := &models.Job{}
	if err = json.Unmarshal([]byte(data), job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job snapshot: %w", err)
	}
	return job, nil
}

func (s *snapshotRedisRepo) DeleteSnapshot(ctx context.Context, jobID string) error {
	return s.redisClient.Del(ctx, snapshotKeyPrefix+jobID).Err()
}
