package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/clipdeck/clipdeck/internal/backend"
	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/models"
	"github.com/clipdeck/clipdeck/internal/tracker"
	"github.com/clipdeck/clipdeck/internal/tracker/poller"
	"github.com/clipdeck/clipdeck/internal/tracker/reconciler"
	"github.com/clipdeck/clipdeck/internal/tracker/stream"
	"github.com/clipdeck/clipdeck/pkg/logger"
)

const persistTimeout = 3 * time.Second

// session bundles everything scoped to one tracked job id. A new
// subscription always builds a fresh session; nothing is reused.
type session struct {
	jobID      string
	rec        tracker.Reconciler
	channel    tracker.EventChannel
	poll       *poller.Poller
	cancel     context.CancelFunc
	finishOnce sync.Once
}

type trackerUC struct {
	cfg           *config.Config
	backendClient backend.Client
	snapRepo      tracker.SnapshotRepository
	historyRepo   tracker.HistoryRepository
	logger        logger.Logger

	mu     sync.Mutex
	active *session
}

// NewTrackerUseCase builds the job tracking usecase. snapRepo and
// historyRepo may be nil when the corresponding store is not configured.
func NewTrackerUseCase(
	cfg *config.Config,
	backendClient backend.Client,
	snapRepo tracker.SnapshotRepository,
	historyRepo tracker.HistoryRepository,
	log logger.Logger,
) tracker.UseCase {
	return &trackerUC{
		cfg:           cfg,
		backendClient: backendClient,
		snapRepo:      snapRepo,
		historyRepo:   historyRepo,
		logger:        log,
	}
}

func (u *trackerUC) StartProcessing(ctx context.Context, fileID string) (*models.Job, error) {
	snap, err := u.backendClient.CreateJob(ctx, fileID)
	if err != nil {
		u.logger.Errorf("StartProcessing - CreateJob error: %v", err)
		return nil, fmt.Errorf("failed to start processing: %v", err)
	}
	if err = u.Track(ctx, snap.ID, fileID, models.JobModeAgentic); err != nil {
		return nil, err
	}
	return u.CurrentJob()
}

func (u *trackerUC) StartManualProcessing(ctx context.Context, fileID string, clips []models.Clip) (*models.Job, error) {
	if len(clips) == 0 {
		return nil, fmt.Errorf("at least one clip is required")
	}
	snap, err := u.backendClient.CreateManualJob(ctx, fileID, clips)
	if err != nil {
		u.logger.Errorf("StartManualProcessing - CreateManualJob error: %v", err)
		return nil, fmt.Errorf("failed to start manual processing: %v", err)
	}
	if err = u.Track(ctx, snap.ID, fileID, models.JobModeManual); err != nil {
		return nil, err
	}
	return u.CurrentJob()
}

// Track subscribes both channels to jobID. Any previously tracked job
// is torn down first; its state is never carried over.
func (u *trackerUC) Track(ctx context.Context, jobID, fileID, mode string) error {
	if jobID == "" {
		return fmt.Errorf("invalid job id: cannot be empty")
	}

	u.mu.Lock()
	previous := u.active
	u.active = nil
	u.mu.Unlock()
	if previous != nil {
		u.stopSession(previous)
	}

	rec := reconciler.New(jobID, fileID, u.logger)
	u.warmStart(ctx, jobID, rec)
	u.recordStart(ctx, jobID, fileID, mode)

	sessCtx, cancel := context.WithCancel(context.Background())
	sess := &session{
		jobID:  jobID,
		rec:    rec,
		cancel: cancel,
	}

	channel := stream.NewClient(
		u.cfg.Backend.WSURL,
		time.Duration(u.cfg.Stream.ReconnectDelaySeconds)*time.Second,
		u.logger,
	)
	channel.OnMessage(func(msg tracker.StreamMessage) {
		u.onStreamMessage(sess, msg)
	})
	sess.channel = channel

	sess.poll = poller.New(
		time.Duration(u.cfg.Poll.IntervalSeconds)*time.Second,
		u.backendClient,
		u.logger,
	)

	u.mu.Lock()
	u.active = sess
	u.mu.Unlock()

	channel.Connect(jobID)
	sess.poll.Start(sessCtx, jobID, func(snap *models.JobSnapshot) bool {
		return u.onPollSnapshot(sess, snap)
	})

	u.logger.Infof("tracking job %s (file %s, mode %s)", jobID, fileID, mode)
	return nil
}

func (u *trackerUC) onStreamMessage(sess *session, msg tracker.StreamMessage) {
	switch msg.Type {
	case tracker.StreamTypeTimeline:
		sess.rec.ApplySnapshot(&models.JobSnapshot{Timeline: msg.Timeline})
	case tracker.StreamTypeLog:
		sess.rec.AppendLog(msg.Log)
	}
	u.afterApply(sess)
}

func (u *trackerUC) onPollSnapshot(sess *session, snap *models.JobSnapshot) bool {
	sess.rec.ApplySnapshot(snap)
	u.afterApply(sess)
	return sess.rec.IsTerminal()
}

func (u *trackerUC) afterApply(sess *session) {
	job := sess.rec.CurrentJob()
	if u.snapRepo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		if err := u.snapRepo.SetSnapshot(ctx, &job); err != nil {
			u.logger.Warnf("failed to cache snapshot for job %s: %v", job.ID, err)
		}
		cancel()
	}
	if job.Status.IsTerminal() {
		sess.finishOnce.Do(func() {
			// finalize on a fresh goroutine: the poll loop may be the
			// caller here and Stop waits for that loop to exit.
			go u.finalize(sess, job)
		})
	}
}

func (u *trackerUC) finalize(sess *session, job models.Job) {
	sess.cancel()
	sess.channel.Close()
	sess.poll.Stop()
	u.logger.Infof("job %s finished with status %s", job.ID, job.Status)
	if u.historyRepo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := u.historyRepo.FinishRecord(ctx, job.ID, job.Status, job.OutputURL, job.Error); err != nil {
			u.logger.Errorf("failed to finalize history record for job %s: %v", job.ID, err)
		}
	}
}

// Teardown abandons the active subscription. Both channels are stopped
// before it returns; no further callback fires afterwards.
func (u *trackerUC) Teardown(ctx context.Context) error {
	u.mu.Lock()
	sess := u.active
	u.active = nil
	u.mu.Unlock()
	if sess == nil {
		return nil
	}
	u.stopSession(sess)
	if u.snapRepo != nil {
		if err := u.snapRepo.DeleteSnapshot(ctx, sess.jobID); err != nil {
			u.logger.Warnf("failed to drop cached snapshot for job %s: %v", sess.jobID, err)
		}
	}
	u.logger.Infof("stopped tracking job %s", sess.jobID)
	return nil
}

func (u *trackerUC) stopSession(sess *session) {
	sess.cancel()
	sess.channel.Close()
	sess.poll.Stop()
}

func (u *trackerUC) CurrentJob() (*models.Job, error) {
	u.mu.Lock()
	sess := u.active
	u.mu.Unlock()
	if sess == nil {
		return nil, fmt.Errorf("no job is being tracked")
	}
	job := sess.rec.CurrentJob()
	return &job, nil
}

func (u *trackerUC) Logs() ([]models.LogEntry, error) {
	u.mu.Lock()
	sess := u.active
	u.mu.Unlock()
	if sess == nil {
		return nil, fmt.Errorf("no job is being tracked")
	}
	return sess.rec.Logs(), nil
}

func (u *trackerUC) StreamConnected() bool {
	u.mu.Lock()
	sess := u.active
	u.mu.Unlock()
	return sess != nil && sess.channel.Connected()
}

func (u *trackerUC) History(ctx context.Context, limit int) ([]models.JobRecord, error) {
	if u.historyRepo == nil {
		return nil, fmt.Errorf("job history is not configured")
	}
	records, err := u.historyRepo.ListRecords(ctx, limit)
	if err != nil {
		u.logger.Errorf("History - ListRecords error: %v", err)
		return nil, fmt.Errorf("failed to fetch job history: %v", err)
	}
	return records, nil
}

func (u *trackerUC) warmStart(ctx context.Context, jobID string, rec tracker.Reconciler) {
	if u.snapRepo == nil {
		return
	}
	cached, err := u.snapRepo.GetSnapshot(ctx, jobID)
	if err != nil {
		u.logger.Warnf("failed to read cached snapshot for job %s: %v", jobID, err)
		return
	}
	if cached == nil {
		return
	}
	rec.ApplySnapshot(snapshotFromJob(cached))
	u.logger.Infof("warm-started job %s from cached snapshot", jobID)
}

func (u *trackerUC) recordStart(ctx context.Context, jobID, fileID, mode string) {
	if u.historyRepo == nil {
		return
	}
	record := &models.JobRecord{
		JobID:  jobID,
		FileID: fileID,
		Mode:   mode,
		Status: models.JobStatusQueued,
	}
	if _, err := u.historyRepo.CreateRecord(ctx, record); err != nil {
		u.logger.Warnf("failed to create history record for job %s: %v", jobID, err)
	}
}

func snapshotFromJob(job *models.Job) *models.JobSnapshot {
	snap := &models.JobSnapshot{
		ID:         job.ID,
		FileID:     job.FileID,
		Status:     job.Status,
		Highlights: job.Highlights,
		Timeline:   job.Timeline,
	}
	if job.OutputURL != "" {
		snap.OutputURL = &job.OutputURL
	}
	if job.Error != "" {
		snap.Error = &job.Error
	}
	return snap
}
