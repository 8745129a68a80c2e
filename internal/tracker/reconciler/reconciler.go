package reconciler

import (
	"sync"

	"github.com/clipdeck/clipdeck/internal/models"
	"github.com/clipdeck/clipdeck/internal/tracker"
	"github.com/clipdeck/clipdeck/pkg/logger"
)

// statusRank orders the job state machine. Terminal states share the
// top rank; a move between them is sideways and gets discarded.
var statusRank = map[models.JobStatus]int{
	models.JobStatusQueued:     0,
	models.JobStatusAnalyzing:  1,
	models.JobStatusProcessing: 2,
	models.JobStatusCompleted:  3,
	models.JobStatusFailed:     3,
}

type jobReconciler struct {
	mu     sync.Mutex
	job    models.Job
	logs   []models.LogEntry
	seq    uint64
	logger logger.Logger
}

// New builds a fresh reconciler for one job id. Nothing is shared with
// a previously tracked job.
func New(jobID, fileID string, log logger.Logger) tracker.Reconciler {
	return &jobReconciler{
		job: models.Job{
			ID:     jobID,
			FileID: fileID,
			Status: models.JobStatusQueued,
		},
		logger: log,
	}
}

// ApplySnapshot merges a partial or full snapshot into the canonical
// Job. Fields absent from the snapshot are left untouched; applying the
// same snapshot twice yields the same resulting state as once.
func (r *jobReconciler) ApplySnapshot(snap *models.JobSnapshot) {
	if snap == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	seq := r.seq

	if snap.ID != "" && snap.ID != r.job.ID {
		r.logger.Warnf("reconciler: seq %d carries job id %s, tracking %s, discarded", seq, snap.ID, r.job.ID)
		return
	}
	if snap.FileID != "" && r.job.FileID == "" {
		r.job.FileID = snap.FileID
	}

	r.applyStatus(snap.Status, seq)
	r.applyTimeline(snap.Timeline, seq)
	r.applyHighlights(snap.Highlights)
	r.applyOutcome(snap.OutputURL, snap.Error, seq)
}

func (r *jobReconciler) applyStatus(status models.JobStatus, seq uint64) {
	if status == "" || status == r.job.Status {
		return
	}
	newRank, known := statusRank[status]
	if !known {
		r.logger.Warnf("reconciler: seq %d proposes unknown status %q, discarded", seq, status)
		return
	}
	if r.job.Status.IsTerminal() {
		r.logger.Warnf("reconciler: seq %d proposes %s after terminal %s, discarded", seq, status, r.job.Status)
		return
	}
	if newRank <= statusRank[r.job.Status] {
		r.logger.Warnf("reconciler: seq %d proposes backward transition %s -> %s, discarded", seq, r.job.Status, status)
		return
	}
	r.job.Status = status
}

// A timeline shorter than the one already held is a stale snapshot,
// typically the poll channel lagging behind the event channel.
func (r *jobReconciler) applyTimeline(timeline []models.TimelineEvent, seq uint64) {
	if timeline == nil {
		return
	}
	if len(timeline) < len(r.job.Timeline) {
		r.logger.Debugf("reconciler: seq %d timeline of %d events behind current %d, discarded", seq, len(timeline), len(r.job.Timeline))
		return
	}
	r.job.Timeline = append([]models.TimelineEvent(nil), timeline...)
}

func (r *jobReconciler) applyHighlights(highlights []models.Highlight) {
	if highlights == nil || len(highlights) < len(r.job.Highlights) {
		return
	}
	r.job.Highlights = append([]models.Highlight(nil), highlights...)
}

func (r *jobReconciler) applyOutcome(outputURL, errMsg *string, seq uint64) {
	if outputURL != nil && *outputURL != "" {
		switch {
		case r.job.Error != "":
			r.logger.Warnf("reconciler: seq %d carries output_url for a failed job, discarded", seq)
		case r.job.OutputURL == "":
			r.job.OutputURL = *outputURL
		case r.job.OutputURL != *outputURL:
			r.logger.Warnf("reconciler: seq %d conflicts with settled output_url %s, discarded", seq, r.job.OutputURL)
		}
	}
	if errMsg != nil && *errMsg != "" {
		switch {
		case r.job.OutputURL != "":
			r.logger.Warnf("reconciler: seq %d carries error for a completed job, discarded", seq)
		case r.job.Error == "":
			r.job.Error = *errMsg
		case r.job.Error != *errMsg:
			r.logger.Warnf("reconciler: seq %d conflicts with settled error %q, discarded", seq, r.job.Error)
		}
	}
}

// AppendLog adds one entry to the session log feed. The feed is strictly
// append-only: no dedupe, no reorder, no truncation.
func (r *jobReconciler) AppendLog(entry models.LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, entry)
}

func (r *jobReconciler) CurrentJob() models.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	job := r.job
	job.Timeline = append([]models.TimelineEvent(nil), r.job.Timeline...)
	job.Highlights = append([]models.Highlight(nil), r.job.Highlights...)
	return job
}

func (r *jobReconciler) Logs() []models.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.LogEntry(nil), r.logs...)
}

func (r *jobReconciler) IsTerminal() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.job.Status.IsTerminal()
}
