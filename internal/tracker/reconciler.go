package tracker

import (
	"github.com/clipdeck/clipdeck/internal/models"
)

// Reconciler owns the canonical Job record for one job id and merges
// snapshots arriving from the poll and event channels. It is the only
// component allowed to mutate Job fields.
type Reconciler interface {
	ApplySnapshot(snap *models.JobSnapshot)
	AppendLog(entry models.LogEntry)
	CurrentJob() models.Job
	Logs() []models.LogEntry
	IsTerminal() bool
}
