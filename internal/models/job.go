package models

import (
	"database/sql"
	"time"
)

type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusAnalyzing  JobStatus = "analyzing"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further status transition is valid.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

type EventStatus string

const (
	EventStatusCompleted  EventStatus = "completed"
	EventStatusInProgress EventStatus = "in_progress"
	EventStatusFailed     EventStatus = "failed"
)

// TimelineEvent is one stage of backend work, e.g. "Extracting audio".
// The last event in a timeline is the active stage unless all are completed.
type TimelineEvent struct {
	Event     string      `json:"event"`
	Status    EventStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
	LogLevelSuccess LogLevel = "success"
)

type LogEntry struct {
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Highlight struct {
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Description string  `json:"description,omitempty"`
}

// Job is the canonical record of one processing run. It is owned by the
// reconciler; everything else reads copies or submits snapshots.
type Job struct {
	ID         string          `json:"id"`
	FileID     string          `json:"file_id"`
	Status     JobStatus       `json:"status"`
	OutputURL  string          `json:"output_url,omitempty"`
	Error      string          `json:"error,omitempty"`
	Highlights []Highlight     `json:"highlights,omitempty"`
	Timeline   []TimelineEvent `json:"timeline,omitempty"`
}

// JobSnapshot is a partial or full view of a Job as delivered by the
// poll and event channels. Nil pointer / nil slice / empty status mean
// the field was absent from the update, not that it was cleared.
type JobSnapshot struct {
	ID         string          `json:"id"`
	FileID     string          `json:"file_id"`
	Status     JobStatus       `json:"status"`
	OutputURL  *string         `json:"output_url"`
	Error      *string         `json:"error"`
	Highlights []Highlight     `json:"highlights"`
	Timeline   []TimelineEvent `json:"timeline"`
}

// JobRecord is the persisted history row for a tracked job.
type JobRecord struct {
	RecordID   string       `json:"record_id" db:"record_id"`
	JobID      string       `json:"job_id" db:"job_id"`
	FileID     string       `json:"file_id" db:"file_id"`
	Mode       string       `json:"mode" db:"mode"`
	Status     JobStatus    `json:"status" db:"status"`
	OutputURL  string       `json:"output_url,omitempty" db:"output_url"`
	Error      string       `json:"error,omitempty" db:"error"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
	FinishedAt sql.NullTime `json:"finished_at,omitempty" db:"finished_at"`
}

const (
	JobModeAgentic = "agentic"
	JobModeManual  = "manual"
)
