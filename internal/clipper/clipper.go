package clipper

import (
	"context"

	"github.com/clipdeck/clipdeck/internal/models"
)

// Selection is the builder's working state: pending in/out markers plus
// the committed clip list in insertion order.
type Selection struct {
	PendingStart *float64      `json:"pending_start"`
	PendingEnd   *float64      `json:"pending_end"`
	Clips        []models.Clip `json:"clips"`
	MaxClips     int           `json:"max_clips"`
}

// Builder accumulates validated time ranges against a play-head
// position. Invalid operations are rejected as no-ops; an inverted or
// zero-length range is not constructible through any call sequence.
type Builder interface {
	SetStart(t float64) bool
	SetEnd(t float64) bool
	CommitClip() bool
	RemoveClip(index int) bool
	Current() Selection
	Submit(ctx context.Context, fileID string) (*models.Job, error)
}
