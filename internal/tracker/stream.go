package tracker

import (
	"github.com/clipdeck/clipdeck/internal/models"
)

// Wire discriminators of the job event stream. The processing backend
// is fixed, so these values must not change.
const (
	StreamTypeTimeline = "timeline"
	StreamTypeLog      = "log"
)

// StreamMessage is one decoded event-stream message. Exactly one of
// Timeline or Log is populated, according to Type.
type StreamMessage struct {
	Type     string
	Timeline []models.TimelineEvent
	Log      models.LogEntry
}

// EventChannel is a reconnecting push connection scoped to one job id.
// Close is idempotent and guarantees no delivery afterwards.
type EventChannel interface {
	OnMessage(handler func(msg StreamMessage))
	Connect(jobID string)
	Connected() bool
	Close()
}
