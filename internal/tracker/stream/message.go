package stream

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/clipdeck/clipdeck/internal/models"
	"github.com/clipdeck/clipdeck/internal/tracker"
)

type wireMessage struct {
	Type      string                 `json:"type"`
	Timeline  []models.TimelineEvent `json:"timeline"`
	Level     models.LogLevel        `json:"level"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
}

// parseMessage decodes one inbound frame. Unknown discriminators and
// malformed payloads come back as errors so the caller can drop them.
func parseMessage(data []byte) (*tracker.StreamMessage, error) {
	var wire wireMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("malformed stream message: %v", err)
	}
	switch wire.Type {
	case tracker.StreamTypeTimeline:
		if wire.Timeline == nil {
			return nil, fmt.Errorf("timeline message without timeline payload")
		}
		return &tracker.StreamMessage{
			Type:     tracker.StreamTypeTimeline,
			Timeline: wire.Timeline,
		}, nil
	case tracker.StreamTypeLog:
		if wire.Message == "" {
			return nil, fmt.Errorf("log message without message payload")
		}
		return &tracker.StreamMessage{
			Type: tracker.StreamTypeLog,
			Log: models.LogEntry{
				Level:     wire.Level,
				Message:   wire.Message,
				Timestamp: wire.Timestamp,
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown stream message type %q", wire.Type)
	}
}
