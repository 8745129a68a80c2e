package stream

import (
	"testing"

	"github.com/clipdeck/clipdeck/internal/tracker"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		check   func(t *testing.T, msg *tracker.StreamMessage)
	}{
		{
			name: "timeline message",
			data: `{"type":"timeline","timeline":[{"event":"Extracting audio","status":"in_progress","timestamp":"2025-01-02T15:04:05Z"}]}`,
			check: func(t *testing.T, msg *tracker.StreamMessage) {
				if msg.Type != tracker.StreamTypeTimeline {
					t.Errorf("type = %q, want timeline", msg.Type)
				}
				if len(msg.Timeline) != 1 || msg.Timeline[0].Event != "Extracting audio" {
					t.Errorf("timeline = %+v", msg.Timeline)
				}
			},
		},
		{
			name: "log message",
			data: `{"type":"log","level":"success","message":"Audio extracted","timestamp":"2025-01-02T15:04:05Z"}`,
			check: func(t *testing.T, msg *tracker.StreamMessage) {
				if msg.Type != tracker.StreamTypeLog {
					t.Errorf("type = %q, want log", msg.Type)
				}
				if msg.Log.Message != "Audio extracted" || string(msg.Log.Level) != "success" {
					t.Errorf("log = %+v", msg.Log)
				}
			},
		},
		{name: "unknown type", data: `{"type":"metrics","cpu":97}`, wantErr: true},
		{name: "missing type", data: `{"message":"hello"}`, wantErr: true},
		{name: "malformed json", data: `{"type":"log",`, wantErr: true},
		{name: "timeline without payload", data: `{"type":"timeline"}`, wantErr: true},
		{name: "log without message", data: `{"type":"log","level":"info"}`, wantErr: true},
		{name: "wrong payload shape", data: `{"type":"timeline","timeline":"soon"}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := parseMessage([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseMessage(%s) expected error, got %+v", tt.data, msg)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseMessage(%s) error: %v", tt.data, err)
			}
			tt.check(t, msg)
		})
	}
}
