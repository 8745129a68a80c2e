package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clipdeck/clipdeck/internal/clipper"
	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/models"
	"github.com/clipdeck/clipdeck/pkg/logger"
	"github.com/labstack/echo/v4"
)

type stubBuilder struct {
	selection clipper.Selection
	acceptAll bool
}

func (s *stubBuilder) SetStart(t float64) bool       { return s.acceptAll }
func (s *stubBuilder) SetEnd(t float64) bool         { return s.acceptAll }
func (s *stubBuilder) CommitClip() bool              { return s.acceptAll }
func (s *stubBuilder) RemoveClip(index int) bool     { return s.acceptAll }
func (s *stubBuilder) Current() clipper.Selection    { return s.selection }
func (s *stubBuilder) Submit(ctx context.Context, fileID string) (*models.Job, error) {
	return &models.Job{ID: "job-1", FileID: fileID, Status: models.JobStatusQueued}, nil
}

func testLogger() logger.Logger {
	cfg := &config.Config{Logger: config.Logger{Level: "fatal", Encoding: "console", Development: true}}
	l := logger.NewApiLogger(cfg)
	l.InitLogger()
	return l
}

func doRequest(t *testing.T, handler echo.HandlerFunc, method, path, body string, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestMarkStart(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		acceptAll  bool
		wantStatus int
	}{
		{"valid mark", `{"time":12.5}`, true, http.StatusOK},
		{"negative time", `{"time":-3}`, true, http.StatusBadRequest},
		{"builder rejects", `{"time":5}`, false, http.StatusUnprocessableEntity},
		{"malformed body", `{"time":`, true, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewClipperHandler(&stubBuilder{acceptAll: tt.acceptAll}, testLogger())
			rec := doRequest(t, h.MarkStart(), http.MethodPost, "/api/v1/clips/start", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestRemoveClip(t *testing.T) {
	h := NewClipperHandler(&stubBuilder{acceptAll: false}, testLogger())
	rec := doRequest(t, h.RemoveClip(), http.MethodDelete, "/api/v1/clips/0", "", "index", "not-a-number")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d for a bad index", rec.Code, http.StatusBadRequest)
	}
	rec = doRequest(t, h.RemoveClip(), http.MethodDelete, "/api/v1/clips/7", "", "index", "7")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d for a missing clip", rec.Code, http.StatusNotFound)
	}
}

func TestSubmit(t *testing.T) {
	h := NewClipperHandler(&stubBuilder{acceptAll: true}, testLogger())
	rec := doRequest(t, h.Submit(), http.MethodPost, "/api/v1/clips/submit/file-1", "", "file_id", "file-1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var job models.Job
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if job.ID != "job-1" || job.FileID != "file-1" {
		t.Errorf("job = %+v", job)
	}
}
