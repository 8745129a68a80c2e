package poller

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/models"
	"github.com/clipdeck/clipdeck/pkg/logger"
)

func testLogger() logger.Logger {
	cfg := &config.Config{Logger: config.Logger{Level: "fatal", Encoding: "console", Development: true}}
	l := logger.NewApiLogger(cfg)
	l.InitLogger()
	return l
}

// fakeBackend serves a scripted sequence of snapshots; the last element
// repeats once the script runs out.
type fakeBackend struct {
	mu       sync.Mutex
	script   []func() (*models.JobSnapshot, error)
	fetches  int
	inFlight int32
	maxConc  int32
	delay    time.Duration
}

func (f *fakeBackend) GetJobSnapshot(ctx context.Context, jobID string) (*models.JobSnapshot, error) {
	conc := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	for {
		max := atomic.LoadInt32(&f.maxConc)
		if conc <= max || atomic.CompareAndSwapInt32(&f.maxConc, max, conc) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	step := f.fetches
	f.fetches++
	if step >= len(f.script) {
		step = len(f.script) - 1
	}
	return f.script[step]()
}

func (f *fakeBackend) CreateJob(ctx context.Context, fileID string) (*models.JobSnapshot, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeBackend) CreateManualJob(ctx context.Context, fileID string, clips []models.Clip) (*models.JobSnapshot, error) {
	return nil, fmt.Errorf("not implemented")
}

func (f *fakeBackend) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func snapshotStep(status models.JobStatus) func() (*models.JobSnapshot, error) {
	return func() (*models.JobSnapshot, error) {
		return &models.JobSnapshot{ID: "job-1", Status: status}, nil
	}
}

func errorStep() (*models.JobSnapshot, error) {
	return nil, fmt.Errorf("backend unavailable")
}

func TestPoller_StopsOnTerminalSnapshot(t *testing.T) {
	fb := &fakeBackend{script: []func() (*models.JobSnapshot, error){
		snapshotStep(models.JobStatusAnalyzing),
		snapshotStep(models.JobStatusCompleted),
	}}
	p := New(10*time.Millisecond, fb, testLogger())

	var applied []models.JobStatus
	var mu sync.Mutex
	done := make(chan struct{})
	p.Start(context.Background(), "job-1", func(snap *models.JobSnapshot) bool {
		mu.Lock()
		applied = append(applied, snap.Status)
		mu.Unlock()
		if snap.Status.IsTerminal() {
			close(done)
			return true
		}
		return false
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller never saw the terminal snapshot")
	}
	time.Sleep(50 * time.Millisecond)
	if got := fb.fetchCount(); got != 2 {
		t.Errorf("fetches after terminal = %d, want 2", got)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(applied) != 2 || applied[1] != models.JobStatusCompleted {
		t.Errorf("applied = %v", applied)
	}
}

func TestPoller_SurvivesFetchErrors(t *testing.T) {
	fb := &fakeBackend{script: []func() (*models.JobSnapshot, error){
		errorStep,
		errorStep,
		snapshotStep(models.JobStatusCompleted),
	}}
	p := New(10*time.Millisecond, fb, testLogger())

	done := make(chan struct{})
	p.Start(context.Background(), "job-1", func(snap *models.JobSnapshot) bool {
		close(done)
		return true
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller gave up after transient fetch errors")
	}
	if got := fb.fetchCount(); got < 3 {
		t.Errorf("fetches = %d, want at least 3 (errors must not stop the timer)", got)
	}
}

func TestPoller_NeverOverlapsFetches(t *testing.T) {
	fb := &fakeBackend{
		script: []func() (*models.JobSnapshot, error){snapshotStep(models.JobStatusAnalyzing)},
		delay:  30 * time.Millisecond,
	}
	p := New(5*time.Millisecond, fb, testLogger())
	p.Start(context.Background(), "job-1", func(snap *models.JobSnapshot) bool { return false })

	time.Sleep(200 * time.Millisecond)
	p.Stop()

	if max := atomic.LoadInt32(&fb.maxConc); max > 1 {
		t.Errorf("max concurrent fetches = %d, want 1", max)
	}
}

func TestPoller_StopIsSynchronousAndIdempotent(t *testing.T) {
	fb := &fakeBackend{script: []func() (*models.JobSnapshot, error){snapshotStep(models.JobStatusAnalyzing)}}
	p := New(5*time.Millisecond, fb, testLogger())

	var applies int64
	p.Start(context.Background(), "job-1", func(snap *models.JobSnapshot) bool {
		atomic.AddInt64(&applies, 1)
		return false
	})
	time.Sleep(30 * time.Millisecond)
	p.Stop()
	p.Stop()

	frozen := atomic.LoadInt64(&applies)
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt64(&applies); got != frozen {
		t.Errorf("apply fired after Stop: %d -> %d", frozen, got)
	}
}

func TestPoller_StopBeforeStart(t *testing.T) {
	fb := &fakeBackend{script: []func() (*models.JobSnapshot, error){snapshotStep(models.JobStatusQueued)}}
	p := New(5*time.Millisecond, fb, testLogger())
	p.Stop() // must not block or panic
}
