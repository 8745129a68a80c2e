package builder

import (
	"context"
	"fmt"
	"sync"

	"github.com/clipdeck/clipdeck/internal/clipper"
	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/models"
	"github.com/clipdeck/clipdeck/internal/tracker"
	"github.com/clipdeck/clipdeck/pkg/logger"
)

type clipBuilder struct {
	maxClips  int
	trackerUC tracker.UseCase
	logger    logger.Logger

	mu    sync.Mutex
	start *float64
	end   *float64
	clips []models.Clip
}

func NewClipBuilder(cfg *config.Config, trackerUC tracker.UseCase, log logger.Logger) clipper.Builder {
	return &clipBuilder{
		maxClips:  cfg.Clipper.MaxClips,
		trackerUC: trackerUC,
		logger:    log,
	}
}

// SetStart records the pending start marker. A pending end that would no
// longer satisfy end > start is cleared rather than left stale.
func (b *clipBuilder) SetStart(t float64) bool {
	if t < 0 {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.start = &t
	if b.end != nil && *b.end <= t {
		b.end = nil
	}
	return true
}

// SetEnd is accepted only when a pending start exists and t lies after
// it. The UI disables the action too, but the builder enforces the
// invariant on its own.
func (b *clipBuilder) SetEnd(t float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.start == nil || t <= *b.start {
		return false
	}
	b.end = &t
	return true
}

func (b *clipBuilder) CommitClip() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.start == nil || b.end == nil || len(b.clips) >= b.maxClips {
		return false
	}
	b.clips = append(b.clips, models.Clip{Start: *b.start, End: *b.end})
	b.start = nil
	b.end = nil
	return true
}

func (b *clipBuilder) RemoveClip(index int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.clips) {
		return false
	}
	b.clips = append(b.clips[:index], b.clips[index+1:]...)
	return true
}

func (b *clipBuilder) Current() clipper.Selection {
	b.mu.Lock()
	defer b.mu.Unlock()
	sel := clipper.Selection{
		Clips:    append([]models.Clip(nil), b.clips...),
		MaxClips: b.maxClips,
	}
	if b.start != nil {
		start := *b.start
		sel.PendingStart = &start
	}
	if b.end != nil {
		end := *b.end
		sel.PendingEnd = &end
	}
	return sel
}

// Submit hands the committed clips to the job-creation boundary and
// starts tracking the resulting job. Ownership of the list transfers on
// success: the builder comes back empty, pending markers included.
func (b *clipBuilder) Submit(ctx context.Context, fileID string) (*models.Job, error) {
	b.mu.Lock()
	clips := append([]models.Clip(nil), b.clips...)
	b.mu.Unlock()

	if len(clips) == 0 {
		return nil, fmt.Errorf("no clips to submit")
	}

	job, err := b.trackerUC.StartManualProcessing(ctx, fileID, clips)
	if err != nil {
		b.logger.Errorf("Submit - StartManualProcessing error: %v", err)
		return nil, err
	}

	b.mu.Lock()
	b.clips = nil
	b.start = nil
	b.end = nil
	b.mu.Unlock()

	return job, nil
}
