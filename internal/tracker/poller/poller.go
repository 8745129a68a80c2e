package poller

import (
	"context"
	"sync"
	"time"

	"github.com/clipdeck/clipdeck/internal/backend"
	"github.com/clipdeck/clipdeck/internal/models"
	"github.com/clipdeck/clipdeck/pkg/logger"
)

// Poller fetches the authoritative full job snapshot on a fixed
// interval. It is the fallback that makes a client converge even if no
// push message ever arrives.
type Poller struct {
	interval time.Duration
	client   backend.Client
	logger   logger.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	done      chan struct{}
}

func New(interval time.Duration, client backend.Client, log logger.Logger) *Poller {
	return &Poller{
		interval: interval,
		client:   client,
		logger:   log,
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the poll loop. apply receives each fetched snapshot and
// reports whether the job has reached a terminal state, which ends the
// loop. Fetches run one at a time: ticks firing mid-fetch are skipped,
// so there are never two concurrent fetches for the same job id.
func (p *Poller) Start(ctx context.Context, jobID string, apply func(snap *models.JobSnapshot) bool) {
	p.startOnce.Do(func() {
		go p.run(ctx, jobID, apply)
	})
}

func (p *Poller) run(ctx context.Context, jobID string, apply func(snap *models.JobSnapshot) bool) {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := p.client.GetJobSnapshot(ctx, jobID)
			if err != nil {
				// Transient: the timer keeps running.
				p.logger.Warnf("poller: fetch for job %s failed: %v", jobID, err)
				continue
			}
			select {
			case <-p.stopCh:
				return
			default:
			}
			if apply(snap) {
				p.logger.Infof("poller: job %s reached a terminal state, stopping", jobID)
				return
			}
		}
	}
}

// Stop ends the loop and waits for it to exit, so no apply callback
// fires after Stop returns. Idempotent.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	p.startOnce.Do(func() {
		close(p.done)
	})
	<-p.done
}
