package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/pilvi-pass/internal/logger"
	"github.com/jonboulle/clockwork"
)

const defaultRefreshInterval = 5 * time.Minute

type clientRefreshJob struct {
	credentials ClientCredentialService
	session     ClientSessionService
	clock       clockwork.Clock
	logger      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientRefreshJob creates a clientRefreshJob that calls
// credentials.Refresh on a ticker. The job is idle until Start is called.
func NewClientRefreshJob(credentials ClientCredentialService, session ClientSessionService, clock clockwork.Clock, logger *logger.Logger) ClientRefreshJob {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &clientRefreshJob{
		credentials: credentials,
		session:     session,
		clock:       clock,
		logger:      logger,
	}
}

// Start implements ClientRefreshJob. It stops any previously running job, then
// launches a background goroutine that refreshes the cache every interval.
// Ticks are skipped while nobody is signed in. If interval is zero or
// negative it defaults to 5 minutes. The goroutine exits when ctx is
// cancelled or Stop is called.
func (j *clientRefreshJob) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	j.stopLocked()

	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)

	go j.run(jobCtx, interval)
}

func (j *clientRefreshJob) run(ctx context.Context, interval time.Duration) {
	defer j.wg.Done()
	t := j.clock.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			j.tick(ctx)
		}
	}
}

// tick runs with an expired ID token too; Refresh renews it.
func (j *clientRefreshJob) tick(ctx context.Context) {
	if _, err := j.session.Snapshot(); err != nil {
		j.logger.Debug().Msg("cache refresh skipped: nobody signed in")
		return
	}
	if err := j.credentials.Refresh(ctx); err != nil {
		j.logger.Warn().Err(err).Msg("background cache refresh failed")
		return
	}
	j.logger.Debug().Msg("credential cache refreshed")
}

// Stop implements ClientRefreshJob. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call when
// the job is not running.
func (j *clientRefreshJob) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.stopLocked()
}

func (j *clientRefreshJob) stopLocked() {
	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
	j.wg.Wait()
}
