package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"

	"github.com/yungbote/neurobridge-backend/internal/data/repos"
)

// Pool polls Job rows for runnable work via repos.JobRepo.ClaimNext and
// dispatches each to the Handler registered for its type. Concurrency,
// attempt cap, and stale-running thresholds are configurable via env; the claim
// itself enforces priority ordering and at-most-one-worker-per-job via
// SKIP LOCKED.
type Pool struct {
	repo         repos.JobRepo
	registry     *Registry
	log          *logger.Logger
	concurrency  int
	pollInterval time.Duration
	heartbeat    time.Duration
	maxAttempts  int
	staleRunning time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// PoolConfig's MaxAttempts bounds stale-heartbeat reclaims only (a worker
// that crashed mid-job), not failed-job retries: a job that finishes in
// the failed status stays failed until the caller resubmits it.
type PoolConfig struct {
	Concurrency  int
	PollInterval time.Duration
	Heartbeat    time.Duration
	MaxAttempts  int
	StaleRunning time.Duration
}

func PoolConfigFromEnv() PoolConfig {
	return PoolConfig{
		Concurrency:  envutil.Int("WORKER_CONCURRENCY", 4),
		PollInterval: envutil.DurationMs("WORKER_POLL_INTERVAL_MS", 1000),
		Heartbeat:    envutil.Duration("WORKER_HEARTBEAT_INTERVAL_SECONDS", 30),
		MaxAttempts:  envutil.Int("WORKER_MAX_ATTEMPTS", 5),
		StaleRunning: envutil.Duration("WORKER_STALE_RUNNING_SECONDS", 1800),
	}
}

func NewPool(repo repos.JobRepo, registry *Registry, baseLog *logger.Logger, cfg PoolConfig) *Pool {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Pool{
		repo:         repo,
		registry:     registry,
		log:          baseLog.With("component", "JobPool"),
		concurrency:  cfg.Concurrency,
		pollInterval: cfg.PollInterval,
		heartbeat:    cfg.Heartbeat,
		maxAttempts:  cfg.MaxAttempts,
		staleRunning: cfg.StaleRunning,
	}
}

func (p *Pool) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.log.Info("starting job worker pool", "concurrency", p.concurrency)
	for i := 0; i < p.concurrency; i++ {
		p.wg.Add(1)
		workerID := i + 1
		go func() {
			defer p.wg.Done()
			p.runLoop(runCtx, workerID)
		}()
	}
}

// Shutdown cancels the poll loops and waits (bounded by ctx) for in-flight
// handlers to observe cancellation and return.
func (p *Pool) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) runLoop(ctx context.Context, workerID int) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("job worker loop stopped", "worker_id", workerID)
			return
		case <-ticker.C:
			p.tick(ctx, workerID)
		}
	}
}

func (p *Pool) tick(ctx context.Context, workerID int) {
	dbc := dbctx.Bare(ctx)
	job, err := p.repo.ClaimNext(dbc, p.maxAttempts, p.staleRunning)
	if err != nil {
		p.log.Warn("claim next job failed", "worker_id", workerID, "error", err.Error())
		return
	}
	if job == nil {
		return
	}

	log := p.log.With("worker_id", workerID, "job_id", job.ID.String(), "job_type", job.Type)

	handler, ok := p.registry.Get(job.Type)
	if !ok {
		log.Warn("no handler registered for job type")
		p.fail(ctx, job.ID, &MissingHandlerError{JobType: job.Type})
		return
	}

	stopHB := p.startHeartbeat(ctx, job.ID)
	defer stopHB()

	p.execute(ctx, log, job, handler)
}

func (p *Pool) execute(ctx context.Context, log *logger.Logger, job *domain.Job, handler Handler) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("job handler panicked", "panic", r)
			p.fail(ctx, job.ID, &panicError{Val: r})
		}
	}()

	rc := RunContext{
		Ctx:     ctx,
		JobID:   job.ID.String(),
		JobType: job.Type,
		Params:  job.Parameters,
		Repo:    p.repo,
		Cancelled: func() bool {
			cancelled, err := p.repo.IsCancelled(dbctx.Bare(ctx), job.ID)
			return err == nil && cancelled
		},
		Progress: func(pct float64) {
			_ = p.repo.UpdateFields(dbctx.Bare(ctx), job.ID, map[string]interface{}{"progress": pct})
		},
	}

	result, runErr := handler.Run(rc)
	if runErr != nil {
		p.fail(ctx, job.ID, runErr)
		return
	}

	now := time.Now()
	_ = p.repo.UpdateFields(dbctx.Bare(ctx), job.ID, map[string]interface{}{
		"status":       domain.JobStatusCompleted,
		"progress":     100,
		"result":       result,
		"completed_at": now,
	})
}

func (p *Pool) fail(ctx context.Context, jobID uuid.UUID, cause error) {
	now := time.Now()
	_ = p.repo.UpdateFields(dbctx.Bare(ctx), jobID, map[string]interface{}{
		"status":        domain.JobStatusFailed,
		"error":         cause.Error(),
		"last_error_at": now,
	})
}

func (p *Pool) startHeartbeat(ctx context.Context, jobID uuid.UUID) func() {
	done := make(chan struct{})
	go func() {
		t := time.NewTicker(p.heartbeat)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-t.C:
				_ = p.repo.Heartbeat(dbctx.Bare(ctx), jobID)
			}
		}
	}()
	return func() { close(done) }
}

type panicError struct{ Val any }

func (e *panicError) Error() string { return "panic: unexpected error in job handler" }
