// Package orphaned implements the bounded retry queue for webhook events
// whose target enrolment could not be resolved at ingest time, plus
// promotion to a durable dead-letter store once the retry budget is spent.
package orphaned

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"gorm.io/datatypes"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/observability"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/httpx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/providers"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/outreach"
)

type Config struct {
	Capacity     int
	BatchSize    int
	TickInterval time.Duration
}

func DefaultConfig() Config {
	return Config{Capacity: 10000, BatchSize: 50, TickInterval: 30 * time.Second}
}

// Processor resolves and applies a previously orphaned event; it returns an
// error to signal the event should be retried (or dead-lettered once the
// attempt budget is spent).
type Processor func(ctx context.Context, ev providers.NormalizedEvent) error

type Queue struct {
	cfg     Config
	repo    outreach.OrphanedEventRepo
	dlqRepo outreach.DeadLetterEventRepo
	log     *logger.Logger
	metrics *observability.Metrics

	processing    sync.Mutex
	cyclesSkipped int
}

func NewQueue(cfg Config, repo outreach.OrphanedEventRepo, dlqRepo outreach.DeadLetterEventRepo, log *logger.Logger, metrics *observability.Metrics) *Queue {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 10000
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	return &Queue{cfg: cfg, repo: repo, dlqRepo: dlqRepo, log: log.With("component", "orphaned_queue"), metrics: metrics}
}

// CyclesSkipped returns the number of processing cycles skipped so far
// because a previous cycle was still in flight (PROCESSING_LAG).
func (q *Queue) CyclesSkipped() int {
	return q.cyclesSkipped
}

// Enqueue admits ev keyed by stableID, enforcing the bounded-FIFO capacity
// by evicting the oldest rows on overflow before inserting.
func (q *Queue) Enqueue(ctx context.Context, stableID string, ev providers.NormalizedEvent) error {
	dbc := dbctx.Bare(ctx)

	count, err := q.repo.Count(dbc)
	if err != nil {
		return err
	}
	if count >= int64(q.cfg.Capacity) {
		overflow := int(count-int64(q.cfg.Capacity)) + 1
		if err := q.repo.EvictOldest(dbc, overflow); err != nil {
			return err
		}
		q.log.Warn("orphaned queue at capacity, evicted oldest entries", "evicted", overflow, "capacity", q.cfg.Capacity)
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	now := time.Now()
	row := &domain.OrphanedEvent{
		StableID:    stableID,
		EventData:   datatypes.JSON(raw),
		Attempts:    0,
		NextRetryAt: now,
		QueuedAt:    now,
	}
	_, err = q.repo.Enqueue(dbc, row)
	return err
}

// ProcessBatch claims up to BatchSize ready rows and runs processor on
// each. Events still failing after MaxOrphanedAttempts attempts are
// promoted to the dead-letter store instead of retried again.
//
// ProcessBatch refuses to run concurrently with itself: if a tick fires
// while the previous cycle is still processing, it skips the cycle and
// counts it as PROCESSING_LAG rather than piling up overlapping claims
// against the same rows.
func (q *Queue) ProcessBatch(ctx context.Context, processor Processor) (processed int, err error) {
	if !q.processing.TryLock() {
		q.cyclesSkipped++
		if q.metrics != nil {
			q.metrics.IncOrphanedCycleSkipped()
		}
		q.log.Warn("orphaned queue cycle skipped, previous cycle still processing", "cycles_skipped", q.cyclesSkipped)
		return 0, nil
	}
	defer q.processing.Unlock()

	dbc := dbctx.Bare(ctx)
	batch, err := q.repo.ClaimBatch(dbc, q.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	if q.metrics != nil {
		if count, cerr := q.repo.Count(dbc); cerr == nil {
			q.metrics.SetOrphanedQueueDepth(float64(count))
		}
	}
	if len(batch) == 0 {
		return 0, nil
	}

	for _, row := range batch {
		var ev providers.NormalizedEvent
		if uerr := json.Unmarshal(row.EventData, &ev); uerr != nil {
			q.log.Error("orphaned event payload corrupt, dead-lettering", "id", row.ID, "error", uerr.Error())
			q.promote(dbc, row, uerr)
			continue
		}

		perr := processor(ctx, ev)
		if perr == nil {
			_ = q.repo.Delete(dbc, row.ID)
			processed++
			continue
		}

		attempts := row.Attempts + 1
		if attempts >= domain.MaxOrphanedAttempts {
			q.promote(dbc, row, perr)
			continue
		}

		delay := retryDelay(attempts)
		if uerr := q.repo.UpdateRetry(dbc, row.ID, attempts, time.Now().Add(delay)); uerr != nil {
			q.log.Error("failed to reschedule orphaned event", "id", row.ID, "error", uerr.Error())
		}
	}
	return processed, nil
}

func (q *Queue) promote(dbc dbctx.Context, row *domain.OrphanedEvent, cause error) {
	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	dlq := &domain.DeadLetterEvent{
		StableID:         row.StableID,
		EventData:        row.EventData,
		Attempts:         row.Attempts + 1,
		FailureReason:    reason,
		FirstAttemptedAt: row.QueuedAt,
		LastAttemptedAt:  time.Now(),
		Status:           domain.DLQStatusFailed,
	}
	if _, err := q.dlqRepo.Create(dbc, dlq); err != nil {
		q.log.Error("failed to promote orphaned event to dead letter", "id", row.ID, "error", err.Error())
		return
	}
	_ = q.repo.Delete(dbc, row.ID)
	if q.metrics != nil {
		q.metrics.IncDLQPromotion()
	}
}

// retryDelay returns the backoff schedule entry for attempt N (1-indexed),
// clamped to the last configured entry, plus uniform jitter in [0,1000ms].
func retryDelay(attempt int) time.Duration {
	idx := attempt - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(domain.RetryDelaysSeconds) {
		idx = len(domain.RetryDelaysSeconds) - 1
	}
	base := time.Duration(domain.RetryDelaysSeconds[idx]) * time.Second
	return base + httpx.UniformJitterMs(0, 1000)
}

// DrainQueue runs processor against ready events until the queue is empty
// or maxDrainMs elapses, used during graceful shutdown so in-flight retries
// are not silently abandoned.
func (q *Queue) DrainQueue(ctx context.Context, processor Processor, maxDrainMs int) error {
	deadline := time.Now().Add(time.Duration(maxDrainMs) * time.Millisecond)
	for time.Now().Before(deadline) {
		dbc := dbctx.Bare(ctx)
		count, err := q.repo.Count(dbc)
		if err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		if _, err := q.ProcessBatch(ctx, processor); err != nil {
			return err
		}
	}
	return fmt.Errorf("orphaned queue drain: deadline exceeded")
}
