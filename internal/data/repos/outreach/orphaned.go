package outreach

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// OrphanedEventRepo persists the bounded-FIFO retry queue for webhook
// events whose target enrolment could not be resolved yet.
type OrphanedEventRepo interface {
	Enqueue(dbc dbctx.Context, ev *domain.OrphanedEvent) (bool, error)
	Count(dbc dbctx.Context) (int64, error)
	// EvictOldest deletes the n oldest rows by queued_at, used to enforce
	// the bounded-FIFO capacity on overflow.
	EvictOldest(dbc dbctx.Context, n int) error
	// ClaimBatch locks and returns up to limit rows whose next_retry_at has
	// elapsed, ordered oldest-queued first.
	ClaimBatch(dbc dbctx.Context, limit int) ([]*domain.OrphanedEvent, error)
	UpdateRetry(dbc dbctx.Context, id uuid.UUID, attempts int, nextRetryAt time.Time) error
	Delete(dbc dbctx.Context, id uuid.UUID) error
	List(dbc dbctx.Context, limit int) ([]*domain.OrphanedEvent, error)
}

type orphanedEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrphanedEventRepo(db *gorm.DB, baseLog *logger.Logger) OrphanedEventRepo {
	return &orphanedEventRepo{db: db, log: baseLog.With("repo", "OrphanedEventRepo")}
}

func (r *orphanedEventRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *orphanedEventRepo) Enqueue(dbc dbctx.Context, ev *domain.OrphanedEvent) (bool, error) {
	res := r.tx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "stable_id"}}, DoNothing: true}).
		Create(ev)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *orphanedEventRepo) Count(dbc dbctx.Context) (int64, error) {
	var count int64
	err := r.tx(dbc).WithContext(dbc.Ctx).Model(&domain.OrphanedEvent{}).Count(&count).Error
	return count, err
}

func (r *orphanedEventRepo) EvictOldest(dbc dbctx.Context, n int) error {
	if n <= 0 {
		return nil
	}
	sub := r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.OrphanedEvent{}).
		Select("id").
		Order("queued_at ASC").
		Limit(n)
	return r.tx(dbc).WithContext(dbc.Ctx).
		Where("id IN (?)", sub).
		Delete(&domain.OrphanedEvent{}).Error
}

func (r *orphanedEventRepo) ClaimBatch(dbc dbctx.Context, limit int) ([]*domain.OrphanedEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []*domain.OrphanedEvent
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("next_retry_at <= ?", time.Now()).
		Order("queued_at ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *orphanedEventRepo) UpdateRetry(dbc dbctx.Context, id uuid.UUID, attempts int, nextRetryAt time.Time) error {
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.OrphanedEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":      attempts,
			"next_retry_at": nextRetryAt,
		}).Error
}

func (r *orphanedEventRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	return r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).Delete(&domain.OrphanedEvent{}).Error
}

func (r *orphanedEventRepo) List(dbc dbctx.Context, limit int) ([]*domain.OrphanedEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []*domain.OrphanedEvent
	err := r.tx(dbc).WithContext(dbc.Ctx).Order("queued_at ASC").Limit(limit).Find(&out).Error
	return out, err
}

// DeadLetterEventRepo persists events that exhausted their retry budget.
type DeadLetterEventRepo interface {
	Create(dbc dbctx.Context, ev *domain.DeadLetterEvent) (*domain.DeadLetterEvent, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.DeadLetterEvent, error)
	List(dbc dbctx.Context, limit int) ([]*domain.DeadLetterEvent, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error
}

type deadLetterEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDeadLetterEventRepo(db *gorm.DB, baseLog *logger.Logger) DeadLetterEventRepo {
	return &deadLetterEventRepo{db: db, log: baseLog.With("repo", "DeadLetterEventRepo")}
}

func (r *deadLetterEventRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *deadLetterEventRepo) Create(dbc dbctx.Context, ev *domain.DeadLetterEvent) (*domain.DeadLetterEvent, error) {
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(ev).Error; err != nil {
		return nil, err
	}
	return ev, nil
}

func (r *deadLetterEventRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.DeadLetterEvent, error) {
	var ev domain.DeadLetterEvent
	err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *deadLetterEventRepo) List(dbc dbctx.Context, limit int) ([]*domain.DeadLetterEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []*domain.DeadLetterEvent
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("status = ?", domain.DLQStatusFailed).
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *deadLetterEventRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status string) error {
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.DeadLetterEvent{}).
		Where("id = ?", id).
		Update("status", status).Error
}
