package outreach

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type IdempotencyRepo interface {
	Get(dbc dbctx.Context, operation, key string) (*domain.IdempotencyRecord, error)
	// Put records result for (operation,key) once, discarding the write if
	// another caller already recorded a result for the same key.
	Put(dbc dbctx.Context, operation, key string, result datatypes.JSON) (*domain.IdempotencyRecord, error)
}

type idempotencyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewIdempotencyRepo(db *gorm.DB, baseLog *logger.Logger) IdempotencyRepo {
	return &idempotencyRepo{db: db, log: baseLog.With("repo", "IdempotencyRepo")}
}

func (r *idempotencyRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *idempotencyRepo) Get(dbc dbctx.Context, operation, key string) (*domain.IdempotencyRecord, error) {
	var rec domain.IdempotencyRecord
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("operation = ? AND key = ?", operation, key).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *idempotencyRepo) Put(dbc dbctx.Context, operation, key string, result datatypes.JSON) (*domain.IdempotencyRecord, error) {
	rec := &domain.IdempotencyRecord{Operation: operation, Key: key, Result: result}
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "operation"}, {Name: "key"}},
			DoNothing: true,
		}).
		Create(rec).Error
	if err != nil {
		return nil, err
	}
	return r.Get(dbc, operation, key)
}
