package outreach

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type EnrichmentCacheRepo interface {
	Get(dbc dbctx.Context, typ, key string) (*domain.EnrichmentCache, error)
	Put(dbc dbctx.Context, rec *domain.EnrichmentCache) error
}

type enrichmentCacheRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrichmentCacheRepo(db *gorm.DB, baseLog *logger.Logger) EnrichmentCacheRepo {
	return &enrichmentCacheRepo{db: db, log: baseLog.With("repo", "EnrichmentCacheRepo")}
}

func (r *enrichmentCacheRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *enrichmentCacheRepo) Get(dbc dbctx.Context, typ, key string) (*domain.EnrichmentCache, error) {
	var rec domain.EnrichmentCache
	err := r.tx(dbc).WithContext(dbc.Ctx).Where("type = ? AND key = ?", typ, key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *enrichmentCacheRepo) Put(dbc dbctx.Context, rec *domain.EnrichmentCache) error {
	return r.tx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "type"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "cached_at"}),
		}).
		Create(rec).Error
}
