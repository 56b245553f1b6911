package outreach

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type CampaignTemplateRepo interface {
	Create(dbc dbctx.Context, t *domain.CampaignTemplate) (*domain.CampaignTemplate, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.CampaignTemplate, error)
}

type campaignTemplateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCampaignTemplateRepo(db *gorm.DB, baseLog *logger.Logger) CampaignTemplateRepo {
	return &campaignTemplateRepo{db: db, log: baseLog.With("repo", "CampaignTemplateRepo")}
}

func (r *campaignTemplateRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *campaignTemplateRepo) Create(dbc dbctx.Context, t *domain.CampaignTemplate) (*domain.CampaignTemplate, error) {
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (r *campaignTemplateRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.CampaignTemplate, error) {
	var t domain.CampaignTemplate
	err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type CampaignInstanceRepo interface {
	Create(dbc dbctx.Context, c *domain.CampaignInstance) (*domain.CampaignInstance, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.CampaignInstance, error)
	UpdateState(dbc dbctx.Context, id uuid.UUID, state string) error
}

type campaignInstanceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCampaignInstanceRepo(db *gorm.DB, baseLog *logger.Logger) CampaignInstanceRepo {
	return &campaignInstanceRepo{db: db, log: baseLog.With("repo", "CampaignInstanceRepo")}
}

func (r *campaignInstanceRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *campaignInstanceRepo) Create(dbc dbctx.Context, c *domain.CampaignInstance) (*domain.CampaignInstance, error) {
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *campaignInstanceRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.CampaignInstance, error) {
	var c domain.CampaignInstance
	err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *campaignInstanceRepo) UpdateState(dbc dbctx.Context, id uuid.UUID, state string) error {
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.CampaignInstance{}).
		Where("id = ?", id).
		Update("state", state).Error
}
