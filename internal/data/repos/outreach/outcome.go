package outreach

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type OutreachOutcomeRepo interface {
	Create(dbc dbctx.Context, o *domain.OutreachOutcome) (*domain.OutreachOutcome, error)
	GetByProviderMessageID(dbc dbctx.Context, providerMessageID string) (*domain.OutreachOutcome, error)
	GetLatestByEnrolment(dbc dbctx.Context, enrolmentID uuid.UUID) (*domain.OutreachOutcome, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type outreachOutcomeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOutreachOutcomeRepo(db *gorm.DB, baseLog *logger.Logger) OutreachOutcomeRepo {
	return &outreachOutcomeRepo{db: db, log: baseLog.With("repo", "OutreachOutcomeRepo")}
}

func (r *outreachOutcomeRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *outreachOutcomeRepo) Create(dbc dbctx.Context, o *domain.OutreachOutcome) (*domain.OutreachOutcome, error) {
	if err := r.tx(dbc).WithContext(dbc.Ctx).Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

func (r *outreachOutcomeRepo) GetByProviderMessageID(dbc dbctx.Context, providerMessageID string) (*domain.OutreachOutcome, error) {
	var o domain.OutreachOutcome
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("provider_message_id = ?", providerMessageID).
		Order("created_at DESC").
		First(&o).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *outreachOutcomeRepo) GetLatestByEnrolment(dbc dbctx.Context, enrolmentID uuid.UUID) (*domain.OutreachOutcome, error) {
	var o domain.OutreachOutcome
	err := r.tx(dbc).WithContext(dbc.Ctx).
		Where("enrolment_id = ?", enrolmentID).
		Order("created_at DESC").
		First(&o).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *outreachOutcomeRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.OutreachOutcome{}).
		Where("id = ?", id).
		Updates(updates).Error
}
