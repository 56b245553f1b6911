package outreach

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type ContactRepo interface {
	// UpsertBatch inserts new contacts by email, skipping duplicates so the
	// import worker can stream batches without pre-checking existence.
	UpsertBatch(dbc dbctx.Context, contacts []*domain.Contact) (int64, error)
	GetByEmails(dbc dbctx.Context, emails []string) ([]*domain.Contact, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Contact, error)
	UpdateEnrichment(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type contactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	return &contactRepo{db: db, log: baseLog.With("repo", "ContactRepo")}
}

func (r *contactRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *contactRepo) UpsertBatch(dbc dbctx.Context, contacts []*domain.Contact) (int64, error) {
	if len(contacts) == 0 {
		return 0, nil
	}
	res := r.tx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&contacts)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *contactRepo) GetByEmails(dbc dbctx.Context, emails []string) ([]*domain.Contact, error) {
	var out []*domain.Contact
	if len(emails) == 0 {
		return out, nil
	}
	if err := r.tx(dbc).WithContext(dbc.Ctx).Where("email IN ?", emails).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contactRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Contact, error) {
	var c domain.Contact
	err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contactRepo) UpdateEnrichment(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return nil
	}
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.Contact{}).
		Where("id = ?", id).
		Updates(updates).Error
}
