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

type EnrolmentRepo interface {
	// FindOrCreate relies on the (instance_id, contact_id) unique index: a
	// concurrent insert from another worker is resolved by DoNothing plus a
	// follow-up read, so callers never observe a duplicate enrolment.
	FindOrCreate(dbc dbctx.Context, instanceID, contactID uuid.UUID) (*domain.Enrolment, bool, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Enrolment, error)
	UpdateState(dbc dbctx.Context, id uuid.UUID, state string) error
}

type enrolmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrolmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrolmentRepo {
	return &enrolmentRepo{db: db, log: baseLog.With("repo", "EnrolmentRepo")}
}

func (r *enrolmentRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *enrolmentRepo) FindOrCreate(dbc dbctx.Context, instanceID, contactID uuid.UUID) (*domain.Enrolment, bool, error) {
	transaction := r.tx(dbc)
	var created bool
	var result *domain.Enrolment

	err := transaction.WithContext(dbc.Ctx).Transaction(func(txx *gorm.DB) error {
		e := &domain.Enrolment{InstanceID: instanceID, ContactID: contactID, State: domain.EnrolmentStatePending}
		res := txx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "instance_id"}, {Name: "contact_id"}},
			DoNothing: true,
		}).Create(e)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			created = true
			result = e
			return nil
		}

		var existing domain.Enrolment
		if err := txx.Where("instance_id = ? AND contact_id = ?", instanceID, contactID).First(&existing).Error; err != nil {
			return err
		}
		result = &existing
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

func (r *enrolmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Enrolment, error) {
	var e domain.Enrolment
	err := r.tx(dbc).WithContext(dbc.Ctx).Where("id = ?", id).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrolmentRepo) UpdateState(dbc dbctx.Context, id uuid.UUID, state string) error {
	return r.tx(dbc).WithContext(dbc.Ctx).
		Model(&domain.Enrolment{}).
		Where("id = ?", id).
		Update("state", state).Error
}
