package outreach

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type CompanyRepo interface {
	GetByDomain(dbc dbctx.Context, domainName string) (*domain.Company, error)
	Upsert(dbc dbctx.Context, c *domain.Company) error
}

type companyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	return &companyRepo{db: db, log: baseLog.With("repo", "CompanyRepo")}
}

func (r *companyRepo) tx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *companyRepo) GetByDomain(dbc dbctx.Context, domainName string) (*domain.Company, error) {
	var c domain.Company
	err := r.tx(dbc).WithContext(dbc.Ctx).Where("domain = ?", domainName).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepo) Upsert(dbc dbctx.Context, c *domain.Company) error {
	return r.tx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "domain"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "industry", "revenue", "employees", "funding", "technologies", "signals", "updated_at"}),
		}).
		Create(c).Error
}
