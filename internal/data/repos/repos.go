// Package repos aggregates the data-access layer: one constructor and type
// alias per repository, so app wiring only imports this package rather than
// reaching into internal/data/repos/jobs and internal/data/repos/outreach
// directly.
package repos

import (
	"github.com/yungbote/neurobridge-backend/internal/data/repos/jobs"
	"github.com/yungbote/neurobridge-backend/internal/data/repos/outreach"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type JobRepo = jobs.JobRepo

type ContactRepo = outreach.ContactRepo
type CompanyRepo = outreach.CompanyRepo
type CampaignTemplateRepo = outreach.CampaignTemplateRepo
type CampaignInstanceRepo = outreach.CampaignInstanceRepo
type EnrolmentRepo = outreach.EnrolmentRepo
type OutreachOutcomeRepo = outreach.OutreachOutcomeRepo
type OrphanedEventRepo = outreach.OrphanedEventRepo
type DeadLetterEventRepo = outreach.DeadLetterEventRepo
type IdempotencyRepo = outreach.IdempotencyRepo
type ConversationThreadRepo = outreach.ConversationThreadRepo
type ConversationMessageRepo = outreach.ConversationMessageRepo
type EnrichmentCacheRepo = outreach.EnrichmentCacheRepo

func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
	return jobs.NewJobRepo(db, baseLog)
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	return outreach.NewContactRepo(db, baseLog)
}

func NewCompanyRepo(db *gorm.DB, baseLog *logger.Logger) CompanyRepo {
	return outreach.NewCompanyRepo(db, baseLog)
}

func NewCampaignTemplateRepo(db *gorm.DB, baseLog *logger.Logger) CampaignTemplateRepo {
	return outreach.NewCampaignTemplateRepo(db, baseLog)
}

func NewCampaignInstanceRepo(db *gorm.DB, baseLog *logger.Logger) CampaignInstanceRepo {
	return outreach.NewCampaignInstanceRepo(db, baseLog)
}

func NewEnrolmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrolmentRepo {
	return outreach.NewEnrolmentRepo(db, baseLog)
}

func NewOutreachOutcomeRepo(db *gorm.DB, baseLog *logger.Logger) OutreachOutcomeRepo {
	return outreach.NewOutreachOutcomeRepo(db, baseLog)
}

func NewOrphanedEventRepo(db *gorm.DB, baseLog *logger.Logger) OrphanedEventRepo {
	return outreach.NewOrphanedEventRepo(db, baseLog)
}

func NewDeadLetterEventRepo(db *gorm.DB, baseLog *logger.Logger) DeadLetterEventRepo {
	return outreach.NewDeadLetterEventRepo(db, baseLog)
}

func NewIdempotencyRepo(db *gorm.DB, baseLog *logger.Logger) IdempotencyRepo {
	return outreach.NewIdempotencyRepo(db, baseLog)
}

func NewConversationThreadRepo(db *gorm.DB, baseLog *logger.Logger) ConversationThreadRepo {
	return outreach.NewConversationThreadRepo(db, baseLog)
}

func NewConversationMessageRepo(db *gorm.DB, baseLog *logger.Logger) ConversationMessageRepo {
	return outreach.NewConversationMessageRepo(db, baseLog)
}

func NewEnrichmentCacheRepo(db *gorm.DB, baseLog *logger.Logger) EnrichmentCacheRepo {
	return outreach.NewEnrichmentCacheRepo(db, baseLog)
}
