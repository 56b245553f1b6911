package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-backend/internal/data/repos"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// dataRepos aggregates every repository constructed against the shared
// *gorm.DB handle; nothing above this point touches gorm directly.
type dataRepos struct {
	jobs         repos.JobRepo
	contacts     repos.ContactRepo
	companies    repos.CompanyRepo
	templates    repos.CampaignTemplateRepo
	instances    repos.CampaignInstanceRepo
	enrolments   repos.EnrolmentRepo
	outcomes     repos.OutreachOutcomeRepo
	orphaned     repos.OrphanedEventRepo
	deadLetters  repos.DeadLetterEventRepo
	idempotency  repos.IdempotencyRepo
	threads      repos.ConversationThreadRepo
	messages     repos.ConversationMessageRepo
	enrichment   repos.EnrichmentCacheRepo
}

func buildRepos(db *gorm.DB, log *logger.Logger) *dataRepos {
	return &dataRepos{
		jobs:        repos.NewJobRepo(db, log),
		contacts:    repos.NewContactRepo(db, log),
		companies:   repos.NewCompanyRepo(db, log),
		templates:   repos.NewCampaignTemplateRepo(db, log),
		instances:   repos.NewCampaignInstanceRepo(db, log),
		enrolments:  repos.NewEnrolmentRepo(db, log),
		outcomes:    repos.NewOutreachOutcomeRepo(db, log),
		orphaned:    repos.NewOrphanedEventRepo(db, log),
		deadLetters: repos.NewDeadLetterEventRepo(db, log),
		idempotency: repos.NewIdempotencyRepo(db, log),
		threads:     repos.NewConversationThreadRepo(db, log),
		messages:    repos.NewConversationMessageRepo(db, log),
		enrichment:  repos.NewEnrichmentCacheRepo(db, log),
	}
}
