package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/neurobridge-backend/internal/http/handlers"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type httpHandlers struct {
	job      *httpH.JobHandler
	campaign *httpH.CampaignHandler
	webhook  *httpH.WebhookHandler
	dlq      *httpH.AdminDLQHandler
	health   *httpH.HealthHandler
}

func buildHandlers(db *gorm.DB, log *logger.Logger, d *dataRepos, c *clients, s *domainServices) *httpHandlers {
	return &httpHandlers{
		job:      httpH.NewJobHandler(d.jobs),
		campaign: httpH.NewCampaignHandler(d.instances, d.enrolments),
		webhook:  httpH.NewWebhookHandler(c.webhooks, d.outcomes, s.orphaned, log),
		dlq:      httpH.NewAdminDLQHandler(d.deadLetters, d.orphaned),
		health:   httpH.NewHealthHandler(db, d.orphaned, c.providers),
	}
}
