package app

import (
	"github.com/yungbote/neurobridge-backend/internal/idempotency"
	"github.com/yungbote/neurobridge-backend/internal/jobs"
	"github.com/yungbote/neurobridge-backend/internal/jobs/workers"
	"github.com/yungbote/neurobridge-backend/internal/knowledge"
	"github.com/yungbote/neurobridge-backend/internal/orphaned"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/quality"
	"github.com/yungbote/neurobridge-backend/internal/responder"
)

// domainServices wires the business-logic layer: quality gate, idempotency
// ledger, orphaned-event queue, knowledge service, conversational responder,
// and the job registry/pool that drives the five outreach pipeline workers.
type domainServices struct {
	gate       *quality.Gate
	idempotent *idempotency.Service
	orphaned   *orphaned.Queue
	knowledge  *knowledge.Service
	responder  *responder.Responder
	registry   *jobs.Registry
	pool       *jobs.Pool
}

func buildServices(cfg Config, log *logger.Logger, d *dataRepos, c *clients) *domainServices {
	validator := quality.NewContactValidator(nil)
	gate := quality.NewGate(validator)

	idemp := idempotency.NewService(d.idempotency)

	orphanedQueue := orphaned.NewQueue(cfg.Orphaned, d.orphaned, d.deadLetters, log, c.metrics)

	know := knowledge.New(d.instances, d.templates, d.contacts)

	var rateLimiter responder.RateLimiter
	if c.redis != nil {
		rateLimiter = responder.NewRedisRateTracker(c.redis, cfg.Responder.RateLimitPerHour, cfg.Responder.RateLimitWindow)
	}

	resp := responder.New(cfg.Responder, log, responder.Deps{
		Threads:     d.threads,
		Messages:    d.messages,
		Generator:   c.generator,
		Knowledge:   know,
		Email:       c.providers.Email,
		LinkedIn:    c.providers.LinkedIn,
		Video:       c.providers.Video,
		RateLimiter: rateLimiter,
	})

	registry := jobs.NewRegistry()
	registry.Register("contact_import", workers.NewImportHandler(d.contacts))
	registry.Register("contact_enrichment", workers.NewEnrichmentHandler(d.contacts, d.enrichment, c.providers.Enrichment))
	registry.Register("crm_sync", workers.NewCrmSyncHandler(d.contacts, d.idempotency, c.providers.Crm, log))
	registry.Register("outreach_enrol", workers.NewOutreachEnrolHandler(d.contacts, d.enrolments, d.outcomes, idemp, gate, c.providers.Email, c.providers.LinkedIn))
	registry.Register("event_ingest", workers.NewEventIngestHandler(d.outcomes, orphanedQueue, resp, log))

	pool := jobs.NewPool(d.jobs, registry, log, cfg.JobPool)

	return &domainServices{
		gate:       gate,
		idempotent: idemp,
		orphaned:   orphanedQueue,
		knowledge:  know,
		responder:  resp,
		registry:   registry,
		pool:       pool,
	}
}
