package db

import (
	"fmt"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Jobs / worker fabric
		&domain.Job{},

		// Contacts, companies, signals
		&domain.Contact{},
		&domain.Company{},

		// Campaigns and enrolments
		&domain.CampaignTemplate{},
		&domain.CampaignInstance{},
		&domain.Enrolment{},
		&domain.OutreachOutcome{},

		// Reliability / retry plumbing
		&domain.OrphanedEvent{},
		&domain.DeadLetterEvent{},
		&domain.IdempotencyRecord{},

		// Conversational responder
		&domain.ConversationThread{},
		&domain.ConversationMessage{},

		// Enrichment cache
		&domain.EnrichmentCache{},
	)
}

func EnsureOutreachIndexes(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		return fmt.Errorf("enable uuid-ossp: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_jobs_claimable
		ON jobs (status, priority, created_at)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_jobs_claimable: %w", err)
	}

	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_enrolment_instance_contact
		ON enrolments (instance_id, contact_id)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_enrolment_instance_contact: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_outreach_outcomes_provider_message_id
		ON outreach_outcomes (provider_message_id)
		WHERE provider_message_id <> '';
	`).Error; err != nil {
		return fmt.Errorf("create idx_outreach_outcomes_provider_message_id: %w", err)
	}

	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_orphaned_events_stable_id
		ON orphaned_events (stable_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_orphaned_events_stable_id: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_orphaned_events_next_retry
		ON orphaned_events (next_retry_at, queued_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_orphaned_events_next_retry: %w", err)
	}

	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_conversation_thread_lead_campaign
		ON conversation_threads (lead_email, campaign_id);
	`).Error; err != nil {
		return fmt.Errorf("create idx_conversation_thread_lead_campaign: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_conversation_message_thread_created
		ON conversation_messages (thread_id, created_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_conversation_message_thread_created: %w", err)
	}

	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("auto migrating postgres tables")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("auto migration failed", "error", err)
		return err
	}
	if err := EnsureOutreachIndexes(s.db); err != nil {
		s.log.Error("outreach index migration failed", "error", err)
		return err
	}
	return nil
}
