package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	DLQStatusFailed   = "failed"
	DLQStatusReplayed = "replayed"
	DLQStatusDiscarded = "discarded"
)

// OrphanedEvent is a webhook event whose target Enrolment was not yet
// visible to the resolver. Lives in a bounded FIFO queue ordered by
// QueuedAt, evicted oldest-first on overflow.
type OrphanedEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StableID    string         `gorm:"column:stable_id;not null;uniqueIndex" json:"stable_id"`
	EventData   datatypes.JSON `gorm:"column:event_data;type:jsonb;not null" json:"event_data"`
	Attempts    int            `gorm:"column:attempts;not null;default:0" json:"attempts"`
	NextRetryAt time.Time      `gorm:"column:next_retry_at;not null;index" json:"next_retry_at"`
	QueuedAt    time.Time      `gorm:"column:queued_at;not null;index" json:"queued_at"`
}

func (OrphanedEvent) TableName() string { return "orphaned_events" }

// DeadLetterEvent durably persists an event that exhausted its retry budget.
type DeadLetterEvent struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StableID         string         `gorm:"column:stable_id;not null;index" json:"stable_id"`
	EventData        datatypes.JSON `gorm:"column:event_data;type:jsonb;not null" json:"event_data"`
	Attempts         int            `gorm:"column:attempts;not null" json:"attempts"`
	FailureReason    string         `gorm:"column:failure_reason" json:"failure_reason,omitempty"`
	FirstAttemptedAt time.Time      `gorm:"column:first_attempted_at;not null" json:"first_attempted_at"`
	LastAttemptedAt  time.Time      `gorm:"column:last_attempted_at;not null" json:"last_attempted_at"`
	Status           string         `gorm:"column:status;not null;default:failed;index" json:"status"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (DeadLetterEvent) TableName() string { return "dead_letter_events" }

// RetryDelaysSeconds is the attempt N (1..6) backoff schedule, before
// uniform jitter is added.
var RetryDelaysSeconds = [6]int{5, 15, 60, 300, 900, 3600}

const MaxOrphanedAttempts = 6
