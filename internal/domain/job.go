package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	JobPriorityLow      = "low"
	JobPriorityNormal   = "normal"
	JobPriorityHigh     = "high"
	JobPriorityCritical = "critical"

	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
	JobStatusCancelled  = "cancelled"
)

// jobPriorityRank orders pickup: higher first, ties broken by created_at ASC.
var jobPriorityRank = map[string]int{
	JobPriorityCritical: 0,
	JobPriorityHigh:      1,
	JobPriorityNormal:    2,
	JobPriorityLow:       3,
}

func JobPriorityRank(p string) int {
	if r, ok := jobPriorityRank[p]; ok {
		return r
	}
	return jobPriorityRank[JobPriorityNormal]
}

// Job is a durable unit of background work processed by the worker pool.
// At most one worker may hold an active lease on a given Job at any time,
// enforced by JobRepo.ClaimNext's SKIP LOCKED claim.
type Job struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Type        string         `gorm:"column:type;not null;index" json:"type"`
	Priority    string         `gorm:"column:priority;not null;default:normal;index" json:"priority"`
	Status      string         `gorm:"column:status;not null;default:pending;index" json:"status"`
	Progress    float64        `gorm:"column:progress;not null;default:0" json:"progress"`
	Attempts    int            `gorm:"column:attempts;not null;default:0" json:"attempts"`
	CancelFlag  bool           `gorm:"column:cancel_flag;not null;default:false" json:"cancel_flag"`
	Parameters  datatypes.JSON `gorm:"column:parameters;type:jsonb" json:"parameters"`
	Result      datatypes.JSON `gorm:"column:result;type:jsonb" json:"result,omitempty"`
	Error       string         `gorm:"column:error" json:"error,omitempty"`
	LockedAt    *time.Time     `gorm:"column:locked_at;index" json:"locked_at,omitempty"`
	HeartbeatAt *time.Time     `gorm:"column:heartbeat_at;index" json:"heartbeat_at,omitempty"`
	LastErrorAt *time.Time     `gorm:"column:last_error_at;index" json:"last_error_at,omitempty"`
	StartedAt   *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Job) TableName() string { return "jobs" }
