package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EnrolmentStatePending      = "pending"
	EnrolmentStateActive       = "active"
	EnrolmentStateReplied      = "replied"
	EnrolmentStateUnsubscribed = "unsubscribed"
	EnrolmentStateBounced      = "bounced"
	EnrolmentStateCompleted    = "completed"
	EnrolmentStateFailed       = "failed"
)

// Enrolment is the (CampaignInstance x Contact) association. Invariant:
// (instance_id, contact_id) is unique, enforced by a DB unique index so the
// enrolment worker can rely on findOrCreate semantics under concurrency.
type Enrolment struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	InstanceID uuid.UUID      `gorm:"type:uuid;column:instance_id;not null;uniqueIndex:idx_enrolment_instance_contact" json:"instance_id"`
	ContactID  uuid.UUID      `gorm:"type:uuid;column:contact_id;not null;uniqueIndex:idx_enrolment_instance_contact" json:"contact_id"`
	State      string         `gorm:"column:state;not null;default:pending;index" json:"state"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Enrolment) TableName() string { return "enrolments" }
