package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CampaignChannelEmail    = "email"
	CampaignChannelLinkedIn = "linkedin"
	CampaignChannelMulti    = "multi"

	CampaignStateDraft     = "draft"
	CampaignStateActive    = "active"
	CampaignStatePaused    = "paused"
	CampaignStateCompleted = "completed"
	CampaignStateCancelled = "cancelled"
)

// Stage is one message step of a CampaignTemplate, authored as YAML and
// decoded by internal/campaigntpl.
type Stage struct {
	Channel  string `json:"channel" yaml:"channel"`
	WaitDays int    `json:"wait_days" yaml:"wait_days"`
	Subject  string `json:"subject,omitempty" yaml:"subject,omitempty"`
	Body     string `json:"body" yaml:"body"`
	Persona  string `json:"persona,omitempty" yaml:"persona,omitempty"`
}

// CampaignTemplate is an immutable definition: an ordered sequence of
// message stages, a channel, and a schedule policy.
type CampaignTemplate struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name           string         `gorm:"column:name;not null" json:"name"`
	Channel        string         `gorm:"column:channel;not null" json:"channel"`
	SchedulePolicy string         `gorm:"column:schedule_policy" json:"schedule_policy,omitempty"`
	Stages         datatypes.JSON `gorm:"column:stages;type:jsonb;not null" json:"stages"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (CampaignTemplate) TableName() string { return "campaign_templates" }

// CampaignInstance is a launched template with a lifecycle state machine:
// draft -> active -> paused -> completed | cancelled.
type CampaignInstance struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TemplateID uuid.UUID      `gorm:"type:uuid;column:template_id;not null;index" json:"template_id"`
	Name       string         `gorm:"column:name" json:"name,omitempty"`
	State      string         `gorm:"column:state;not null;default:draft;index" json:"state"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CampaignInstance) TableName() string { return "campaign_instances" }

// ValidCampaignTransition reports whether the state machine permits from -> to.
func ValidCampaignTransition(from, to string) bool {
	switch from {
	case CampaignStateDraft:
		return to == CampaignStateActive || to == CampaignStateCancelled
	case CampaignStateActive:
		return to == CampaignStatePaused || to == CampaignStateCompleted || to == CampaignStateCancelled
	case CampaignStatePaused:
		return to == CampaignStateActive || to == CampaignStateCancelled
	default:
		return false
	}
}
