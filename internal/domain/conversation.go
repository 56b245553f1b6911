package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MessageDirectionInbound  = "inbound"
	MessageDirectionOutbound = "outbound"
)

// ConversationThread is keyed by (lead_email, campaign_id). AiResponsesCount
// is authoritative and persisted; it must never exceed the configured
// per-thread cap.
type ConversationThread struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LeadEmail        string    `gorm:"column:lead_email;not null;uniqueIndex:idx_thread_lead_campaign" json:"lead_email"`
	CampaignID       uuid.UUID `gorm:"type:uuid;column:campaign_id;not null;uniqueIndex:idx_thread_lead_campaign" json:"campaign_id"`
	Channel          string    `gorm:"column:channel;not null;default:email" json:"channel"`
	AiResponsesCount int       `gorm:"column:ai_responses_count;not null;default:0" json:"ai_responses_count"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ConversationThread) TableName() string { return "conversation_threads" }

// ConversationMessage is one inbound or outbound message within a thread.
type ConversationMessage struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ThreadID       uuid.UUID `gorm:"type:uuid;column:thread_id;not null;index" json:"thread_id"`
	Direction      string    `gorm:"column:direction;not null" json:"direction"`
	Subject        string    `gorm:"column:subject" json:"subject,omitempty"`
	Content        string    `gorm:"column:content;not null" json:"content"`
	Sentiment      string    `gorm:"column:sentiment" json:"sentiment,omitempty"`
	DetectedIntent string    `gorm:"column:detected_intent" json:"detected_intent,omitempty"`
	PendingReview  bool      `gorm:"column:pending_review;not null;default:false" json:"pending_review,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:now();index" json:"created_at"`
}

func (ConversationMessage) TableName() string { return "conversation_messages" }
