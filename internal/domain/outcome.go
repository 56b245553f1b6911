package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
	SentimentObjection = "objection"
)

// OutreachOutcome is one row per sent message, linked to an Enrolment.
type OutreachOutcome struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EnrolmentID     uuid.UUID  `gorm:"type:uuid;column:enrolment_id;not null;index" json:"enrolment_id"`
	TemplateUsed    string     `gorm:"column:template_used" json:"template_used,omitempty"`
	SubjectLine     string     `gorm:"column:subject_line" json:"subject_line,omitempty"`
	Persona         string     `gorm:"column:persona" json:"persona,omitempty"`
	ProviderMessageID string   `gorm:"column:provider_message_id;index" json:"provider_message_id,omitempty"`
	OpenCount       int        `gorm:"column:open_count;not null;default:0" json:"open_count"`
	ClickCount      int        `gorm:"column:click_count;not null;default:0" json:"click_count"`
	Replied         bool       `gorm:"column:replied;not null;default:false" json:"replied"`
	MeetingBooked   bool       `gorm:"column:meeting_booked;not null;default:false" json:"meeting_booked"`
	Bounced         bool       `gorm:"column:bounced;not null;default:false" json:"bounced"`
	Unsubscribed    bool       `gorm:"column:unsubscribed;not null;default:false" json:"unsubscribed"`
	ReplySentiment  string     `gorm:"column:reply_sentiment" json:"reply_sentiment,omitempty"`
	SentAt          *time.Time `gorm:"column:sent_at" json:"sent_at,omitempty"`
	FirstOpenedAt   *time.Time `gorm:"column:first_opened_at" json:"first_opened_at,omitempty"`
	RepliedAt       *time.Time `gorm:"column:replied_at" json:"replied_at,omitempty"`
	CreatedAt       time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (OutreachOutcome) TableName() string { return "outreach_outcomes" }
