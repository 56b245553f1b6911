// Package providers defines the capability interfaces outreach workers
// depend on. Every external channel (email, LinkedIn, CRM, enrichment,
// video) is selected by config and wrapped behind one of these interfaces;
// nothing in the workers type-switches on a concrete provider.
package providers

import (
	"context"
	"time"
)

// EmailMessage is a channel-neutral outbound email.
type EmailMessage struct {
	ToEmail     string
	ToName      string
	FromEmail   string
	FromName    string
	Subject     string
	TextBody    string
	HTMLBody    string
	IdempotencyKey string
	CustomArgs  map[string]string
}

type SendResult struct {
	ProviderMessageID string
	Status            string
}

type EmailProvider interface {
	Name() string
	SendEmail(ctx context.Context, msg EmailMessage) (*SendResult, error)
}

type LinkedInMessage struct {
	ProfileURL     string
	Body           string
	IdempotencyKey string
}

type LinkedInProvider interface {
	Name() string
	SendMessage(ctx context.Context, msg LinkedInMessage) (*SendResult, error)
}

// CrmRecord is a channel-neutral CRM contact/lead upsert payload.
type CrmRecord struct {
	Email      string
	Name       string
	Company    string
	Title      string
	Fields     map[string]interface{}
}

type CrmUpsertResult struct {
	ExternalID string
	Created    bool
}

type CrmProvider interface {
	Name() string
	Upsert(ctx context.Context, records []CrmRecord) ([]CrmUpsertResult, error)
}

// EnrichmentResult is the normalized shape returned by any enrichment
// vendor, cached content-addressed by (type, lookup key).
type EnrichmentResult struct {
	Title       string
	Company     string
	CompanyDomain string
	LinkedInURL string
	Phone       string
	Raw         map[string]interface{}
}

type EnrichmentProvider interface {
	Name() string
	EnrichContact(ctx context.Context, email string) (*EnrichmentResult, error)
	EnrichCompany(ctx context.Context, domain string) (*EnrichmentResult, error)
}

type VideoRequest struct {
	RecipientName string
	Script        string
	TemplateID    string
}

type VideoResult struct {
	VideoURL string
	Status   string
}

type VideoProvider interface {
	Name() string
	GenerateVideo(ctx context.Context, req VideoRequest) (*VideoResult, error)
}

// NormalizedEvent is the shape every webhook.Verifier/decoder must produce
// before a payload reaches the event-ingest worker, regardless of which
// provider emitted it.
type NormalizedEvent struct {
	EventType         string
	Provider          string
	ProviderMessageID string
	Email             string
	OccurredAt        time.Time
	Raw               map[string]interface{}
}
