package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/neurobridge-backend/internal/observability"
	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/sendgrid"
)

// Clients bundles every selected provider, already wrapped in its fallback
// adapter where applicable.
type Clients struct {
	Email      EmailProvider
	LinkedIn   LinkedInProvider
	Crm        CrmProvider
	Enrichment EnrichmentProvider
	Video      VideoProvider
}

// NewClientsFromEnv builds every outreach provider client from environment
// configuration and wraps each in a breaker/limiter/timeout pipeline
// (internal/reliability) so a vendor outage degrades to an open breaker
// instead of cascading into the job pool. metrics may be nil in tests.
func NewClientsFromEnv(log *logger.Logger, metrics *observability.Metrics) (*Clients, error) {
	sgClient, err := sendgrid.NewFromEnv(log)
	if err != nil {
		return nil, fmt.Errorf("providers: sendgrid init: %w", err)
	}
	primary := NewSendgridEmailProvider(sgClient)
	secondary := NewSecondaryEmailProvider(log, SecondaryEmailConfigFromEnv())

	selected := strings.ToLower(envutil.String("EMAIL_PROVIDER", "primary"))
	var email EmailProvider
	switch selected {
	case "secondary":
		email = secondary
	default:
		email = NewFallbackEmailProvider(log, primary, secondary)
	}
	email = WrapEmailProvider(email, envutil.Int("EMAIL_RATE_PER_MINUTE", 300), envutil.Duration("EMAIL_TIMEOUT_SECONDS", 30), metrics)

	linkedInCfg := LinkedInConfigFromEnv()
	linkedIn := WrapLinkedInProvider(NewLinkedInProvider(log, linkedInCfg), envutil.Int("LINKEDIN_RATE_PER_MINUTE", 30), linkedInCfg.Timeout, metrics)

	crmCfg := CrmConfigFromEnv()
	crm := WrapCrmProvider(NewCrmProvider(log, crmCfg), envutil.Int("CRM_RATE_PER_MINUTE", 100), crmCfg.Timeout, metrics)

	enrichmentCfg := EnrichmentConfigFromEnv()
	enrichment := WrapEnrichmentProvider(NewEnrichmentProvider(log, enrichmentCfg), envutil.Int("ENRICHMENT_RATE_PER_MINUTE", 60), enrichmentCfg.Timeout, metrics)

	videoCfg := VideoConfigFromEnv()
	video := WrapVideoProvider(NewVideoProvider(log, videoCfg), envutil.Int("VIDEO_RATE_PER_MINUTE", 20), videoCfg.Timeout, metrics)

	return &Clients{
		Email:      email,
		LinkedIn:   linkedIn,
		Crm:        crm,
		Enrichment: enrichment,
		Video:      video,
	}, nil
}

// fallbackEmailProvider tries primary first and falls back to secondary on
// any error, so a primary-vendor outage degrades delivery reliability
// instead of blocking outreach outright.
type fallbackEmailProvider struct {
	log       *logger.Logger
	primary   EmailProvider
	secondary EmailProvider
}

func NewFallbackEmailProvider(log *logger.Logger, primary, secondary EmailProvider) EmailProvider {
	return &fallbackEmailProvider{log: log.With("provider", "email_fallback"), primary: primary, secondary: secondary}
}

func (p *fallbackEmailProvider) Name() string { return "email_fallback" }

func (p *fallbackEmailProvider) SendEmail(ctx context.Context, msg EmailMessage) (*SendResult, error) {
	res, err := p.primary.SendEmail(ctx, msg)
	if err == nil {
		return res, nil
	}
	p.log.Warn("primary email provider failed, falling back to secondary",
		"primary", p.primary.Name(),
		"secondary", p.secondary.Name(),
		"error", err.Error(),
	)
	return p.secondary.SendEmail(ctx, msg)
}
