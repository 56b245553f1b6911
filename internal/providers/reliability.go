package providers

import (
	"context"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/observability"
	"github.com/yungbote/neurobridge-backend/internal/reliability"
)

// reliableConfig bundles the breaker+limiter+timeout policy applied around
// a provider's outbound calls. Retry stays inside httpAdapter (or the
// sendgrid client) where it already runs; the pipeline's own retrier is
// held to a single attempt so a transient error is not retried twice over.
type reliableConfig struct {
	pipeline *reliability.Pipeline
	metrics  *observability.Metrics
	name     string
}

func newReliablePipeline(name string, ratePerMinute int, timeout time.Duration) *reliability.Pipeline {
	breaker := reliability.NewBreaker(reliability.DefaultBreakerConfig(name))
	limiter := reliability.NewLimiter(ratePerMinute)
	retrier := reliability.NewRetrier(reliability.RetryConfig{
		BaseDelay:    time.Second,
		Multiplier:   2,
		MaxAttempts:  1,
		MaxTotalWait: timeout,
	})
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return reliability.NewPipeline(breaker, limiter, retrier, timeout)
}

func (c reliableConfig) observe(operation string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.ObserveProviderCall(c.name, operation, outcome, time.Since(start).Seconds())
}

type reliableEmailProvider struct {
	inner EmailProvider
	cfg   reliableConfig
}

// WrapEmailProvider composes a circuit breaker, rate limiter and timeout
// around an EmailProvider so a failing vendor trips open instead of
// absorbing every enrolled contact's send attempt.
func WrapEmailProvider(inner EmailProvider, ratePerMinute int, timeout time.Duration, metrics *observability.Metrics) EmailProvider {
	cfg := reliableConfig{
		pipeline: newReliablePipeline(inner.Name(), ratePerMinute, timeout),
		metrics:  metrics,
		name:     inner.Name(),
	}
	return &reliableEmailProvider{inner: inner, cfg: cfg}
}

func (p *reliableEmailProvider) Name() string { return p.inner.Name() }

func (p *reliableEmailProvider) SendEmail(ctx context.Context, msg EmailMessage) (*SendResult, error) {
	start := time.Now()
	var res *SendResult
	err := p.cfg.pipeline.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		res, innerErr = p.inner.SendEmail(ctx, msg)
		return innerErr
	})
	p.cfg.observe("send_email", start, err)
	return res, err
}

type reliableLinkedInProvider struct {
	inner LinkedInProvider
	cfg   reliableConfig
}

func WrapLinkedInProvider(inner LinkedInProvider, ratePerMinute int, timeout time.Duration, metrics *observability.Metrics) LinkedInProvider {
	cfg := reliableConfig{
		pipeline: newReliablePipeline(inner.Name(), ratePerMinute, timeout),
		metrics:  metrics,
		name:     inner.Name(),
	}
	return &reliableLinkedInProvider{inner: inner, cfg: cfg}
}

func (p *reliableLinkedInProvider) Name() string { return p.inner.Name() }

func (p *reliableLinkedInProvider) SendMessage(ctx context.Context, msg LinkedInMessage) (*SendResult, error) {
	start := time.Now()
	var res *SendResult
	err := p.cfg.pipeline.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		res, innerErr = p.inner.SendMessage(ctx, msg)
		return innerErr
	})
	p.cfg.observe("send_message", start, err)
	return res, err
}

type reliableCrmProvider struct {
	inner CrmProvider
	cfg   reliableConfig
}

func WrapCrmProvider(inner CrmProvider, ratePerMinute int, timeout time.Duration, metrics *observability.Metrics) CrmProvider {
	cfg := reliableConfig{
		pipeline: newReliablePipeline(inner.Name(), ratePerMinute, timeout),
		metrics:  metrics,
		name:     inner.Name(),
	}
	return &reliableCrmProvider{inner: inner, cfg: cfg}
}

func (p *reliableCrmProvider) Name() string { return p.inner.Name() }

func (p *reliableCrmProvider) Upsert(ctx context.Context, records []CrmRecord) ([]CrmUpsertResult, error) {
	start := time.Now()
	var res []CrmUpsertResult
	err := p.cfg.pipeline.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		res, innerErr = p.inner.Upsert(ctx, records)
		return innerErr
	})
	p.cfg.observe("upsert", start, err)
	return res, err
}

type reliableEnrichmentProvider struct {
	inner EnrichmentProvider
	cfg   reliableConfig
}

func WrapEnrichmentProvider(inner EnrichmentProvider, ratePerMinute int, timeout time.Duration, metrics *observability.Metrics) EnrichmentProvider {
	cfg := reliableConfig{
		pipeline: newReliablePipeline(inner.Name(), ratePerMinute, timeout),
		metrics:  metrics,
		name:     inner.Name(),
	}
	return &reliableEnrichmentProvider{inner: inner, cfg: cfg}
}

func (p *reliableEnrichmentProvider) Name() string { return p.inner.Name() }

func (p *reliableEnrichmentProvider) EnrichContact(ctx context.Context, email string) (*EnrichmentResult, error) {
	start := time.Now()
	var res *EnrichmentResult
	err := p.cfg.pipeline.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		res, innerErr = p.inner.EnrichContact(ctx, email)
		return innerErr
	})
	p.cfg.observe("enrich_contact", start, err)
	return res, err
}

func (p *reliableEnrichmentProvider) EnrichCompany(ctx context.Context, domain string) (*EnrichmentResult, error) {
	start := time.Now()
	var res *EnrichmentResult
	err := p.cfg.pipeline.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		res, innerErr = p.inner.EnrichCompany(ctx, domain)
		return innerErr
	})
	p.cfg.observe("enrich_company", start, err)
	return res, err
}

type reliableVideoProvider struct {
	inner VideoProvider
	cfg   reliableConfig
}

func WrapVideoProvider(inner VideoProvider, ratePerMinute int, timeout time.Duration, metrics *observability.Metrics) VideoProvider {
	cfg := reliableConfig{
		pipeline: newReliablePipeline(inner.Name(), ratePerMinute, timeout),
		metrics:  metrics,
		name:     inner.Name(),
	}
	return &reliableVideoProvider{inner: inner, cfg: cfg}
}

func (p *reliableVideoProvider) Name() string { return p.inner.Name() }

func (p *reliableVideoProvider) GenerateVideo(ctx context.Context, req VideoRequest) (*VideoResult, error) {
	start := time.Now()
	var res *VideoResult
	err := p.cfg.pipeline.Execute(ctx, func(ctx context.Context) error {
		var innerErr error
		res, innerErr = p.inner.GenerateVideo(ctx, req)
		return innerErr
	})
	p.cfg.observe("generate_video", start, err)
	return res, err
}
