// Package responder implements the conversational auto-reply pipeline:
// classify an inbound message, decide whether an AI reply is warranted,
// generate and validate one, and send it through the resolved channel
// provider with a human-review gate and optional delay.
package responder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/data/repos/outreach"
	"github.com/yungbote/neurobridge-backend/internal/platform/aigen"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/providers"
)

const (
	ReasonRateLimited        = "rate_limited"
	ReasonMaxResponsesReached = "max_responses_reached"
	ReasonExcludedIntent     = "excluded_intent"
	ReasonAIGenerationFailed = "ai_generation_failed"
	ReasonValidationFailed   = "validation_failed"
	ReasonNoProviderAvailable = "no_provider_available"
)

// KnowledgeBundle carries the persona, battle-card, and case-study context
// injected into the system prompt for a given campaign/channel.
type KnowledgeBundle struct {
	Persona     string
	BattleCards []string
	CaseStudies []string
}

// KnowledgeService resolves the knowledge bundle for a campaign, and
// optionally a lead score used to gate high-value-intent video follow-ups.
type KnowledgeService interface {
	BundleFor(ctx context.Context, campaignID uuid.UUID, intent string) (KnowledgeBundle, error)
	LeadScore(ctx context.Context, email string) (float64, error)
}

// InboundEvent is one inbound message arriving from a channel webhook or
// mailbox poll.
type InboundEvent struct {
	LeadEmail  string
	CampaignID uuid.UUID
	Channel    string
	Subject    string
	Body       string
}

// Outcome reports what the pipeline did with an inbound event.
type Outcome struct {
	Handled         bool
	Blocked         bool
	Reason          string
	Intent          string
	Sentiment       string
	ReplyText       string
	ProviderMessageID string
}

type Config struct {
	RateLimitPerHour    int
	RateLimitWindow     time.Duration
	CleanupInterval     time.Duration
	MaxResponsesPerThread int
	HistoryLimit        int
	GenerationTimeout   time.Duration
	HumanReviewEnabled  bool
	HumanLikeDelay      time.Duration
	VideoEnabled        bool
	VideoLeadScoreThreshold float64
}

func ConfigFromEnv() Config {
	return Config{
		RateLimitPerHour:        envutil.Int("RESPONDER_RATE_LIMIT_PER_HOUR", 5),
		RateLimitWindow:         time.Hour,
		CleanupInterval:         envutil.Duration("RESPONDER_CLEANUP_INTERVAL_SECONDS", 600),
		MaxResponsesPerThread:   envutil.Int("RESPONDER_MAX_RESPONSES_PER_THREAD", 5),
		HistoryLimit:            envutil.Int("RESPONDER_HISTORY_LIMIT", 6),
		GenerationTimeout:       envutil.Duration("RESPONDER_GENERATION_TIMEOUT_SECONDS", 30),
		HumanReviewEnabled:      envutil.Bool("RESPONDER_HUMAN_REVIEW_ENABLED", false),
		HumanLikeDelay:          envutil.Duration("RESPONDER_HUMAN_LIKE_DELAY_SECONDS", 30),
		VideoEnabled:            envutil.Bool("RESPONDER_VIDEO_ENABLED", false),
		VideoLeadScoreThreshold: 70,
	}
}

// Responder ties together rate limiting, intent classification, history,
// generation, validation, and send.
type Responder struct {
	cfg        Config
	log        *logger.Logger
	rate       RateLimiter
	threads    outreach.ConversationThreadRepo
	messages   outreach.ConversationMessageRepo
	generator  aigen.Generator
	knowledge  KnowledgeService
	email      providers.EmailProvider
	linkedin   providers.LinkedInProvider
	video      providers.VideoProvider
	clock      func() time.Time
	sleep      func(time.Duration)
}

type Deps struct {
	Threads     outreach.ConversationThreadRepo
	Messages    outreach.ConversationMessageRepo
	Generator   aigen.Generator
	Knowledge   KnowledgeService
	Email       providers.EmailProvider
	LinkedIn    providers.LinkedInProvider
	Video       providers.VideoProvider
	RateLimiter RateLimiter
}

func New(cfg Config, log *logger.Logger, deps Deps) *Responder {
	rate := deps.RateLimiter
	if rate == nil {
		rate = NewRateTracker(cfg.RateLimitPerHour, cfg.RateLimitWindow, cfg.CleanupInterval)
	}
	return &Responder{
		cfg:       cfg,
		log:       log.With("component", "Responder"),
		rate:      rate,
		threads:   deps.Threads,
		messages:  deps.Messages,
		generator: deps.Generator,
		knowledge: deps.Knowledge,
		email:     deps.Email,
		linkedin:  deps.LinkedIn,
		video:     deps.Video,
		clock:     time.Now,
		sleep:     time.Sleep,
	}
}

// Shutdown stops the rate tracker's cleanup ticker. The Responder is safe
// to drop immediately after this returns.
func (r *Responder) Shutdown(ctx context.Context) error {
	return r.rate.Shutdown(ctx)
}

func (r *Responder) HandleInbound(ctx context.Context, ev InboundEvent) (Outcome, error) {
	log := r.log.With("lead_email", ev.LeadEmail, "campaign_id", ev.CampaignID.String())

	if !r.rate.Allow(ev.LeadEmail) {
		log.Warn("responder rate limit exceeded")
		return Outcome{Handled: false, Reason: ReasonRateLimited}, nil
	}

	dbc := dbctx.Bare(ctx)
	thread, err := r.threads.FindOrCreate(dbc, ev.LeadEmail, ev.CampaignID, ev.Channel)
	if err != nil {
		return Outcome{}, fmt.Errorf("responder: find or create thread: %w", err)
	}

	if thread.AiResponsesCount >= r.cfg.MaxResponsesPerThread {
		log.Info("responder max responses per thread reached", "count", thread.AiResponsesCount)
		return Outcome{Handled: false, Reason: ReasonMaxResponsesReached}, nil
	}

	classification := Classify(ev.Body)
	log = log.With("intent", classification.Intent, "sentiment", classification.Sentiment)

	inbound := &domain.ConversationMessage{
		ThreadID:       thread.ID,
		Direction:      domain.MessageDirectionInbound,
		Subject:        ev.Subject,
		Content:        ev.Body,
		Sentiment:      classification.Sentiment,
		DetectedIntent: classification.Intent,
	}
	if _, err := r.messages.Create(dbc, inbound); err != nil {
		return Outcome{}, fmt.Errorf("responder: persist inbound message: %w", err)
	}

	if IsExcluded(classification.Intent) {
		log.Info("responder intent excluded from auto-reply")
		return Outcome{Handled: true, Intent: classification.Intent, Sentiment: classification.Sentiment, Reason: ReasonExcludedIntent}, nil
	}

	history, err := r.messages.ListRecentByThread(dbc, thread.ID, r.cfg.HistoryLimit)
	if err != nil {
		return Outcome{}, fmt.Errorf("responder: load history: %w", err)
	}

	bundle, err := r.knowledge.BundleFor(ctx, ev.CampaignID, ev.Channel)
	if err != nil {
		return Outcome{}, fmt.Errorf("responder: load knowledge bundle: %w", err)
	}

	systemPrompt := buildSystemPrompt(ev.Channel, classification, bundle)
	userPrompt := buildUserPrompt(history, ev.Body)

	genCtx, cancel := context.WithTimeout(ctx, r.cfg.GenerationTimeout)
	reply, genErr := r.generator.Generate(genCtx, systemPrompt, userPrompt)
	cancel()
	if genErr != nil {
		log.Error("responder generation failed, queuing for manual review", "error", genErr.Error())
		r.queueForReview(dbc, thread.ID, ev.Subject, ev.Body)
		return Outcome{Handled: true, Intent: classification.Intent, Sentiment: classification.Sentiment, Reason: ReasonAIGenerationFailed}, nil
	}

	if err := ValidateOutput(reply); err != nil {
		log.Warn("responder generated reply failed validation", "error", err.Error())
		r.recordBlocked(dbc, thread.ID, ev.Subject, reply)
		return Outcome{Handled: true, Blocked: true, Intent: classification.Intent, Sentiment: classification.Sentiment, Reason: ReasonValidationFailed}, nil
	}

	if r.cfg.HumanReviewEnabled {
		r.queueForReview(dbc, thread.ID, ev.Subject, reply)
		return Outcome{Handled: true, Intent: classification.Intent, Sentiment: classification.Sentiment, ReplyText: reply}, nil
	}

	if r.cfg.HumanLikeDelay > 0 {
		r.sleep(r.cfg.HumanLikeDelay)
	}

	sendResult, sendErr := r.send(ctx, ev, reply)
	if sendErr != nil {
		log.Error("responder send failed on all configured providers", "error", sendErr.Error())
		return Outcome{Handled: false, Reason: ReasonNoProviderAvailable}, nil
	}

	outbound := &domain.ConversationMessage{
		ThreadID:  thread.ID,
		Direction: domain.MessageDirectionOutbound,
		Subject:   ev.Subject,
		Content:   reply,
	}
	if _, err := r.messages.Create(dbc, outbound); err != nil {
		return Outcome{}, fmt.Errorf("responder: persist outbound message: %w", err)
	}
	if _, err := r.threads.IncrementAiResponses(dbc, thread.ID); err != nil {
		return Outcome{}, fmt.Errorf("responder: increment ai_responses_count: %w", err)
	}
	r.rate.Record(ev.LeadEmail)

	if r.cfg.VideoEnabled && r.video != nil && r.isHighValueIntent(ctx, classification, ev.LeadEmail) {
		go r.sendFollowUpVideo(context.Background(), ev, classification)
	}

	return Outcome{
		Handled:           true,
		Intent:            classification.Intent,
		Sentiment:         classification.Sentiment,
		ReplyText:         reply,
		ProviderMessageID: sendResult.ProviderMessageID,
	}, nil
}

func (r *Responder) send(ctx context.Context, ev InboundEvent, reply string) (*providers.SendResult, error) {
	switch ev.Channel {
	case "linkedin":
		if r.linkedin == nil {
			return nil, fmt.Errorf("no linkedin provider configured")
		}
		return r.linkedin.SendMessage(ctx, providers.LinkedInMessage{ProfileURL: ev.LeadEmail, Body: reply})
	default:
		if r.email == nil {
			return nil, fmt.Errorf("no email provider configured")
		}
		return r.email.SendEmail(ctx, providers.EmailMessage{
			ToEmail:  ev.LeadEmail,
			Subject:  "Re: " + ev.Subject,
			TextBody: reply,
		})
	}
}

func (r *Responder) isHighValueIntent(ctx context.Context, c Classification, email string) bool {
	if c.Intent == IntentMeetingRequest {
		return true
	}
	if c.Intent != IntentInterested {
		return false
	}
	score, err := r.knowledge.LeadScore(ctx, email)
	if err != nil {
		return false
	}
	return score >= r.cfg.VideoLeadScoreThreshold
}

func (r *Responder) sendFollowUpVideo(ctx context.Context, ev InboundEvent, c Classification) {
	_, err := r.video.GenerateVideo(ctx, providers.VideoRequest{
		RecipientName: ev.LeadEmail,
		Script:        fmt.Sprintf("Personal follow-up for %s intent", c.Intent),
	})
	if err != nil {
		r.log.Warn("responder async video generation failed", "lead_email", ev.LeadEmail, "error", err.Error())
	}
}

func (r *Responder) queueForReview(dbc dbctx.Context, threadID uuid.UUID, subject, content string) {
	msg := &domain.ConversationMessage{
		ThreadID:      threadID,
		Direction:     domain.MessageDirectionOutbound,
		Subject:       subject,
		Content:       content,
		PendingReview: true,
	}
	if _, err := r.messages.Create(dbc, msg); err != nil {
		r.log.Error("responder failed to queue message for manual review", "error", err.Error())
	}
}

func (r *Responder) recordBlocked(dbc dbctx.Context, threadID uuid.UUID, subject, content string) {
	msg := &domain.ConversationMessage{
		ThreadID:      threadID,
		Direction:     domain.MessageDirectionOutbound,
		Subject:       subject,
		Content:       content,
		DetectedIntent: "blocked",
	}
	if _, err := r.messages.Create(dbc, msg); err != nil {
		r.log.Error("responder failed to record blocked reply", "error", err.Error())
	}
}

func buildSystemPrompt(channel string, c Classification, bundle KnowledgeBundle) string {
	prompt := fmt.Sprintf("You are a sales development rep replying over %s. Persona: %s.\n", channel, bundle.Persona)
	prompt += fmt.Sprintf("The lead's message intent was classified as %q with %q sentiment.\n", c.Intent, c.Sentiment)
	if c.Competitor != "" {
		prompt += fmt.Sprintf("The lead mentioned a competitor: %s. Acknowledge it respectfully and differentiate.\n", c.Competitor)
	}
	switch c.Intent {
	case IntentMeetingRequest:
		prompt += "Propose concrete meeting times and keep the reply short.\n"
	case IntentObjection:
		prompt += "Address the objection directly using the battle cards provided, without being pushy.\n"
	case IntentQuestion:
		prompt += "Answer the question directly and concisely using the case studies provided where relevant.\n"
	case IntentInterested:
		prompt += "Build on their interest and suggest a clear next step.\n"
	default:
		prompt += "Write a brief, professional follow-up.\n"
	}
	if len(bundle.BattleCards) > 0 {
		prompt += "Battle cards:\n"
		for _, b := range bundle.BattleCards {
			prompt += "- " + b + "\n"
		}
	}
	if len(bundle.CaseStudies) > 0 {
		prompt += "Case studies:\n"
		for _, cs := range bundle.CaseStudies {
			prompt += "- " + cs + "\n"
		}
	}
	prompt += "Never include placeholder text, credentials, or risky guarantees. Keep the reply under 1500 characters."
	return prompt
}

func buildUserPrompt(history []*domain.ConversationMessage, incoming string) string {
	prompt := ""
	for _, m := range history {
		prompt += fmt.Sprintf("[%s] %s\n", m.Direction, m.Content)
	}
	prompt += fmt.Sprintf("[inbound] %s\n", incoming)
	return prompt
}
