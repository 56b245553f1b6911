package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type LinkedInConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

func LinkedInConfigFromEnv() LinkedInConfig {
	return LinkedInConfig{
		APIKey:     envutil.String("LINKEDIN_API_KEY", ""),
		BaseURL:    envutil.String("LINKEDIN_BASE_URL", "https://api.linkedin.com/v2"),
		Timeout:    envutil.Duration("LINKEDIN_TIMEOUT_SECONDS", 30),
		MaxRetries: envutil.Int("LINKEDIN_MAX_RETRIES", 4),
	}
}

type linkedInProvider struct {
	adapter *httpAdapter
}

func NewLinkedInProvider(log *logger.Logger, cfg LinkedInConfig) LinkedInProvider {
	adapter := newHTTPAdapter(log, "linkedin", cfg.BaseURL, cfg.Timeout, cfg.MaxRetries, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	})
	return &linkedInProvider{adapter: adapter}
}

func (p *linkedInProvider) Name() string { return "linkedin" }

type linkedInMessageRequest struct {
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
}

type linkedInMessageResponse struct {
	MessageID string `json:"message_id"`
}

func (p *linkedInProvider) SendMessage(ctx context.Context, msg LinkedInMessage) (*SendResult, error) {
	wire := linkedInMessageRequest{Recipient: msg.ProfileURL, Body: msg.Body}
	var out linkedInMessageResponse
	if err := p.adapter.do(ctx, "POST", "/messages", wire, &out); err != nil {
		return nil, err
	}
	return &SendResult{ProviderMessageID: out.MessageID, Status: "sent"}, nil
}
