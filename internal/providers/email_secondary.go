package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

// SecondaryEmailConfig configures the fallback transactional-email vendor
// used when a send through the primary provider returns any error, or
// exclusively when EMAIL_PROVIDER=secondary.
type SecondaryEmailConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

func SecondaryEmailConfigFromEnv() SecondaryEmailConfig {
	return SecondaryEmailConfig{
		APIKey:     envutil.String("SECONDARY_EMAIL_API_KEY", ""),
		BaseURL:    envutil.String("SECONDARY_EMAIL_BASE_URL", "https://api.postmarkapp.com"),
		Timeout:    envutil.Duration("SECONDARY_EMAIL_TIMEOUT_SECONDS", 30),
		MaxRetries: envutil.Int("SECONDARY_EMAIL_MAX_RETRIES", 4),
	}
}

type secondaryEmailProvider struct {
	adapter *httpAdapter
}

func NewSecondaryEmailProvider(log *logger.Logger, cfg SecondaryEmailConfig) EmailProvider {
	adapter := newHTTPAdapter(log, "secondary_email", cfg.BaseURL, cfg.Timeout, cfg.MaxRetries, func(req *http.Request) {
		req.Header.Set("X-Postmark-Server-Token", cfg.APIKey)
	})
	return &secondaryEmailProvider{adapter: adapter}
}

func (p *secondaryEmailProvider) Name() string { return "secondary_email" }

type postmarkSendRequest struct {
	From          string `json:"From"`
	To            string `json:"To"`
	Subject       string `json:"Subject"`
	TextBody      string `json:"TextBody,omitempty"`
	HtmlBody      string `json:"HtmlBody,omitempty"`
	MessageStream string `json:"MessageStream,omitempty"`
}

type postmarkSendResponse struct {
	MessageID string `json:"MessageID"`
	ErrorCode int     `json:"ErrorCode"`
	Message   string  `json:"Message"`
}

func (p *secondaryEmailProvider) SendEmail(ctx context.Context, msg EmailMessage) (*SendResult, error) {
	from := msg.FromEmail
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.FromName, msg.FromEmail)
	}
	to := msg.ToEmail
	if msg.ToName != "" {
		to = fmt.Sprintf("%s <%s>", msg.ToName, msg.ToEmail)
	}

	wire := postmarkSendRequest{
		From:          from,
		To:            to,
		Subject:       msg.Subject,
		TextBody:      msg.TextBody,
		HtmlBody:      msg.HTMLBody,
		MessageStream: "outbound",
	}

	var out postmarkSendResponse
	if err := p.adapter.do(ctx, "POST", "/email", wire, &out); err != nil {
		return nil, err
	}
	if out.ErrorCode != 0 {
		return nil, fmt.Errorf("secondary email provider: %s (code %d)", out.Message, out.ErrorCode)
	}
	return &SendResult{ProviderMessageID: out.MessageID, Status: "sent"}, nil
}
