package providers

import (
	"context"
	"fmt"

	"github.com/yungbote/neurobridge-backend/internal/platform/sendgrid"
)

// sendgridEmailProvider adapts the sendgrid client to the channel-neutral
// EmailProvider capability interface.
type sendgridEmailProvider struct {
	client sendgrid.Client
}

func NewSendgridEmailProvider(client sendgrid.Client) EmailProvider {
	return &sendgridEmailProvider{client: client}
}

func (p *sendgridEmailProvider) Name() string { return "sendgrid" }

func (p *sendgridEmailProvider) SendEmail(ctx context.Context, msg EmailMessage) (*SendResult, error) {
	if p.client == nil {
		return nil, fmt.Errorf("sendgrid provider: client unavailable")
	}
	req := sendgrid.SendEmailRequest{
		From:    sendgrid.EmailAddress{Email: msg.FromEmail, Name: msg.FromName},
		To:      []sendgrid.EmailAddress{{Email: msg.ToEmail, Name: msg.ToName}},
		Subject: msg.Subject,
		Text:    msg.TextBody,
		HTML:    msg.HTMLBody,
	}
	if msg.CustomArgs != nil {
		req.CustomArgs = msg.CustomArgs
	}
	if msg.IdempotencyKey != "" {
		if req.CustomArgs == nil {
			req.CustomArgs = map[string]string{}
		}
		req.CustomArgs["idempotency_key"] = msg.IdempotencyKey
	}

	res, err := p.client.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	return &SendResult{ProviderMessageID: res.MessageID, Status: "sent"}, nil
}
