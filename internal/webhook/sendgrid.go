package webhook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/providers"
)

type SendgridVerifier struct {
	Secret string
}

func NewSendgridVerifier(secret string) *SendgridVerifier {
	return &SendgridVerifier{Secret: secret}
}

func (v *SendgridVerifier) Verify(headers map[string]string, body []byte) error {
	if v.Secret == "" {
		return nil
	}
	sig := headers["X-Twilio-Email-Event-Webhook-Signature"]
	if sig == "" {
		return fmt.Errorf("sendgrid webhook: missing signature header")
	}
	return VerifyHMACSHA256(v.Secret, body, sig)
}

type sendgridEventWire struct {
	Event     string `json:"event"`
	Email     string `json:"email"`
	SgMessageID string `json:"sg_message_id"`
	Timestamp int64  `json:"timestamp"`
}

func (v *SendgridVerifier) Decode(body []byte) ([]providers.NormalizedEvent, error) {
	var raw []sendgridEventWire
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("sendgrid webhook: decode: %w", err)
	}
	out := make([]providers.NormalizedEvent, 0, len(raw))
	for _, e := range raw {
		out = append(out, providers.NormalizedEvent{
			EventType:         e.Event,
			Provider:          "sendgrid",
			ProviderMessageID: e.SgMessageID,
			Email:             e.Email,
			OccurredAt:        time.Unix(e.Timestamp, 0).UTC(),
			Raw:               map[string]interface{}{"event": e.Event, "email": e.Email},
		})
	}
	return out, nil
}
