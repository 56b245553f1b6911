package webhook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/providers"
)

// GenericVerifier covers providers whose webhook shape is a single
// normalized event per call (LinkedIn, secondary email, CRM), guarded by an
// HMAC-SHA256 signature in a configurable header.
type GenericVerifier struct {
	ProviderName string
	Secret       string
	SignatureHeader string
}

func NewGenericVerifier(providerName, secret, signatureHeader string) *GenericVerifier {
	return &GenericVerifier{ProviderName: providerName, Secret: secret, SignatureHeader: signatureHeader}
}

func (v *GenericVerifier) Verify(headers map[string]string, body []byte) error {
	if v.Secret == "" {
		return nil
	}
	sig := headers[v.SignatureHeader]
	if sig == "" {
		return fmt.Errorf("%s webhook: missing signature header %q", v.ProviderName, v.SignatureHeader)
	}
	return VerifyHMACSHA256(v.Secret, body, sig)
}

type genericEventWire struct {
	EventType         string                 `json:"event_type"`
	Email             string                 `json:"email"`
	ProviderMessageID string                 `json:"provider_message_id"`
	OccurredAt        time.Time              `json:"occurred_at"`
	Raw               map[string]interface{} `json:"raw"`
}

func (v *GenericVerifier) Decode(body []byte) ([]providers.NormalizedEvent, error) {
	var e genericEventWire
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, fmt.Errorf("%s webhook: decode: %w", v.ProviderName, err)
	}
	occurred := e.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	return []providers.NormalizedEvent{{
		EventType:         e.EventType,
		Provider:          v.ProviderName,
		ProviderMessageID: e.ProviderMessageID,
		Email:             e.Email,
		OccurredAt:        occurred,
		Raw:               e.Raw,
	}}, nil
}
