// Package webhook verifies and normalizes inbound provider callbacks. Each
// provider registers a Verifier keyed by name; the HTTP handler looks the
// verifier up by the {provider} path segment instead of type-switching on
// payload shape.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/providers"
)

// Verifier authenticates a raw webhook body against its signature header
// and decodes it into the channel-neutral NormalizedEvent shape.
type Verifier interface {
	Verify(headers map[string]string, body []byte) error
	Decode(body []byte) ([]providers.NormalizedEvent, error)
}

type Registry struct {
	mu        sync.RWMutex
	verifiers map[string]Verifier
}

func NewRegistry() *Registry {
	return &Registry{verifiers: map[string]Verifier{}}
}

func (r *Registry) Register(provider string, v Verifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verifiers[provider] = v
}

func (r *Registry) Get(provider string) (Verifier, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.verifiers[provider]
	return v, ok
}

// VerifyHMACSHA256 performs a constant-time comparison of an HMAC-SHA256
// signature over body, keyed by secret. sigHex is the hex-encoded digest
// received from the provider.
func VerifyHMACSHA256(secret string, body []byte, sigHex string) error {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(sigHex)) {
		return fmt.Errorf("webhook: signature mismatch")
	}
	return nil
}

// StableID derives a dedupe identity for an inbound event used both to
// avoid double-processing and as the orphaned-queue's unique key.
func StableID(provider, eventType, providerMessageID string, occurredAt time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%d", provider, eventType, providerMessageID, occurredAt.Unix())
}
