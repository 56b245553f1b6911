// Package secrets resolves opaque credentials (provider API keys, webhook
// HMAC secrets) through a small capability interface instead of inline
// configuration, per the secrets.store recognised key.
package secrets

import (
	"fmt"
	"strings"

	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
)

// Store resolves a named secret to its value. ApiKey / Credential entities
// are opaque to the core; every lookup goes through here.
type Store interface {
	Get(name string) (string, bool)
}

type envStore struct {
	prefix string
}

// NewEnvStore resolves secrets directly from the process environment,
// optionally namespaced under prefix (e.g. "SECRET_").
func NewEnvStore(prefix string) Store {
	return &envStore{prefix: strings.TrimSpace(prefix)}
}

func (s *envStore) Get(name string) (string, bool) {
	key := name
	if s.prefix != "" {
		key = s.prefix + name
	}
	v := envutil.String(key, "")
	if v == "" {
		return "", false
	}
	return v, true
}

// NewStore constructs the configured secret backend. "env" and "file" are
// implemented; "vault" is a documented extension point that fails loudly
// rather than silently degrading to env lookups.
func NewStore(mode string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "env":
		return NewEnvStore(""), nil
	case "file":
		return newFileStore()
	case "vault":
		return nil, fmt.Errorf("secrets: store mode %q is not implemented in this deployment", mode)
	default:
		return nil, fmt.Errorf("secrets: unrecognised store mode %q", mode)
	}
}
