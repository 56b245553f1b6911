package secrets

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
)

// fileDocument is the on-disk shape for the file-backed store: a bcrypt hash
// of the unlock passphrase alongside the secret values themselves, so a
// stolen file is useless without the passphrase supplied out of band
// (SECRETS_FILE_PASSPHRASE).
type fileDocument struct {
	PassphraseHash string            `json:"passphrase_hash"`
	Secrets        map[string]string `json:"secrets"`
}

type fileStore struct {
	secrets map[string]string
}

func (s *fileStore) Get(name string) (string, bool) {
	v, ok := s.secrets[name]
	return v, ok
}

// newFileStore loads SECRETS_FILE_PATH, checks the supplied
// SECRETS_FILE_PASSPHRASE against the document's bcrypt hash, and returns a
// Store over its secrets map. Both env vars are required; either missing
// fails loudly rather than falling back to an unauthenticated read.
func newFileStore() (Store, error) {
	path := envutil.String("SECRETS_FILE_PATH", "")
	if path == "" {
		return nil, fmt.Errorf("secrets: SECRETS_FILE_PATH is required for file-backed store")
	}
	passphrase := envutil.String("SECRETS_FILE_PASSPHRASE", "")
	if passphrase == "" {
		return nil, fmt.Errorf("secrets: SECRETS_FILE_PASSPHRASE is required for file-backed store")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("secrets: read %s: %w", path, err)
	}

	var doc fileDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("secrets: decode %s: %w", path, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(doc.PassphraseHash), []byte(passphrase)); err != nil {
		return nil, fmt.Errorf("secrets: passphrase check failed: %w", err)
	}

	return &fileStore{secrets: doc.Secrets}, nil
}
