package responder

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minOutputLength = 20
	maxOutputLength = 1800
)

var profanityWords = []string{"damn", "hell", "crap", "screw this", "stupid idea"}

var riskyPromisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bguarantee(d)?\b`),
	regexp.MustCompile(`(?i)100% (roi|results|success)`),
	regexp.MustCompile(`(?i)\bwe promise\b`),
	regexp.MustCompile(`(?i)no risk (at all|whatsoever)`),
}

// ValidateOutput enforces the generated-reply contract: length bounds, no
// credential-like patterns, no profane/unprofessional language, no risky
// promises, no placeholder text. Its placeholder and credential pattern
// sets are copies of the quality gate's (kept in this file) so a generated
// reply is held to the same bar as a hand-authored campaign message.
func ValidateOutput(text string) error {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minOutputLength {
		return fmt.Errorf("validation_failed: output too short (%d chars)", len(trimmed))
	}
	if len(trimmed) > maxOutputLength {
		return fmt.Errorf("validation_failed: output too long (%d chars)", len(trimmed))
	}

	lower := strings.ToLower(trimmed)
	for _, w := range profanityWords {
		if strings.Contains(lower, w) {
			return fmt.Errorf("validation_failed: unprofessional language detected")
		}
	}
	for _, p := range credentialLikeOutputPatterns {
		if p.MatchString(trimmed) {
			return fmt.Errorf("validation_failed: credential-like content detected")
		}
	}
	for _, p := range placeholderOutputPatterns {
		if p.MatchString(trimmed) {
			return fmt.Errorf("validation_failed: placeholder text detected")
		}
	}
	for _, p := range riskyPromisePatterns {
		if p.MatchString(trimmed) {
			return fmt.Errorf("validation_failed: risky promise detected")
		}
	}
	return nil
}

var credentialLikeOutputPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)password\s*[:=]`),
	regexp.MustCompile(`(?i)api[_-]?key\s*[:=]`),
	regexp.MustCompile(`(?i)\bssn\b`),
}

var placeholderOutputPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[\s*insert[^\]]*\]`),
	regexp.MustCompile(`(?i)lorem ipsum`),
	regexp.MustCompile(`(?i)\{\{\s*todo\s*\}\}`),
}
