package quality

import (
	"regexp"
	"strings"
)

var personalizationTokenPattern = regexp.MustCompile(`\{\{\s*\w+\s*\}\}|\[\s*(first_?name|company|title)\s*\]`)

var ctaKeywords = []string{
	"schedule", "book a", "book time", "let's connect", "quick call",
	"15 minutes", "15-minute", "worth a chat", "open to", "interested in learning",
}

var spamTriggerWords = []string{
	"free money", "act now", "limited time", "click here", "100% free",
	"guarantee", "no obligation", "risk-free", "once in a lifetime",
}

var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[\s*insert[^\]]*\]`),
	regexp.MustCompile(`(?i)lorem ipsum`),
	regexp.MustCompile(`(?i)\{\{\s*todo\s*\}\}`),
}

var credentialLikePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)password\s*[:=]`),
	regexp.MustCompile(`(?i)api[_-]?key\s*[:=]`),
	regexp.MustCompile(`(?i)\bssn\b`),
}

type Message struct {
	Subject string
	Body    string
}

type MessageValidation struct {
	MessageScore float64
	HardBlock    bool
	Reasons      []string
}

// ScoreMessage checks personalization, length, CTA presence, and the
// absence of spam triggers, placeholder text, and credential-like content.
func ScoreMessage(m Message) MessageValidation {
	var reasons []string
	body := m.Body

	if strings.TrimSpace(body) == "" {
		return MessageValidation{MessageScore: 0, HardBlock: true, Reasons: []string{"hard block: missing message content"}}
	}

	score := 0.0

	if personalizationTokenPattern.MatchString(body) || personalizationTokenPattern.MatchString(m.Subject) {
		score += 25
	} else {
		reasons = append(reasons, "no personalization tokens detected")
	}

	length := len(body)
	switch {
	case length >= 300 && length <= 900:
		score += 30
	case length >= 150 && length < 300, length > 900 && length <= 1400:
		score += 18
	default:
		reasons = append(reasons, "message length outside ideal band")
		score += 5
	}

	hasCTA := containsAny(body, ctaKeywords)
	if hasCTA {
		score += 20
	} else {
		reasons = append(reasons, "no clear call to action")
	}

	hasSpam := containsAny(body, spamTriggerWords)
	if !hasSpam {
		score += 15
	} else {
		reasons = append(reasons, "spam-trigger words present")
	}

	hasPlaceholder := matchesAny(body, placeholderPatterns) || matchesAny(m.Subject, placeholderPatterns)
	if !hasPlaceholder {
		score += 10
	} else {
		reasons = append(reasons, "hard block: placeholder text present")
	}

	hasCredentialLike := matchesAny(body, credentialLikePatterns)
	if hasCredentialLike {
		reasons = append(reasons, "hard block: credential-like content present")
	}

	hardBlock := hasPlaceholder || hasCredentialLike
	return MessageValidation{MessageScore: score, HardBlock: hardBlock, Reasons: reasons}
}

func containsAny(s string, substrs []string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
