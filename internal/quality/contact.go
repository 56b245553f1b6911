// Package quality implements the pre-send outreach quality gate: contact
// data validation, message scoring, timing scoring, and their weighted
// composite.
package quality

import (
	"context"
	"net"
	"net/mail"
	"regexp"
	"strings"
	"sync"
	"time"
)

var roleBasedPrefixes = []string{
	"info", "sales", "support", "admin", "contact", "help", "noreply", "no-reply",
	"hello", "team", "office", "billing", "marketing", "webmaster", "postmaster",
}

var disposableDomains = map[string]struct{}{
	"mailinator.com": {}, "guerrillamail.com": {}, "10minutemail.com": {},
	"tempmail.com": {}, "yopmail.com": {}, "trashmail.com": {}, "throwawaymail.com": {},
}

// icpTier is one regex-matched title tier with its associated data-score
// contribution.
type icpTier struct {
	pattern *regexp.Regexp
	score   float64
}

var icpTiers = []icpTier{
	{regexp.MustCompile(`(?i)\b(chief|ceo|cto|cfo|coo|cmo|vp|vice president|head of)\b`), 100},
	{regexp.MustCompile(`(?i)\b(director|senior manager|principal)\b`), 80},
	{regexp.MustCompile(`(?i)\b(manager|lead)\b`), 60},
}

const defaultICPScore = 30

// MXResolver looks up MX records for a domain; satisfied by net.LookupMX in
// production and stubbed in tests.
type MXResolver func(domain string) ([]*net.MX, error)

// ContactValidator validates contact data quality with a short-lived MX
// cache (5 min TTL) so a batch of contacts at the same domain incurs one
// DNS round trip.
type ContactValidator struct {
	resolver MXResolver
	mu       sync.Mutex
	mxCache  map[string]mxCacheEntry
	ttl      time.Duration
}

type mxCacheEntry struct {
	ok        bool
	expiresAt time.Time
}

func NewContactValidator(resolver MXResolver) *ContactValidator {
	if resolver == nil {
		resolver = net.LookupMX
	}
	return &ContactValidator{resolver: resolver, mxCache: map[string]mxCacheEntry{}, ttl: 5 * time.Minute}
}

// Contact is the subset of contact fields the gate needs.
type Contact struct {
	Email       string
	Title       string
	Company     string
	Phone       string
	LinkedInURL string
}

type ContactValidation struct {
	DataScore    float64
	HardBlock    bool
	Reasons      []string
	EmailValid   bool
	MXValid      bool
	RoleBased    bool
	Disposable   bool
	Completeness float64
	ICPScore     float64
}

func (v *ContactValidator) Validate(ctx context.Context, c Contact) ContactValidation {
	var reasons []string
	email := strings.TrimSpace(strings.ToLower(c.Email))

	addr, err := mail.ParseAddress(email)
	emailValid := err == nil && addr != nil
	if !emailValid {
		reasons = append(reasons, "invalid email syntax")
		return ContactValidation{DataScore: 0, HardBlock: true, Reasons: reasons, EmailValid: false}
	}

	domainPart := ""
	if at := strings.LastIndex(email, "@"); at >= 0 {
		domainPart = email[at+1:]
	}
	localPart := strings.TrimSuffix(email, "@"+domainPart)

	mxValid := v.lookupMX(domainPart)
	if !mxValid {
		reasons = append(reasons, "domain has no valid mail exchanger")
	}

	roleBased := isRoleBased(localPart)
	if roleBased {
		reasons = append(reasons, "role-based mailbox")
	}

	disposable := isDisposable(domainPart)
	if disposable {
		reasons = append(reasons, "disposable email domain")
	}

	completeness := completenessGrade(c)
	icpScore := icpScoreFor(c.Title)

	dataScore := 0.0
	if mxValid {
		dataScore += 30
	}
	if !roleBased {
		dataScore += 15
	}
	if !disposable {
		dataScore += 15
	}
	dataScore += completeness * 10
	dataScore += icpScore * 0.3

	hardBlock := disposable
	if hardBlock {
		reasons = append(reasons, "hard block: disposable domain")
	}

	return ContactValidation{
		DataScore:    dataScore,
		HardBlock:    hardBlock,
		Reasons:      reasons,
		EmailValid:   true,
		MXValid:      mxValid,
		RoleBased:    roleBased,
		Disposable:   disposable,
		Completeness: completeness,
		ICPScore:     icpScore,
	}
}

func (v *ContactValidator) lookupMX(domainPart string) bool {
	if domainPart == "" {
		return false
	}
	v.mu.Lock()
	if entry, ok := v.mxCache[domainPart]; ok && time.Now().Before(entry.expiresAt) {
		v.mu.Unlock()
		return entry.ok
	}
	v.mu.Unlock()

	records, err := v.resolver(domainPart)
	ok := err == nil && len(records) > 0

	v.mu.Lock()
	v.mxCache[domainPart] = mxCacheEntry{ok: ok, expiresAt: time.Now().Add(v.ttl)}
	v.mu.Unlock()
	return ok
}

func isRoleBased(localPart string) bool {
	local := strings.ToLower(localPart)
	for _, prefix := range roleBasedPrefixes {
		if local == prefix || strings.HasPrefix(local, prefix+".") || strings.HasPrefix(local, prefix+"+") {
			return true
		}
	}
	return false
}

func isDisposable(domainPart string) bool {
	_, ok := disposableDomains[strings.ToLower(domainPart)]
	return ok
}

// completenessGrade scores [0,1] by how many of the enrichable fields are
// present.
func completenessGrade(c Contact) float64 {
	fields := []string{c.Title, c.Company, c.Phone, c.LinkedInURL}
	present := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			present++
		}
	}
	return float64(present) / float64(len(fields))
}

func icpScoreFor(title string) float64 {
	for _, tier := range icpTiers {
		if tier.pattern.MatchString(title) {
			return tier.score
		}
	}
	return defaultICPScore
}
