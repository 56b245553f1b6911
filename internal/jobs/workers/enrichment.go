package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/outreach"
	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/jobs"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/providers"
)

const enrichmentCacheTTL = 30 * 24 * time.Hour

type EnrichmentParams struct {
	ContactIDs []uuid.UUID `json:"contact_ids"`
}

type EnrichmentResult struct {
	Processed int `json:"processed"`
	CacheHits int `json:"cache_hits"`
	Errors    int `json:"errors"`
}

// NewEnrichmentHandler enriches each contact against a content-addressed
// cache (email for the contact lookup, domain for the company lookup), TTL
// 30 days. The contact lookup runs first; the company lookup (when a domain
// is known) runs after it returns, so the two lookups do not overlap. The
// combined result is then scored with a weighted scheme. Results are
// written back per-contact rather than accumulated, so the worker's memory
// footprint stays flat regardless of batch size.
func NewEnrichmentHandler(contacts outreach.ContactRepo, cache outreach.EnrichmentCacheRepo, provider providers.EnrichmentProvider) jobs.Handler {
	return jobs.HandlerFunc(func(rc jobs.RunContext) ([]byte, error) {
		var params EnrichmentParams
		if err := json.Unmarshal(rc.Params, &params); err != nil {
			return nil, fmt.Errorf("enrichment: decode params: %w", err)
		}

		result := EnrichmentResult{}
		dbc := dbctx.Bare(rc.Ctx)

		for i, contactID := range params.ContactIDs {
			if rc.Cancelled() {
				return nil, fmt.Errorf("enrichment: cancelled after %d/%d contacts", i, len(params.ContactIDs))
			}

			contact, err := contacts.GetByID(dbc, contactID)
			if err != nil {
				result.Errors++
				continue
			}
			if contact == nil {
				result.Errors++
				continue
			}

			personResult, companyResult, fromCache, err := enrichOne(rc.Ctx, cache, provider, contact)
			if err != nil {
				result.Errors++
				continue
			}
			if fromCache {
				result.CacheHits++
			}

			score := scoreEnrichment(personResult, companyResult)
			enrichmentData, _ := json.Marshal(map[string]interface{}{
				"person":  personResult,
				"company": companyResult,
			})

			updates := map[string]interface{}{
				"data_quality_score": score,
				"enrichment_data":    datatypes.JSON(enrichmentData),
			}
			if personResult != nil {
				if personResult.Title != "" {
					updates["title"] = personResult.Title
				}
				if personResult.LinkedInURL != "" {
					updates["linkedin_url"] = personResult.LinkedInURL
				}
				if personResult.Phone != "" {
					updates["phone"] = personResult.Phone
				}
				if personResult.CompanyDomain != "" {
					updates["company_domain"] = personResult.CompanyDomain
				}
			}
			if err := contacts.UpdateEnrichment(dbc, contactID, updates); err != nil {
				result.Errors++
				continue
			}

			result.Processed++
			rc.Progress(float64(i+1) / float64(len(params.ContactIDs)) * 100)
		}

		rc.Progress(100)
		return json.Marshal(result)
	})
}

func enrichOne(ctx context.Context, cache outreach.EnrichmentCacheRepo, provider providers.EnrichmentProvider, contact *domain.Contact) (*providers.EnrichmentResult, *providers.EnrichmentResult, bool, error) {
	dbc := dbctx.Bare(ctx)
	fromCache := true

	person, err := cachedLookup(dbc, cache, "contact", contact.Email, enrichmentCacheTTL, func() (*providers.EnrichmentResult, error) {
		fromCache = false
		return provider.EnrichContact(ctx, contact.Email)
	})
	if err != nil {
		return nil, nil, false, err
	}

	domainPart := contact.CompanyDomain
	if domainPart == "" {
		if at := strings.LastIndex(contact.Email, "@"); at >= 0 {
			domainPart = contact.Email[at+1:]
		}
	}
	if domainPart == "" {
		return person, nil, fromCache, nil
	}

	var company *providers.EnrichmentResult
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var cerr error
		company, cerr = cachedLookup(dbc, cache, "company", domainPart, enrichmentCacheTTL, func() (*providers.EnrichmentResult, error) {
			fromCache = false
			return provider.EnrichCompany(gctx, domainPart)
		})
		return cerr
	})
	if err := group.Wait(); err != nil {
		return person, nil, fromCache, err
	}
	return person, company, fromCache, nil
}

func cachedLookup(dbc dbctx.Context, cache outreach.EnrichmentCacheRepo, typ, key string, ttl time.Duration, fetch func() (*providers.EnrichmentResult, error)) (*providers.EnrichmentResult, error) {
	rec, err := cache.Get(dbc, typ, key)
	if err != nil {
		return nil, err
	}
	if rec != nil && time.Since(rec.CachedAt) < ttl {
		var out providers.EnrichmentResult
		if err := json.Unmarshal(rec.Data, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}

	result, err := fetch()
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	if err := cache.Put(dbc, &domain.EnrichmentCache{Type: typ, Key: key, Data: datatypes.JSON(raw), CachedAt: time.Now()}); err != nil {
		return nil, err
	}
	return result, nil
}

// scoreEnrichment implements the weighted data-quality scheme: contact
// fields (15 for any contact-lookup result, title 10, linkedin 10, phone 8;
// location is not scored), company fields (domain 5, revenue 8,
// employees 5, industry 3, technologies 4, funding 3, signals 2), plus a
// flat confidence term of 10 awarded whenever at least one lookup
// succeeded. The highest reachable score is 83.
func scoreEnrichment(person, company *providers.EnrichmentResult) float64 {
	var score float64
	if person != nil {
		score += 15
		if person.Title != "" {
			score += 10
		}
		if person.LinkedInURL != "" {
			score += 10
		}
		if person.Phone != "" {
			score += 8
		}
	}
	if company != nil {
		if company.CompanyDomain != "" {
			score += 5
		}
		if company.Raw != nil {
			if _, ok := company.Raw["revenue"]; ok {
				score += 8
			}
			if _, ok := company.Raw["employees"]; ok {
				score += 5
			}
			if _, ok := company.Raw["industry"]; ok {
				score += 3
			}
			if _, ok := company.Raw["technologies"]; ok {
				score += 4
			}
			if _, ok := company.Raw["funding"]; ok {
				score += 3
			}
			if _, ok := company.Raw["signals"]; ok {
				score += 2
			}
		}
	}
	if person != nil || company != nil {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	return score
}
