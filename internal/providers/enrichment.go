package providers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type EnrichmentConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

func EnrichmentConfigFromEnv() EnrichmentConfig {
	return EnrichmentConfig{
		APIKey:     envutil.String("ENRICHMENT_API_KEY", ""),
		BaseURL:    envutil.String("ENRICHMENT_BASE_URL", "https://api.clearbit.com"),
		Timeout:    envutil.Duration("ENRICHMENT_TIMEOUT_SECONDS", 20),
		MaxRetries: envutil.Int("ENRICHMENT_MAX_RETRIES", 3),
	}
}

type enrichmentProvider struct {
	adapter *httpAdapter
}

func NewEnrichmentProvider(log *logger.Logger, cfg EnrichmentConfig) EnrichmentProvider {
	adapter := newHTTPAdapter(log, "enrichment", cfg.BaseURL, cfg.Timeout, cfg.MaxRetries, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	})
	return &enrichmentProvider{adapter: adapter}
}

func (p *enrichmentProvider) Name() string { return "enrichment" }

type enrichmentPersonResponse struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	CompanyDomain string `json:"company_domain"`
	LinkedInURL string `json:"linkedin_url"`
	Phone       string `json:"phone"`
}

func (p *enrichmentProvider) EnrichContact(ctx context.Context, email string) (*EnrichmentResult, error) {
	var resp enrichmentPersonResponse
	path := "/v2/people/find?email=" + url.QueryEscape(email)
	if err := p.adapter.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &EnrichmentResult{
		Title:         resp.Title,
		Company:       resp.Company,
		CompanyDomain: resp.CompanyDomain,
		LinkedInURL:   resp.LinkedInURL,
		Phone:         resp.Phone,
	}, nil
}

type enrichmentCompanyResponse struct {
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Industry string `json:"industry"`
}

func (p *enrichmentProvider) EnrichCompany(ctx context.Context, domain string) (*EnrichmentResult, error) {
	var resp enrichmentCompanyResponse
	path := "/v2/companies/find?domain=" + url.QueryEscape(domain)
	if err := p.adapter.do(ctx, "GET", path, nil, &resp); err != nil {
		return nil, err
	}
	return &EnrichmentResult{
		Company:       resp.Name,
		CompanyDomain: resp.Domain,
		Raw:           map[string]interface{}{"industry": resp.Industry},
	}, nil
}
