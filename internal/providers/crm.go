package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type CrmConfig struct {
	APIKey      string
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  int
	BatchSize   int
}

func CrmConfigFromEnv() CrmConfig {
	return CrmConfig{
		APIKey:     envutil.String("CRM_API_KEY", ""),
		BaseURL:    envutil.String("CRM_BASE_URL", "https://api.hubapi.com"),
		Timeout:    envutil.Duration("CRM_TIMEOUT_SECONDS", 30),
		MaxRetries: envutil.Int("CRM_MAX_RETRIES", 4),
		BatchSize:  envutil.Int("CRM_BATCH_SIZE", 100),
	}
}

type crmProvider struct {
	adapter   *httpAdapter
	batchSize int
}

func NewCrmProvider(log *logger.Logger, cfg CrmConfig) CrmProvider {
	adapter := newHTTPAdapter(log, "crm", cfg.BaseURL, cfg.Timeout, cfg.MaxRetries, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	})
	batchSize := cfg.BatchSize
	if batchSize <= 0 || batchSize > 100 {
		batchSize = 100
	}
	return &crmProvider{adapter: adapter, batchSize: batchSize}
}

func (p *crmProvider) Name() string { return "crm" }

type crmUpsertWireRequest struct {
	Inputs []crmUpsertWireInput `json:"inputs"`
}

type crmUpsertWireInput struct {
	Email      string                 `json:"email"`
	Name       string                 `json:"name,omitempty"`
	Company    string                 `json:"company,omitempty"`
	Title      string                 `json:"title,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

type crmUpsertWireResponse struct {
	Results []crmUpsertWireResult `json:"results"`
}

type crmUpsertWireResult struct {
	ID      string `json:"id"`
	Created bool   `json:"created"`
}

// Upsert batches records into groups no larger than the configured batch
// size (capped at 100), calling the CRM API once per batch.
func (p *crmProvider) Upsert(ctx context.Context, records []CrmRecord) ([]CrmUpsertResult, error) {
	out := make([]CrmUpsertResult, 0, len(records))
	for start := 0; start < len(records); start += p.batchSize {
		end := start + p.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		wire := crmUpsertWireRequest{Inputs: make([]crmUpsertWireInput, 0, len(batch))}
		for _, r := range batch {
			wire.Inputs = append(wire.Inputs, crmUpsertWireInput{
				Email:      r.Email,
				Name:       r.Name,
				Company:    r.Company,
				Title:      r.Title,
				Properties: r.Fields,
			})
		}

		var resp crmUpsertWireResponse
		if err := p.adapter.do(ctx, "POST", "/crm/v3/objects/contacts/batch/upsert", wire, &resp); err != nil {
			return out, err
		}
		for _, r := range resp.Results {
			out = append(out, CrmUpsertResult{ExternalID: r.ID, Created: r.Created})
		}
	}
	return out, nil
}
