package workers

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/outreach"
	"github.com/yungbote/neurobridge-backend/internal/jobs"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/providers"
)

const crmSyncLedgerOperation = "crm_sync"

type CrmSyncParams struct {
	ContactIDs      []uuid.UUID `json:"contact_ids"`
	ContinueOnError bool        `json:"continue_on_error"`
}

type CrmSyncResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// NewCrmSyncHandler upserts contacts into the CRM in batches of up to 100
// (CrmProvider.Upsert already enforces the cap), logging each batch's
// outcome. A per-item failure inside a batch only aborts the job when
// ContinueOnError is false.
func NewCrmSyncHandler(contacts outreach.ContactRepo, ledger outreach.IdempotencyRepo, provider providers.CrmProvider, log *logger.Logger) jobs.Handler {
	log = log.With("worker", "crm_sync")
	return jobs.HandlerFunc(func(rc jobs.RunContext) ([]byte, error) {
		var params CrmSyncParams
		if err := json.Unmarshal(rc.Params, &params); err != nil {
			return nil, fmt.Errorf("crm_sync: decode params: %w", err)
		}

		dbc := dbctx.Bare(rc.Ctx)
		result := CrmSyncResult{}

		const batchSize = 100
		for start := 0; start < len(params.ContactIDs); start += batchSize {
			if rc.Cancelled() {
				return nil, fmt.Errorf("crm_sync: cancelled after %d/%d contacts", start, len(params.ContactIDs))
			}

			end := start + batchSize
			if end > len(params.ContactIDs) {
				end = len(params.ContactIDs)
			}
			idBatch := params.ContactIDs[start:end]

			var records []providers.CrmRecord
			for _, id := range idBatch {
				contact, err := contacts.GetByID(dbc, id)
				if err != nil || contact == nil {
					result.Failed++
					if !params.ContinueOnError {
						return nil, fmt.Errorf("crm_sync: load contact %s: %w", id, err)
					}
					continue
				}
				records = append(records, providers.CrmRecord{
					Email:   contact.Email,
					Name:    contact.Name,
					Company: contact.Company,
					Title:   contact.Title,
				})
			}
			if len(records) == 0 {
				continue
			}

			upserted, err := provider.Upsert(rc.Ctx, records)
			if err != nil {
				result.Failed += len(records)
				if !params.ContinueOnError {
					return nil, fmt.Errorf("crm_sync: upsert batch: %w", err)
				}
				log.Warn("crm batch upsert failed, continuing", "error", err.Error(), "batch_size", len(records))
				continue
			}

			for _, u := range upserted {
				raw, _ := json.Marshal(u)
				if _, err := ledger.Put(dbc, crmSyncLedgerOperation, u.ExternalID, datatypes.JSON(raw)); err != nil {
					log.Warn("crm sync ledger write failed", "external_id", u.ExternalID, "error", err.Error())
				}
			}

			result.Synced += len(upserted)
			log.Info("crm batch synced", "count", len(upserted))
			rc.Progress(float64(end) / float64(len(params.ContactIDs)) * 100)
		}

		rc.Progress(100)
		return json.Marshal(result)
	})
}
