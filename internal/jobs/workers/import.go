// Package workers implements the five outreach pipeline job handlers
// (import, enrichment, CRM sync, outreach enrolment, event ingest),
// registered into jobs.Registry by internal/app.
package workers

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/outreach"
	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/jobs"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
)

// ImportRow is one record of an external contact list; the HTTP edge
// accepts a job submission carrying a batch of these directly rather than
// a file handle, so the worker never touches file I/O itself.
type ImportRow struct {
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	Title       string `json:"title,omitempty"`
	Company     string `json:"company,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

type ImportParams struct {
	Rows      []ImportRow `json:"rows"`
	BatchSize int         `json:"batch_size,omitempty"`
}

type ImportResult struct {
	Received  int `json:"received"`
	Deduped   int `json:"deduped"`
	Inserted  int `json:"inserted"`
	Malformed int `json:"malformed"`
}

const importDefaultBatchSize = 500

// NewImportHandler validates email syntax, deduplicates within the
// submitted batch by lowercase email, and inserts each batch with one
// ContactRepo.UpsertBatch call (ON CONFLICT DO NOTHING semantics).
// Progress is reported per batch; a persistence error aborts the job, and
// batches inserted before the failing one stay committed.
func NewImportHandler(contacts outreach.ContactRepo) jobs.Handler {
	return jobs.HandlerFunc(func(rc jobs.RunContext) ([]byte, error) {
		var params ImportParams
		if err := json.Unmarshal(rc.Params, &params); err != nil {
			return nil, fmt.Errorf("import: decode params: %w", err)
		}
		batchSize := params.BatchSize
		if batchSize <= 0 {
			batchSize = importDefaultBatchSize
		}

		result := ImportResult{Received: len(params.Rows)}
		seen := map[string]bool{}
		var batch []*domain.Contact

		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			n, err := contacts.UpsertBatch(dbctx.Bare(rc.Ctx), batch)
			if err != nil {
				return fmt.Errorf("import: batch insert: %w", err)
			}
			result.Inserted += int(n)
			batch = batch[:0]
			return nil
		}

		for i, row := range params.Rows {
			if rc.Cancelled() {
				return nil, fmt.Errorf("import: cancelled after %d/%d rows", i, len(params.Rows))
			}

			email := strings.ToLower(strings.TrimSpace(row.Email))
			if _, err := mail.ParseAddress(email); err != nil {
				result.Malformed++
				continue
			}
			if seen[email] {
				result.Deduped++
				continue
			}
			seen[email] = true

			batch = append(batch, &domain.Contact{
				Email:       email,
				Name:        row.Name,
				Title:       row.Title,
				Company:     row.Company,
				LinkedInURL: row.LinkedInURL,
				Phone:       row.Phone,
			})

			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return nil, err
				}
				rc.Progress(float64(i+1) / float64(len(params.Rows)) * 100)
			}
		}
		if err := flush(); err != nil {
			return nil, err
		}
		rc.Progress(100)

		return json.Marshal(result)
	})
}
