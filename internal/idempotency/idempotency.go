// Package idempotency wraps the (operation,key) -> result store so side
// effects against external providers (sends, CRM upserts, video generation)
// are safe to retry after a crash or a worker re-claim.
package idempotency

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/outreach"
)

type Service struct {
	repo outreach.IdempotencyRepo
}

func NewService(repo outreach.IdempotencyRepo) *Service {
	return &Service{repo: repo}
}

// Key derives an idempotency key from (campaign_id, enrolment_id, stage) per
// the enrolment/outreach send contract.
func Key(campaignID, enrolmentID uuid.UUID, stage int) string {
	return fmt.Sprintf("%s:%s:%d", campaignID, enrolmentID, stage)
}

// Execute runs fn exactly once for (operation,key): if a prior result is
// already recorded it is returned without calling fn; otherwise fn runs and
// its result is recorded before being returned. A concurrent caller racing
// on the same key observes whichever result won the insert.
func (s *Service) Execute(dbc dbctx.Context, operation, key string, fn func() (interface{}, error)) (interface{}, bool, error) {
	existing, err := s.repo.Get(dbc, operation, key)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		var out interface{}
		if len(existing.Result) > 0 {
			if uerr := json.Unmarshal(existing.Result, &out); uerr != nil {
				return nil, false, uerr
			}
		}
		return out, true, nil
	}

	result, fnErr := fn()
	if fnErr != nil {
		return nil, false, fnErr
	}

	raw, merr := json.Marshal(result)
	if merr != nil {
		return nil, false, merr
	}

	rec, perr := s.repo.Put(dbc, operation, key, datatypes.JSON(raw))
	if perr != nil {
		return nil, false, perr
	}

	var out interface{}
	if len(rec.Result) > 0 {
		if uerr := json.Unmarshal(rec.Result, &out); uerr != nil {
			return nil, false, uerr
		}
	}
	return out, false, nil
}
