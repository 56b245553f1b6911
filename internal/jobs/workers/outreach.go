package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/outreach"
	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/idempotency"
	"github.com/yungbote/neurobridge-backend/internal/jobs"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/providers"
	"github.com/yungbote/neurobridge-backend/internal/quality"
)

type OutreachEnrolParams struct {
	InstanceID uuid.UUID   `json:"instance_id"`
	ContactIDs []uuid.UUID `json:"contact_ids"`
	Channel    string      `json:"channel"`
	Subject    string      `json:"subject,omitempty"`
	Body       string      `json:"body"`
	Stage      int         `json:"stage"`
}

type OutreachEnrolResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type sendRecord struct {
	ProviderMessageID string `json:"provider_message_id"`
	Status            string `json:"status"`
}

// NewOutreachEnrolHandler drives one stage's send for a batch of
// (contact, campaign instance) pairs. Per pair: findOrCreate the Enrolment
// (the unique index makes this safe under concurrent claims), score it
// through the quality gate (a block recommendation skips the pair), then
// check the idempotency store keyed by (instance, enrolment, stage); if
// absent, send via the active channel provider and persist the idempotency
// record with the returned provider message id, followed by the outcome row
// and the enrolment state. Because FindOrCreate is itself safe to retry, a
// crash between send and record-write at worst repeats a send on retry,
// matching the contract's stated risk.
func NewOutreachEnrolHandler(
	contacts outreach.ContactRepo,
	enrolments outreach.EnrolmentRepo,
	outcomes outreach.OutreachOutcomeRepo,
	idemp *idempotency.Service,
	gate *quality.Gate,
	email providers.EmailProvider,
	linkedin providers.LinkedInProvider,
) jobs.Handler {
	return jobs.HandlerFunc(func(rc jobs.RunContext) ([]byte, error) {
		var params OutreachEnrolParams
		if err := json.Unmarshal(rc.Params, &params); err != nil {
			return nil, fmt.Errorf("outreach_enrol: decode params: %w", err)
		}

		dbc := dbctx.Bare(rc.Ctx)
		result := OutreachEnrolResult{}

		for i, contactID := range params.ContactIDs {
			if rc.Cancelled() {
				return nil, fmt.Errorf("outreach_enrol: cancelled after %d/%d contacts", i, len(params.ContactIDs))
			}

			contact, err := contacts.GetByID(dbc, contactID)
			if err != nil || contact == nil {
				result.Failed++
				continue
			}

			enrolment, _, err := enrolments.FindOrCreate(dbc, params.InstanceID, contactID)
			if err != nil {
				result.Failed++
				continue
			}

			score := gate.ScoreOutreach(rc.Ctx, quality.ScoreInput{
				Contact: quality.Contact{
					Email:       contact.Email,
					Title:       contact.Title,
					Company:     contact.Company,
					Phone:       contact.Phone,
					LinkedInURL: contact.LinkedInURL,
				},
				Message: quality.Message{Subject: params.Subject, Body: params.Body},
				Timing:  quality.Timing{Now: time.Now(), LastTouchAt: enrolment.UpdatedAt},
			})
			if score.Recommendation == quality.RecommendationBlock {
				result.Skipped++
				continue
			}

			key := idempotency.Key(params.InstanceID, enrolment.ID, params.Stage)
			out, alreadyDone, err := idemp.Execute(dbc, "outreach_send", key, func() (interface{}, error) {
				sent, sendErr := sendMessage(rc.Ctx, params.Channel, params.Subject, params.Body, contact, email, linkedin)
				if sendErr != nil {
					return nil, sendErr
				}
				return sendRecord{ProviderMessageID: sent.ProviderMessageID, Status: sent.Status}, nil
			})
			if err != nil {
				result.Failed++
				continue
			}
			if alreadyDone {
				result.Skipped++
				continue
			}

			providerMessageID := ""
			if rec, ok := out.(map[string]interface{}); ok {
				providerMessageID, _ = rec["provider_message_id"].(string)
			}

			if _, err := outcomes.Create(dbc, &domain.OutreachOutcome{
				EnrolmentID:       enrolment.ID,
				TemplateUsed:      fmt.Sprintf("stage_%d", params.Stage),
				SubjectLine:       params.Subject,
				ProviderMessageID: providerMessageID,
			}); err != nil {
				result.Failed++
				continue
			}
			if err := enrolments.UpdateState(dbc, enrolment.ID, domain.EnrolmentStateActive); err != nil {
				result.Failed++
				continue
			}

			result.Sent++
			rc.Progress(float64(i+1) / float64(len(params.ContactIDs)) * 100)
		}

		rc.Progress(100)
		return json.Marshal(result)
	})
}

func sendMessage(ctx context.Context, channel, subject, body string, contact *domain.Contact, email providers.EmailProvider, linkedin providers.LinkedInProvider) (*providers.SendResult, error) {
	switch channel {
	case domain.CampaignChannelLinkedIn:
		if linkedin == nil {
			return nil, fmt.Errorf("outreach_enrol: no linkedin provider configured")
		}
		return linkedin.SendMessage(ctx, providers.LinkedInMessage{ProfileURL: contact.LinkedInURL, Body: body})
	default:
		if email == nil {
			return nil, fmt.Errorf("outreach_enrol: no email provider configured")
		}
		return email.SendEmail(ctx, providers.EmailMessage{
			ToEmail:  contact.Email,
			ToName:   contact.Name,
			Subject:  subject,
			TextBody: body,
		})
	}
}
