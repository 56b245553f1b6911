package workers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/outreach"
	"github.com/yungbote/neurobridge-backend/internal/jobs"
	"github.com/yungbote/neurobridge-backend/internal/orphaned"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/providers"
	"github.com/yungbote/neurobridge-backend/internal/responder"
	"github.com/yungbote/neurobridge-backend/internal/webhook"
)

type EventIngestParams struct {
	Events []providers.NormalizedEvent `json:"events"`
}

type EventIngestResult struct {
	Applied  int `json:"applied"`
	Orphaned int `json:"orphaned"`
	Failed   int `json:"failed"`
}

// NewEventIngestHandler applies a batch of normalised webhook events
// outside the synchronous HTTP ingest path — used for backfills and
// replays. Each event resolves through the same ApplyEvent used by the
// HTTP edge; an unresolved event (target Enrolment not yet visible) is
// pushed onto the orphaned-event queue instead of being dropped. An event
// whose type is exactly "reply" or "email_replied" additionally invokes
// the conversational responder; other spellings such as "replied" are not
// recognised as replies.
func NewEventIngestHandler(outcomes outreach.OutreachOutcomeRepo, queue *orphaned.Queue, resp *responder.Responder, log *logger.Logger) jobs.Handler {
	log = log.With("worker", "event_ingest")
	return jobs.HandlerFunc(func(rc jobs.RunContext) ([]byte, error) {
		var params EventIngestParams
		if err := json.Unmarshal(rc.Params, &params); err != nil {
			return nil, fmt.Errorf("event_ingest: decode params: %w", err)
		}

		result := EventIngestResult{}
		for i, ev := range params.Events {
			if rc.Cancelled() {
				return nil, fmt.Errorf("event_ingest: cancelled after %d/%d events", i, len(params.Events))
			}

			stableID := webhook.StableID(ev.Provider, ev.EventType, ev.ProviderMessageID, ev.OccurredAt)
			if err := webhook.ApplyEvent(rc.Ctx, outcomes, ev); err != nil {
				if errors.Is(err, webhook.ErrUnresolved) {
					if qerr := queue.Enqueue(rc.Ctx, stableID, ev); qerr != nil {
						result.Failed++
						log.Error("failed to enqueue orphaned event", "error", qerr.Error())
						continue
					}
					result.Orphaned++
					continue
				}
				result.Failed++
				log.Warn("event application failed", "error", err.Error(), "event_type", ev.EventType)
				continue
			}

			if ev.EventType == "reply" || ev.EventType == "email_replied" {
				if resp != nil {
					if _, err := resp.HandleInbound(rc.Ctx, responder.InboundEvent{
						LeadEmail: ev.Email,
						Channel:   ev.Provider,
						Body:      rawBody(ev),
					}); err != nil {
						log.Warn("responder handling failed", "error", err.Error())
					}
				}
			}

			result.Applied++
			rc.Progress(float64(i+1) / float64(len(params.Events)) * 100)
		}

		rc.Progress(100)
		return json.Marshal(result)
	})
}

func rawBody(ev providers.NormalizedEvent) string {
	if body, ok := ev.Raw["body"].(string); ok {
		return body
	}
	return ""
}
