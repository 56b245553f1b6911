package webhook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/outreach"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/providers"
)

// ErrUnresolved signals the event's target outcome row does not exist yet
// (the send that produced it hasn't been recorded), so the caller should
// enqueue it onto the orphaned retry queue instead of dropping it.
var ErrUnresolved = fmt.Errorf("webhook: outcome not resolvable yet")

// ApplyEvent resolves ev against the outreach outcome it describes and
// applies the side effect for its event type. It is the Processor handed
// to the orphaned queue as well as the function invoked synchronously on
// first ingest.
func ApplyEvent(ctx context.Context, outcomes outreach.OutreachOutcomeRepo, ev providers.NormalizedEvent) error {
	if ev.ProviderMessageID == "" {
		return fmt.Errorf("webhook: event missing provider_message_id")
	}
	dbc := dbctx.Bare(ctx)
	outcome, err := outcomes.GetByProviderMessageID(dbc, ev.ProviderMessageID)
	if err != nil {
		return err
	}
	if outcome == nil {
		return ErrUnresolved
	}

	updates := map[string]interface{}{}
	now := ev.OccurredAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	switch strings.ToLower(ev.EventType) {
	case "open", "email_opened":
		updates["open_count"] = outcome.OpenCount + 1
		if outcome.FirstOpenedAt == nil {
			updates["first_opened_at"] = now
		}
	case "click", "email_clicked":
		updates["click_count"] = outcome.ClickCount + 1
	case "reply", "email_replied":
		updates["replied"] = true
		updates["replied_at"] = now
	case "bounce", "email_bounced":
		updates["bounced"] = true
	case "unsubscribe", "email_unsubscribed":
		updates["unsubscribed"] = true
	case "meeting_booked":
		updates["meeting_booked"] = true
	default:
		return fmt.Errorf("webhook: unrecognized event type %q", ev.EventType)
	}

	return outcomes.UpdateFields(dbc, outcome.ID, updates)
}
