package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
	"github.com/yungbote/neurobridge-backend/internal/http/response"
	"github.com/yungbote/neurobridge-backend/internal/orphaned"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/webhook"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/outreach"
)

type WebhookHandler struct {
	registry *webhook.Registry
	outcomes outreach.OutreachOutcomeRepo
	queue    *orphaned.Queue
	log      *logger.Logger
}

func NewWebhookHandler(registry *webhook.Registry, outcomes outreach.OutreachOutcomeRepo, queue *orphaned.Queue, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{registry: registry, outcomes: outcomes, queue: queue, log: log.With("component", "WebhookHandler")}
}

// POST /webhooks/:provider
func (h *WebhookHandler) Ingest(c *gin.Context) {
	provider := c.Param("provider")
	verifier, ok := h.registry.Get(provider)
	if !ok {
		response.RespondError(c, http.StatusNotFound, "unknown_provider", nil)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "body_read_failed", err)
		return
	}

	headers := map[string]string{}
	for k := range c.Request.Header {
		headers[k] = c.Request.Header.Get(k)
	}

	if err := verifier.Verify(headers, body); err != nil {
		response.RespondError(c, http.StatusUnauthorized, "signature_invalid", err)
		return
	}

	events, err := verifier.Decode(body)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "decode_failed", err)
		return
	}

	ctx := c.Request.Context()
	for _, ev := range events {
		stableID := webhook.StableID(ev.Provider, ev.EventType, ev.ProviderMessageID, ev.OccurredAt)
		if err := webhook.ApplyEvent(ctx, h.outcomes, ev); err != nil {
			if errors.Is(err, webhook.ErrUnresolved) {
				if qerr := h.queue.Enqueue(ctx, stableID, ev); qerr != nil {
					h.log.Error("failed to enqueue orphaned webhook event", "error", qerr.Error())
				}
				continue
			}
			h.log.Warn("webhook event application failed", "error", err.Error(), "event_type", ev.EventType)
			continue
		}
	}

	c.Status(http.StatusAccepted)
}

type AdminDLQHandler struct {
	dlq      outreach.DeadLetterEventRepo
	orphaned outreach.OrphanedEventRepo
}

func NewAdminDLQHandler(dlq outreach.DeadLetterEventRepo, orphanedRepo outreach.OrphanedEventRepo) *AdminDLQHandler {
	return &AdminDLQHandler{dlq: dlq, orphaned: orphanedRepo}
}

// GET /admin/dlq
func (h *AdminDLQHandler) List(c *gin.Context) {
	rows, err := h.dlq.List(dbctx.Bare(c.Request.Context()), 100)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "dlq_list_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"events": rows})
}

// POST /admin/dlq/:id/replay
func (h *AdminDLQHandler) Replay(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}

	dbc := dbctx.Bare(c.Request.Context())
	row, err := h.dlq.GetByID(dbc, id)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "dlq_lookup_failed", err)
		return
	}
	if row == nil {
		response.RespondError(c, http.StatusNotFound, "dlq_event_not_found", nil)
		return
	}

	now := time.Now()
	replay := &domain.OrphanedEvent{
		StableID:    row.StableID,
		EventData:   datatypes.JSON(row.EventData),
		Attempts:    0,
		NextRetryAt: now,
		QueuedAt:    now,
	}
	if _, err := h.orphaned.Enqueue(dbc, replay); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "dlq_replay_failed", err)
		return
	}
	if err := h.dlq.UpdateStatus(dbc, id, domain.DLQStatusReplayed); err != nil {
		response.RespondError(c, http.StatusInternalServerError, "dlq_status_update_failed", err)
		return
	}

	c.Status(http.StatusAccepted)
}
