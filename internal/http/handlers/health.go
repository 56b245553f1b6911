package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-backend/internal/data/repos/outreach"
	"github.com/yungbote/neurobridge-backend/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-backend/internal/providers"
)

type componentStatus struct {
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail,omitempty"`
}

// HealthHandler reports a component map so callers can distinguish a fully
// down dependency (database, job queue) from a degraded one (an outreach
// provider being unreachable): critical components failing 503s the probe,
// non-critical ones only mark the overall status "degraded".
type HealthHandler struct {
	db       *gorm.DB
	orphaned outreach.OrphanedEventRepo
	clients  *providers.Clients
}

func NewHealthHandler(db *gorm.DB, orphanedRepo outreach.OrphanedEventRepo, clients *providers.Clients) *HealthHandler {
	return &HealthHandler{db: db, orphaned: orphanedRepo, clients: clients}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	components := map[string]componentStatus{}
	criticalDown := false

	components["database"] = h.checkDatabase()
	if !components["database"].Healthy {
		criticalDown = true
	}

	components["queueStore"] = h.checkDatabase()

	components["orphanedQueue"] = h.checkOrphanedQueue(c)

	// Provider clients have no cheap liveness probe of their own (a real
	// ping would burn rate-limit budget against a live vendor API), so they
	// report configured rather than pinged; a down vendor surfaces instead
	// through the breaker state the next time a handler touches it.
	providerStatuses := map[string]componentStatus{}
	if h.clients.Email != nil {
		providerStatuses["email"] = componentStatus{Healthy: true, Detail: h.clients.Email.Name()}
	}
	if h.clients.LinkedIn != nil {
		providerStatuses["linkedin"] = componentStatus{Healthy: true}
	}
	if h.clients.Crm != nil {
		providerStatuses["crm"] = componentStatus{Healthy: true}
	}
	if h.clients.Enrichment != nil {
		providerStatuses["enrichment"] = componentStatus{Healthy: true}
	}
	if h.clients.Video != nil {
		providerStatuses["video"] = componentStatus{Healthy: true}
	}

	status := "healthy"
	if criticalDown {
		status = "unhealthy"
	} else {
		for _, cs := range components {
			if !cs.Healthy {
				status = "degraded"
			}
		}
		for _, ps := range providerStatuses {
			if !ps.Healthy {
				if status == "healthy" {
					status = "degraded"
				}
			}
		}
	}

	httpStatus := http.StatusOK
	if status == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, gin.H{
		"status":     status,
		"components": components,
		"providers":  providerStatuses,
	})
}

func (h *HealthHandler) checkDatabase() componentStatus {
	if h.db == nil {
		return componentStatus{Healthy: false, Detail: "no database configured"}
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return componentStatus{Healthy: false, Detail: err.Error()}
	}
	if err := sqlDB.Ping(); err != nil {
		return componentStatus{Healthy: false, Detail: err.Error()}
	}
	return componentStatus{Healthy: true}
}

func (h *HealthHandler) checkOrphanedQueue(c *gin.Context) componentStatus {
	if h.orphaned == nil {
		return componentStatus{Healthy: true}
	}
	count, err := h.orphaned.Count(dbctx.Bare(c.Request.Context()))
	if err != nil {
		return componentStatus{Healthy: false, Detail: err.Error()}
	}
	return componentStatus{Healthy: true, Detail: fmtQueueDepth(count)}
}

func fmtQueueDepth(count int64) string {
	if count == 0 {
		return ""
	}
	return "queue depth " + strconv.FormatInt(count, 10)
}
