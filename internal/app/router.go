package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/yungbote/neurobridge-backend/internal/http"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

func buildRouter(log *logger.Logger, c *clients, h *httpHandlers) *gin.Engine {
	return apphttp.NewRouter(apphttp.RouterConfig{
		JobHandler:      h.job,
		CampaignHandler: h.campaign,
		WebhookHandler:  h.webhook,
		AdminDLQHandler: h.dlq,
		HealthHandler:   h.health,
		Metrics:         c.metrics,
		Log:             log,
	})
}
