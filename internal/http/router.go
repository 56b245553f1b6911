package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/neurobridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/neurobridge-backend/internal/http/middleware"
	"github.com/yungbote/neurobridge-backend/internal/observability"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type RouterConfig struct {
	JobHandler      *httpH.JobHandler
	CampaignHandler *httpH.CampaignHandler
	WebhookHandler  *httpH.WebhookHandler
	AdminDLQHandler *httpH.AdminDLQHandler
	HealthHandler   *httpH.HealthHandler

	Metrics *observability.Metrics
	Log     *logger.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	if cfg.JobHandler != nil {
		r.POST("/jobs/:type", cfg.JobHandler.SubmitJob)
		r.GET("/jobs/:id", cfg.JobHandler.GetJob)
		r.DELETE("/jobs/:id", cfg.JobHandler.CancelJob)
	}

	if cfg.CampaignHandler != nil {
		r.POST("/campaigns/:id/enrol", cfg.CampaignHandler.Enrol)
	}

	if cfg.WebhookHandler != nil {
		r.POST("/webhooks/:provider", cfg.WebhookHandler.Ingest)
	}

	if cfg.AdminDLQHandler != nil {
		admin := r.Group("/admin")
		admin.GET("/dlq", cfg.AdminDLQHandler.List)
		admin.POST("/dlq/:id/replay", cfg.AdminDLQHandler.Replay)
	}

	return r
}
