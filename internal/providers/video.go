package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
)

type VideoConfig struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

func VideoConfigFromEnv() VideoConfig {
	return VideoConfig{
		APIKey:     envutil.String("VIDEO_API_KEY", ""),
		BaseURL:    envutil.String("VIDEO_BASE_URL", "https://api.synthesia.io"),
		Timeout:    envutil.Duration("VIDEO_TIMEOUT_SECONDS", 60),
		MaxRetries: envutil.Int("VIDEO_MAX_RETRIES", 2),
	}
}

type videoProvider struct {
	adapter *httpAdapter
}

func NewVideoProvider(log *logger.Logger, cfg VideoConfig) VideoProvider {
	adapter := newHTTPAdapter(log, "video", cfg.BaseURL, cfg.Timeout, cfg.MaxRetries, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	})
	return &videoProvider{adapter: adapter}
}

func (p *videoProvider) Name() string { return "video" }

type videoWireRequest struct {
	RecipientName string `json:"recipient_name"`
	Script        string `json:"script"`
	TemplateID    string `json:"template_id,omitempty"`
}

type videoWireResponse struct {
	VideoURL string `json:"video_url"`
	Status   string `json:"status"`
}

func (p *videoProvider) GenerateVideo(ctx context.Context, req VideoRequest) (*VideoResult, error) {
	wire := videoWireRequest{RecipientName: req.RecipientName, Script: req.Script, TemplateID: req.TemplateID}
	var resp videoWireResponse
	if err := p.adapter.do(ctx, "POST", "/v2/videos", wire, &resp); err != nil {
		return nil, err
	}
	return &VideoResult{VideoURL: resp.VideoURL, Status: resp.Status}, nil
}
