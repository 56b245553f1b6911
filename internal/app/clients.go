package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/neurobridge-backend/internal/observability"
	"github.com/yungbote/neurobridge-backend/internal/platform/aigen"
	"github.com/yungbote/neurobridge-backend/internal/platform/logger"
	"github.com/yungbote/neurobridge-backend/internal/platform/secrets"
	"github.com/yungbote/neurobridge-backend/internal/providers"
	"github.com/yungbote/neurobridge-backend/internal/webhook"
)

// clients holds every external-edge dependency: outreach channel providers,
// the generation client behind the conversational responder, the secrets
// backend, the webhook signature-verifier registry, and (if REDIS_URL is
// set) a shared Redis client backing the responder's multi-process rate
// tracker.
type clients struct {
	providers *providers.Clients
	generator aigen.Generator
	secrets   secrets.Store
	webhooks  *webhook.Registry
	metrics   *observability.Metrics
	redis     *redis.Client
}

func buildClients(cfg Config, log *logger.Logger) (*clients, error) {
	metrics := observability.Init()

	store, err := secrets.NewStore(cfg.SecretsStore)
	if err != nil {
		return nil, fmt.Errorf("app: secrets store: %w", err)
	}

	providerClients, err := providers.NewClientsFromEnv(log, metrics)
	if err != nil {
		return nil, fmt.Errorf("app: provider clients: %w", err)
	}

	generator, err := aigen.NewFromEnv(log)
	if err != nil {
		return nil, fmt.Errorf("app: generation client: %w", err)
	}

	registry := webhook.NewRegistry()
	if cfg.WebhookSendgridSecret != "" {
		registry.Register("sendgrid", webhook.NewSendgridVerifier(cfg.WebhookSendgridSecret))
	}
	if cfg.WebhookGenericSecret != "" {
		registry.Register("generic", webhook.NewGenericVerifier("generic", cfg.WebhookGenericSecret, cfg.WebhookGenericHeader))
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("app: redis url: %w", err)
		}
		redisClient = redis.NewClient(opts)
	}

	return &clients{
		providers: providerClients,
		generator: generator,
		secrets:   store,
		webhooks:  registry,
		metrics:   metrics,
		redis:     redisClient,
	}, nil
}
