package app

import (
	"github.com/yungbote/neurobridge-backend/internal/jobs"
	"github.com/yungbote/neurobridge-backend/internal/orphaned"
	"github.com/yungbote/neurobridge-backend/internal/platform/envutil"
	"github.com/yungbote/neurobridge-backend/internal/responder"
)

// Config is assembled once at startup from the environment and passed down
// explicitly; no package below this one reads os.Getenv directly.
type Config struct {
	LogMode string

	SecretsStore string

	WebhookGenericSecret   string
	WebhookGenericHeader   string
	WebhookSendgridSecret  string

	RedisURL string

	JobPool    jobs.PoolConfig
	Orphaned   orphaned.Config
	Responder  responder.Config

	MetricsEnabled bool
}

func LoadConfig() Config {
	return Config{
		LogMode:      envutil.String("LOG_MODE", "production"),
		SecretsStore: envutil.String("SECRETS_STORE", "env"),

		WebhookGenericSecret:  envutil.String("WEBHOOK_GENERIC_SECRET", ""),
		WebhookGenericHeader:  envutil.String("WEBHOOK_GENERIC_SIGNATURE_HEADER", "X-Webhook-Signature"),
		WebhookSendgridSecret: envutil.String("WEBHOOK_SENDGRID_SECRET", ""),

		RedisURL: envutil.String("REDIS_URL", ""),

		JobPool:   jobs.PoolConfigFromEnv(),
		Orphaned:  orphaned.DefaultConfig(),
		Responder: responder.ConfigFromEnv(),

		MetricsEnabled: envutil.Bool("METRICS_ENABLED", true),
	}
}
