package app

import (
	"time"

	"github.com/yungbote/integrity-backend/internal/data/db"
	"github.com/yungbote/integrity-backend/internal/domain/user"
	"github.com/yungbote/integrity-backend/internal/observability"
	"github.com/yungbote/integrity-backend/internal/platform/envutil"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
	"github.com/yungbote/integrity-backend/internal/realtime/bus"
)

type Config struct {
	Port           string
	AllowedOrigins []string

	JWTSecretKey   string
	AccessTokenTTL time.Duration

	DB    db.Config
	Redis bus.RedisConfig

	RankingExcludedCategories []string
	SyncTimeout               time.Duration
	SessionIdleTTL            time.Duration
	// CatalogPath points at a YAML catalog replacing the embedded one.
	CatalogPath string
	CatalogSeed uint64

	MetricsEnabled bool
	Otel           observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:           envutil.String("PORT", "8080", log),
		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil, log),

		JWTSecretKey:   envutil.String("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL: envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour, log),

		DB: db.Config{
			Driver:     envutil.String("DB_DRIVER", db.DriverPostgres, log),
			SQLitePath: envutil.String("SQLITE_PATH", "", log),
			Host:       envutil.String("POSTGRES_HOST", "localhost", log),
			Port:       envutil.String("POSTGRES_PORT", "5432", log),
			User:       envutil.String("POSTGRES_USER", "postgres", log),
			Password:   envutil.String("POSTGRES_PASSWORD", "", log),
			Name:       envutil.String("POSTGRES_NAME", "integrity", log),
			SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable", log),
		},
		Redis: bus.RedisConfig{
			Addr:     envutil.String("REDIS_ADDR", "", log),
			Password: envutil.String("REDIS_PASSWORD", "", log),
			Channel:  envutil.String("REDIS_CHANNEL", "integrity:realtime", log),
		},

		RankingExcludedCategories: envutil.List("RANKING_EXCLUDED_CATEGORIES", []string{user.CategorySupplier}, log),
		SyncTimeout:               envutil.Seconds("SYNC_TIMEOUT", 10*time.Second, log),
		SessionIdleTTL:            envutil.Seconds("SESSION_IDLE_TTL", 30*time.Minute, log),
		CatalogPath:               envutil.String("CATALOG_PATH", "", log),
		CatalogSeed:               uint64(envutil.Int("CATALOG_SEED", 0, log)),

		MetricsEnabled: envutil.Bool("METRICS_ENABLED", false, log),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "integrity-backend", log),
			Environment: envutil.String("OTEL_ENVIRONMENT", "development", log),
			Version:     envutil.String("SERVICE_VERSION", "dev", log),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1, log),
		},
	}
}
