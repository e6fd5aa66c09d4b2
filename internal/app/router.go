package app

import (
	"github.com/yungbote/integrity-backend/internal/http"
	"github.com/yungbote/integrity-backend/internal/observability"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:            log,
		ServiceName:    serviceName,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        metrics,

		AuthMiddleware: middleware.Auth,

		HealthHandler:       handlers.Health,
		UserHandler:         handlers.User,
		GamificationHandler: handlers.Gamification,
		ContentHandler:      handlers.Content,
		RealtimeHandler:     handlers.Realtime,
	})
}
