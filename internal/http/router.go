package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/integrity-backend/internal/http/handlers"
	httpMW "github.com/yungbote/integrity-backend/internal/http/middleware"
	"github.com/yungbote/integrity-backend/internal/observability"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler       *httpH.HealthHandler
	UserHandler         *httpH.UserHandler
	GamificationHandler *httpH.GamificationHandler
	ContentHandler      *httpH.ContentHandler
	RealtimeHandler     *httpH.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	// User (Me)
	if cfg.UserHandler != nil {
		api.GET("/me", cfg.UserHandler.GetMe)
	}

	gam := api.Group("/gamification")
	if h := cfg.GamificationHandler; h != nil {
		gam.GET("/overview", h.GetOverview)
		gam.POST("/games/:gameId/complete", h.CompleteGame)
		gam.POST("/games/:gameId/session", h.RecordSession)
		gam.POST("/badges/:badgeId/unlock", h.UnlockBadge)
		gam.GET("/ranking", h.GetRanking)
		gam.GET("/sync", h.GetSyncStatus)
		gam.POST("/reload", h.Reload)
	}
	// Realtime (SSE)
	if cfg.RealtimeHandler != nil {
		gam.GET("/events", cfg.RealtimeHandler.Stream)
	}

	if h := cfg.ContentHandler; h != nil {
		content := api.Group("/content")
		content.GET("/games", h.ListGames)
		content.GET("/badges", h.ListBadges)
		content.GET("/quiz", h.GetQuiz)
		content.GET("/whistleblower", h.GetWhistleblowerCases)
		content.GET("/scenarios", h.GetScenarios)
	}

	return r
}
