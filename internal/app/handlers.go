package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/integrity-backend/internal/http/handlers"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
	"github.com/yungbote/integrity-backend/internal/realtime"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	User         *httpH.UserHandler
	Gamification *httpH.GamificationHandler
	Content      *httpH.ContentHandler
	Realtime     *httpH.RealtimeHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services, hub *realtime.Hub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(map[string]httpH.Pinger{
			"database": func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
		}),
		User:         httpH.NewUserHandler(services.Identity),
		Gamification: httpH.NewGamificationHandler(log, services.Gamification),
		Content:      httpH.NewContentHandler(services.Content),
		Realtime:     httpH.NewRealtimeHandler(log, hub),
	}
}
