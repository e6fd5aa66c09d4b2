package app

import (
	"fmt"
	"os"

	"github.com/yungbote/integrity-backend/internal/modules/gamification/catalog"
	"github.com/yungbote/integrity-backend/internal/observability"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
	"github.com/yungbote/integrity-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Identity     services.IdentityService
	Gamification services.GamificationService
	Content      services.ContentService
}

func wireServices(log *logger.Logger, cfg Config, repos Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return Services{}, err
	}

	notifier := services.NewGamificationNotifier(log, clients.Bus, metrics)
	return Services{
		Auth:     services.NewAuthService(log, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Identity: services.NewIdentityService(log, repos.User, repos.UserProfile),
		Gamification: services.NewGamificationService(
			log,
			services.GamificationConfig{
				ExcludedCategories: cfg.RankingExcludedCategories,
				SyncTimeout:        cfg.SyncTimeout,
				SessionIdleTTL:     cfg.SessionIdleTTL,
				Metrics:            metrics,
			},
			repos.User,
			repos.UserProfile,
			repos.Progress,
			notifier,
		),
		Content: services.NewContentService(log, cat, cfg.CatalogSeed),
	}, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	cat, err := catalog.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return cat, nil
}
