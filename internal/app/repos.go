package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/integrity-backend/internal/data/repos"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	UserProfile repos.UserProfileRepo
	Progress    repos.ProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		UserProfile: repos.NewUserProfileRepo(db, log),
		Progress:    repos.NewProgressRepo(db, log),
	}
}
