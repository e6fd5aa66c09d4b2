package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/integrity-backend/internal/data/repos/gamification"
	"github.com/yungbote/integrity-backend/internal/data/repos/user"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserProfileRepo = user.UserProfileRepo

type ProgressRepo = gamification.ProgressRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return user.NewUserProfileRepo(db, baseLog)
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return gamification.NewProgressRepo(db, baseLog)
}
