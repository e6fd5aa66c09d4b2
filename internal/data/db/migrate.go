package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/integrity-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureRankingIndexes(db)
}

// EnsureRankingIndexes adds the indexes the ranking query relies on that struct tags
// cannot express.
func EnsureRankingIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != DriverPostgres {
		return nil
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_user_active_category
		ON "user"(category)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_user_active_category: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_user_progress_total_desc ON user_progress(total_score DESC);`).Error; err != nil {
		return fmt.Errorf("create idx_user_progress_total_desc: %w", err)
	}
	return nil
}
