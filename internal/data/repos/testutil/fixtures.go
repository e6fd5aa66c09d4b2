package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/integrity-backend/internal/domain"
	"github.com/yungbote/integrity-backend/internal/domain/gamification"
	"github.com/yungbote/integrity-backend/internal/domain/user"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, displayName, category string) *types.User {
	tb.Helper()
	if category == "" {
		category = user.CategoryEmployee
	}
	id := uuid.New()
	u := &types.User{
		ID:          id,
		Email:       fmt.Sprintf("%s@example.com", id.String()[:8]),
		DisplayName: displayName,
		Department:  "Compliance",
		Category:    category,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProgress(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, state types.AggregateState) *types.UserProgress {
	tb.Helper()
	row, err := gamification.EncodeState(userID, state)
	if err != nil {
		tb.Fatalf("encode progress: %v", err)
	}
	row.Version = 1
	row.CreatedAt = time.Now().UTC()
	row.UpdatedAt = row.CreatedAt
	if err := tx.WithContext(ctx).Create(row).Error; err != nil {
		tb.Fatalf("seed progress: %v", err)
	}
	return row
}
