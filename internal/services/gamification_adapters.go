package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/integrity-backend/internal/data/repos"
	types "github.com/yungbote/integrity-backend/internal/domain"
	"github.com/yungbote/integrity-backend/internal/modules/gamification/store"
	"github.com/yungbote/integrity-backend/internal/platform/dbctx"
)

// progressStore exposes ProgressRepo as a store.AtomicProgressStore.
type progressStore struct {
	repo repos.ProgressRepo
}

var _ store.AtomicProgressStore = progressStore{}

func (p progressStore) Get(ctx context.Context, userID uuid.UUID) (*types.AggregateState, error) {
	return p.repo.GetState(dbctx.Of(ctx), userID)
}

func (p progressStore) Upsert(ctx context.Context, userID uuid.UUID, state types.AggregateState) error {
	return p.repo.Upsert(dbctx.Of(ctx), userID, state)
}

func (p progressStore) ApplyScore(ctx context.Context, userID uuid.UUID, ev types.ScoreEvent, unlocked []types.BadgeID) error {
	return p.repo.ApplyScore(dbctx.Of(ctx), userID, ev, unlocked)
}

func (p progressStore) UnlockBadges(ctx context.Context, userID uuid.UUID, ids []types.BadgeID, at time.Time) error {
	return p.repo.UnlockBadges(dbctx.Of(ctx), userID, ids, at)
}

func (p progressStore) TotalScores(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	return p.repo.TotalScores(dbctx.Of(ctx), userIDs)
}

// directory reads members from the user table. The ranking roster leaves out the
// excluded categories; single-member lookups do not.
type directory struct {
	userRepo repos.UserRepo
	excluded []string
}

func (d directory) GetMember(ctx context.Context, userID uuid.UUID) (*types.Member, error) {
	users, err := d.userRepo.GetByIDs(dbctx.Of(ctx), []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &types.Member{UserID: users[0].ID, DisplayName: users[0].DisplayName}, nil
}

func (d directory) ListMembers(ctx context.Context) ([]types.Member, error) {
	users, err := d.userRepo.ListExcludingCategories(dbctx.Of(ctx), d.excluded)
	if err != nil {
		return nil, err
	}
	out := make([]types.Member, 0, len(users))
	for _, u := range users {
		out = append(out, types.Member{UserID: u.ID, DisplayName: u.DisplayName})
	}
	return out, nil
}

type profileStore struct {
	repo repos.UserProfileRepo
}

func (p profileStore) AvatarRef(ctx context.Context, userID uuid.UUID) (string, error) {
	profile, err := p.repo.GetByUserID(dbctx.Of(ctx), userID)
	if err != nil || profile == nil {
		return "", err
	}
	return profile.AvatarURL, nil
}
