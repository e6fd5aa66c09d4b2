package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/integrity-backend/internal/domain/gamification"
)

// ProgressStore persists AggregateState per user. Get returns (nil, nil) when the user
// has no record and an error wrapping gamification.ErrMalformedState when the stored
// payload cannot be read.
type ProgressStore interface {
	Get(ctx context.Context, userID uuid.UUID) (*gamification.AggregateState, error)
	Upsert(ctx context.Context, userID uuid.UUID, state gamification.AggregateState) error
}

// AtomicProgressStore applies events on the server side. When the configured store
// implements it, sessions send events instead of client-computed totals.
type AtomicProgressStore interface {
	ProgressStore
	ApplyScore(ctx context.Context, userID uuid.UUID, ev gamification.ScoreEvent, unlocked []gamification.BadgeID) error
	UnlockBadges(ctx context.Context, userID uuid.UUID, ids []gamification.BadgeID, at time.Time) error
}

// Directory resolves display names. GetMember returns (nil, nil) for unknown users.
type Directory interface {
	GetMember(ctx context.Context, userID uuid.UUID) (*gamification.Member, error)
}

type ProfileStore interface {
	AvatarRef(ctx context.Context, userID uuid.UUID) (string, error)
}

type RankingSource interface {
	Compute(ctx context.Context) ([]gamification.RankingPlayer, error)
}

type Deps struct {
	Progress  ProgressStore
	Directory Directory
	Profiles  ProfileStore
	Ranking   RankingSource
}
