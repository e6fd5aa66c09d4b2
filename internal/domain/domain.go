package domain

import (
	"github.com/yungbote/integrity-backend/internal/domain/gamification"
	"github.com/yungbote/integrity-backend/internal/domain/user"
)

type User = user.User
type UserProfile = user.UserProfile

type UserProgress = gamification.UserProgress
type AggregateState = gamification.AggregateState
type GameProgress = gamification.GameProgress
type Badge = gamification.Badge
type GameID = gamification.GameID
type BadgeID = gamification.BadgeID
type ScoreEvent = gamification.ScoreEvent
type Member = gamification.Member
type RankingPlayer = gamification.RankingPlayer

// Models lists every table the service owns, in migration order.
func Models() []any {
	return []any{
		&User{},
		&UserProfile{},
		&UserProgress{},
	}
}
