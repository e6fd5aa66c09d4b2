// Package ranking builds the ranking snapshot. Every call recomputes from the full
// roster; with one score read per member this is sized for hundreds of users.
package ranking

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/yungbote/integrity-backend/internal/domain/gamification"
)

// Compute ranks every roster member exactly once. Members without a score get 0, the
// result is sorted by score descending and ties keep roster order.
func Compute(roster []gamification.Member, scores map[uuid.UUID]int) []gamification.RankingPlayer {
	players := make([]gamification.RankingPlayer, 0, len(roster))
	for _, m := range roster {
		total := scores[m.UserID]
		players = append(players, gamification.RankingPlayer{
			UserID:     m.UserID,
			Name:       m.DisplayName,
			TotalScore: total,
			Level:      gamification.LevelTitle(total),
		})
	}
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].TotalScore > players[j].TotalScore
	})
	return players
}

// Position is the 1-based rank of userID, or len(players)+1 when absent.
func Position(players []gamification.RankingPlayer, userID uuid.UUID) int {
	for i, p := range players {
		if p.UserID == userID {
			return i + 1
		}
	}
	return len(players) + 1
}

type Roster interface {
	ListMembers(ctx context.Context) ([]gamification.Member, error)
}

type ScoreReader interface {
	TotalScores(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

// StateGetter is the single-user read of a progress store.
type StateGetter interface {
	Get(ctx context.Context, userID uuid.UUID) (*gamification.AggregateState, error)
}

type storeScores struct {
	store StateGetter
}

// ScoresFromStore adapts a store without bulk reads; it issues one Get per user.
func ScoresFromStore(store StateGetter) ScoreReader {
	return storeScores{store: store}
}

func (s storeScores) TotalScores(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(userIDs))
	for _, id := range userIDs {
		st, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("read progress for %s: %w", id, err)
		}
		if st != nil {
			out[id] = st.TotalScore
		}
	}
	return out, nil
}

type Aggregator struct {
	Roster Roster
	Scores ScoreReader
}

func (a Aggregator) Compute(ctx context.Context) ([]gamification.RankingPlayer, error) {
	roster, err := a.Roster.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(roster))
	for _, m := range roster {
		ids = append(ids, m.UserID)
	}
	scores, err := a.Scores.TotalScores(ctx, ids)
	if err != nil {
		return nil, err
	}
	return Compute(roster, scores), nil
}
