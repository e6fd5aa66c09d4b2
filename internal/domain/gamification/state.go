package gamification

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// MaxPointsPerEvent bounds a single completion. No game awards more than a few hundred.
const MaxPointsPerEvent = 100_000

var (
	ErrMalformedState   = errors.New("malformed gamification state")
	ErrPointsOutOfRange = errors.New("points out of range")
)

// ValidatePoints accepts 0..MaxPointsPerEvent.
func ValidatePoints(points int) error {
	if points < 0 || points > MaxPointsPerEvent {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrPointsOutOfRange, points, MaxPointsPerEvent)
	}
	return nil
}

// addScore saturates at math.MaxInt so totals never wrap.
func addScore(total, points int) int {
	if points > 0 && total > math.MaxInt-points {
		return math.MaxInt
	}
	return total + points
}

type GameProgress struct {
	GameID     GameID    `json:"game_id"`
	Score      int       `json:"score"`
	Completed  bool      `json:"completed"`
	LastPlayed time.Time `json:"last_played"`
}

type Badge struct {
	ID         BadgeID    `json:"id"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// AggregateState is everything persisted for one user. IntegrityLevel is a cache of
// IntegrityLevel(TotalScore) and is rewritten whenever the score changes.
type AggregateState struct {
	TotalScore     int                     `json:"total_score"`
	IntegrityLevel int                     `json:"integrity_level"`
	GamesProgress  map[GameID]GameProgress `json:"games_progress"`
	Badges         []Badge                 `json:"badges"`
}

// ScoreEvent is one game completion.
type ScoreEvent struct {
	GameID GameID    `json:"game_id"`
	Points int       `json:"points"`
	At     time.Time `json:"at"`
}

// NewAggregateState returns the zero state: no score, no progress, every badge locked.
func NewAggregateState() AggregateState {
	badges := make([]Badge, 0, len(AllBadges))
	for _, id := range AllBadges {
		badges = append(badges, Badge{ID: id})
	}
	return AggregateState{
		GamesProgress: map[GameID]GameProgress{},
		Badges:        badges,
	}
}

func (s AggregateState) Clone() AggregateState {
	cp := AggregateState{
		TotalScore:     s.TotalScore,
		IntegrityLevel: s.IntegrityLevel,
		GamesProgress:  make(map[GameID]GameProgress, len(s.GamesProgress)),
		Badges:         make([]Badge, 0, len(s.Badges)),
	}
	for k, v := range s.GamesProgress {
		cp.GamesProgress[k] = v
	}
	for _, b := range s.Badges {
		if b.UnlockedAt != nil {
			at := *b.UnlockedAt
			b.UnlockedAt = &at
		}
		cp.Badges = append(cp.Badges, b)
	}
	return cp
}

// CompletedGames counts games with Completed set.
func (s *AggregateState) CompletedGames() int {
	n := 0
	for _, gp := range s.GamesProgress {
		if gp.Completed {
			n++
		}
	}
	return n
}

func (s *AggregateState) BadgeUnlocked(id BadgeID) bool {
	for _, b := range s.Badges {
		if b.ID == id {
			return b.Unlocked
		}
	}
	return false
}

// UnlockedBadges lists unlocked badge ids in catalog order.
func (s *AggregateState) UnlockedBadges() []BadgeID {
	out := make([]BadgeID, 0, len(s.Badges))
	for _, b := range s.Badges {
		if b.Unlocked {
			out = append(out, b.ID)
		}
	}
	return out
}

// Unlock flips a badge to unlocked. It reports whether the call changed anything;
// there is no way back to locked.
func (s *AggregateState) Unlock(id BadgeID, at time.Time) bool {
	return s.unlock(id, &at)
}

func (s *AggregateState) unlock(id BadgeID, at *time.Time) bool {
	for i := range s.Badges {
		if s.Badges[i].ID != id {
			continue
		}
		if s.Badges[i].Unlocked {
			return false
		}
		s.Badges[i].Unlocked = true
		s.Badges[i].UnlockedAt = at
		return true
	}
	if !id.Valid() {
		return false
	}
	s.Badges = append(s.Badges, Badge{ID: id, Unlocked: true, UnlockedAt: at})
	return true
}

// ApplyCompletion adds a completion event to the state and evaluates the
// state-derived badge rules. It returns the badges unlocked by this event. Callers
// validate points first; negative points are ignored here so the total never drops.
func (s *AggregateState) ApplyCompletion(ev ScoreEvent) []BadgeID {
	if s.GamesProgress == nil {
		s.GamesProgress = map[GameID]GameProgress{}
	}
	if ev.Points < 0 {
		ev.Points = 0
	}
	s.TotalScore = addScore(s.TotalScore, ev.Points)
	s.IntegrityLevel = IntegrityLevel(s.TotalScore)

	gp, ok := s.GamesProgress[ev.GameID]
	if !ok {
		gp = GameProgress{GameID: ev.GameID}
	}
	gp.Score = addScore(gp.Score, ev.Points)
	gp.Completed = true
	if ev.At.After(gp.LastPlayed) {
		gp.LastPlayed = ev.At
	}
	s.GamesProgress[ev.GameID] = gp

	var unlocked []BadgeID
	for _, rule := range StateRules {
		if s.BadgeUnlocked(rule.Badge) || !rule.Triggered(s) {
			continue
		}
		if s.Unlock(rule.Badge, ev.At) {
			unlocked = append(unlocked, rule.Badge)
		}
	}
	return unlocked
}

// Merge unions unlocked badges from other into s. Scores are left alone.
func (s *AggregateState) Merge(other AggregateState) {
	for _, b := range other.Badges {
		if b.Unlocked {
			s.unlock(b.ID, b.UnlockedAt)
		}
	}
}

// Normalize repairs a decoded state in place: missing badges are added locked, duplicate
// badges collapse (unlocked wins) and the level cache is recomputed. Values no version of
// the schema could produce are rejected with ErrMalformedState.
func (s *AggregateState) Normalize() error {
	if s.TotalScore < 0 {
		return fmt.Errorf("%w: negative total score %d", ErrMalformedState, s.TotalScore)
	}
	games := make(map[GameID]GameProgress, len(s.GamesProgress))
	for id, gp := range s.GamesProgress {
		if !id.Valid() {
			return fmt.Errorf("%w: unknown game %q", ErrMalformedState, id)
		}
		if gp.Score < 0 {
			return fmt.Errorf("%w: negative score for %q", ErrMalformedState, id)
		}
		gp.GameID = id
		games[id] = gp
	}

	seen := make(map[BadgeID]Badge, len(AllBadges))
	for _, b := range s.Badges {
		if !b.ID.Valid() {
			return fmt.Errorf("%w: unknown badge %q", ErrMalformedState, b.ID)
		}
		if prev, ok := seen[b.ID]; ok && prev.Unlocked {
			continue
		}
		seen[b.ID] = b
	}
	badges := make([]Badge, 0, len(AllBadges))
	for _, id := range AllBadges {
		b, ok := seen[id]
		if !ok {
			b = Badge{ID: id}
		}
		badges = append(badges, b)
	}

	s.GamesProgress = games
	s.Badges = badges
	s.IntegrityLevel = IntegrityLevel(s.TotalScore)
	return nil
}
