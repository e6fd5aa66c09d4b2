package gamification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserProgress is the persisted row behind AggregateState.
type UserProgress struct {
	UserID         uuid.UUID      `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	TotalScore     int            `gorm:"column:total_score;not null;default:0;index" json:"total_score"`
	IntegrityLevel int            `gorm:"column:integrity_level;not null;default:0" json:"integrity_level"`
	GamesProgress  datatypes.JSON `gorm:"column:games_progress" json:"games_progress"`
	Badges         datatypes.JSON `gorm:"column:badges" json:"badges"`

	// Version increases on every write.
	Version int64 `gorm:"column:version;not null;default:0" json:"version"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (UserProgress) TableName() string { return "user_progress" }

// EncodeState serializes a state into a row. Version and timestamps are left to the repo.
func EncodeState(userID uuid.UUID, s AggregateState) (*UserProgress, error) {
	games := s.GamesProgress
	if games == nil {
		games = map[GameID]GameProgress{}
	}
	rawGames, err := json.Marshal(games)
	if err != nil {
		return nil, fmt.Errorf("encode games progress: %w", err)
	}
	badges := s.Badges
	if badges == nil {
		badges = []Badge{}
	}
	rawBadges, err := json.Marshal(badges)
	if err != nil {
		return nil, fmt.Errorf("encode badges: %w", err)
	}
	return &UserProgress{
		UserID:         userID,
		TotalScore:     s.TotalScore,
		IntegrityLevel: IntegrityLevel(s.TotalScore),
		GamesProgress:  datatypes.JSON(rawGames),
		Badges:         datatypes.JSON(rawBadges),
	}, nil
}

// Decode rebuilds the state from a row. Any payload that does not decode into the
// current shape yields an error wrapping ErrMalformedState.
func (p *UserProgress) Decode() (AggregateState, error) {
	s := NewAggregateState()
	s.TotalScore = p.TotalScore
	if len(p.GamesProgress) > 0 {
		games := map[GameID]GameProgress{}
		if err := json.Unmarshal(p.GamesProgress, &games); err != nil {
			return NewAggregateState(), fmt.Errorf("%w: games_progress: %v", ErrMalformedState, err)
		}
		s.GamesProgress = games
	}
	if len(p.Badges) > 0 {
		var badges []Badge
		if err := json.Unmarshal(p.Badges, &badges); err != nil {
			return NewAggregateState(), fmt.Errorf("%w: badges: %v", ErrMalformedState, err)
		}
		s.Badges = badges
	}
	if err := s.Normalize(); err != nil {
		return NewAggregateState(), err
	}
	return s, nil
}

// Salvage keeps what a malformed row still holds: the total_score column, games with
// known ids and non-negative scores, and unlocked known badges. The result passes
// Normalize. Writers use it so a bad payload never lowers a stored total.
func (p *UserProgress) Salvage() AggregateState {
	s := NewAggregateState()
	if p.TotalScore > 0 {
		s.TotalScore = p.TotalScore
	}
	var games map[GameID]GameProgress
	if len(p.GamesProgress) > 0 && json.Unmarshal(p.GamesProgress, &games) == nil {
		for id, gp := range games {
			if !id.Valid() || gp.Score < 0 {
				continue
			}
			gp.GameID = id
			s.GamesProgress[id] = gp
		}
	}
	var badges []Badge
	if len(p.Badges) > 0 && json.Unmarshal(p.Badges, &badges) == nil {
		for _, b := range badges {
			if b.Unlocked && b.ID.Valid() {
				s.unlock(b.ID, b.UnlockedAt)
			}
		}
	}
	s.IntegrityLevel = IntegrityLevel(s.TotalScore)
	return s
}
