package gamification

import "github.com/google/uuid"

// Member is a directory entry eligible for ranking.
type Member struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
}

// RankingPlayer is a derived row of the ranking snapshot; never authoritative.
type RankingPlayer struct {
	UserID     uuid.UUID `json:"user_id"`
	Name       string    `json:"name"`
	TotalScore int       `json:"total_score"`
	Level      string    `json:"level"`
}
