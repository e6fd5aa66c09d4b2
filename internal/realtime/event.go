package realtime

import "github.com/google/uuid"

type EventType string

const (
	// EventProgress carries the local result of a mutation to the user's other tabs.
	EventProgress EventType = "gamification.progress"
	// EventSync reports a finished background sync attempt.
	EventSync EventType = "gamification.sync"
	// EventRanking carries a refreshed ranking snapshot.
	EventRanking EventType = "gamification.ranking"
)

type Message struct {
	Channel string    `json:"channel"`
	Event   EventType `json:"event"`
	Data    any       `json:"data,omitempty"`
}

// UserChannel is the channel every stream of a user is subscribed to.
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}
