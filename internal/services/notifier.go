package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/integrity-backend/internal/domain"
	"github.com/yungbote/integrity-backend/internal/modules/gamification/ranking"
	"github.com/yungbote/integrity-backend/internal/modules/gamification/store"
	"github.com/yungbote/integrity-backend/internal/observability"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
	"github.com/yungbote/integrity-backend/internal/realtime"
	"github.com/yungbote/integrity-backend/internal/realtime/bus"
)

const publishTimeout = 2 * time.Second

// GamificationNotifier pushes session changes to the user's open streams.
type GamificationNotifier interface {
	Progress(userID uuid.UUID, update store.Update)
	Synced(userID uuid.UUID, status store.SyncStatus)
	RankingChanged(userID uuid.UUID, players []types.RankingPlayer)
}

type busNotifier struct {
	log     *logger.Logger
	bus     bus.Bus
	metrics *observability.Metrics
}

func NewGamificationNotifier(log *logger.Logger, b bus.Bus, metrics *observability.Metrics) GamificationNotifier {
	return &busNotifier{log: log.With("service", "GamificationNotifier"), bus: b, metrics: metrics}
}

func (n *busNotifier) Progress(userID uuid.UUID, update store.Update) {
	n.publish(realtime.Message{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.EventProgress,
		Data:    update,
	})
}

func (n *busNotifier) Synced(userID uuid.UUID, status store.SyncStatus) {
	n.publish(realtime.Message{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.EventSync,
		Data:    status,
	})
}

func (n *busNotifier) RankingChanged(userID uuid.UUID, players []types.RankingPlayer) {
	n.publish(realtime.Message{
		Channel: realtime.UserChannel(userID),
		Event:   realtime.EventRanking,
		Data: map[string]any{
			"players":  players,
			"position": ranking.Position(players, userID),
		},
	})
}

func (n *busNotifier) publish(msg realtime.Message) {
	if n.bus == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	err := n.bus.Publish(ctx, msg)
	n.metrics.ObservePublish(string(msg.Event), err)
	if err != nil {
		n.log.Warn("Realtime publish failed", "event", msg.Event, "error", err)
	}
}
