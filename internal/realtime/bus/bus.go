package bus

import (
	"context"

	"github.com/yungbote/integrity-backend/internal/realtime"
)

// Bus carries realtime messages between processes so that every instance can deliver
// them to the streams it holds.
type Bus interface {
	Publish(ctx context.Context, msg realtime.Message) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error
	Close() error
}
