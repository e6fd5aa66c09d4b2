package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/integrity-backend/internal/realtime"
)

// memoryBus delivers messages within the process. It serves single-instance
// deployments and tests.
type memoryBus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]func(realtime.Message)
	closed   bool
}

func NewMemoryBus() Bus {
	return &memoryBus{handlers: make(map[int]func(realtime.Message))}
}

func (b *memoryBus) Publish(ctx context.Context, msg realtime.Message) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return fmt.Errorf("memory realtime bus closed")
	}
	handlers := make([]func(realtime.Message), 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(msg)
	}
	return nil
}

func (b *memoryBus) StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("memory realtime bus closed")
	}
	id := b.nextID
	b.nextID++
	b.handlers[id] = onMsg
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}()
	return nil
}

func (b *memoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[int]func(realtime.Message))
	return nil
}
