package bus

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/integrity-backend/internal/platform/logger"
	"github.com/yungbote/integrity-backend/internal/realtime"
)

func TestMemoryBusForwardsToEveryForwarder(t *testing.T) {
	b := NewMemoryBus()
	t.Cleanup(func() { _ = b.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gotA := make(chan realtime.Message, 1)
	gotB := make(chan realtime.Message, 1)
	if err := b.StartForwarder(ctx, func(m realtime.Message) { gotA <- m }); err != nil {
		t.Fatalf("StartForwarder A: %v", err)
	}
	if err := b.StartForwarder(ctx, func(m realtime.Message) { gotB <- m }); err != nil {
		t.Fatalf("StartForwarder B: %v", err)
	}

	msg := realtime.Message{Channel: "user:x", Event: realtime.EventSync}
	if err := b.Publish(context.Background(), msg); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	for name, ch := range map[string]chan realtime.Message{"A": gotA, "B": gotB} {
		select {
		case m := <-ch:
			if m.Event != realtime.EventSync {
				t.Fatalf("forwarder %s: got %s", name, m.Event)
			}
		case <-time.After(time.Second):
			t.Fatalf("forwarder %s: timed out", name)
		}
	}
}

func TestMemoryBusRejectsAfterClose(t *testing.T) {
	b := NewMemoryBus()
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := b.Publish(context.Background(), realtime.Message{}); err == nil {
		t.Fatalf("Publish after Close: expected error")
	}
}

func TestNewWithoutRedisAddrUsesMemoryBus(t *testing.T) {
	b, err := New(RedisConfig{}, logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := b.(*memoryBus); !ok {
		t.Fatalf("expected memory bus, got %T", b)
	}
	if _, err := NewRedisBus(RedisConfig{}, logger.Nop()); err == nil {
		t.Fatalf("NewRedisBus without address: expected error")
	}
}
