package app

import (
	"fmt"

	"github.com/yungbote/integrity-backend/internal/platform/logger"
	"github.com/yungbote/integrity-backend/internal/realtime/bus"
)

type Clients struct {
	Bus bus.Bus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis, or an in-process bus when REDIS_ADDR is unset
	b, err := bus.New(cfg.Redis, log)
	if err != nil {
		return Clients{}, fmt.Errorf("init realtime bus: %w", err)
	}
	return Clients{Bus: b}, nil
}

func (c Clients) Close() error {
	if c.Bus == nil {
		return nil
	}
	return c.Bus.Close()
}
