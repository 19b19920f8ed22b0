package events

import (
	"fmt"
	"strings"

	"github.com/shifa-s11/board-task/internal/common/config"
	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/events/bus"
)

// Provide returns the NATS bus when nats.url is set and the in-process bus
// otherwise. The cleanup closes whichever bus was built.
func Provide(cfg *config.Config, log *logger.Logger) (bus.EventBus, func() error, error) {
	if strings.TrimSpace(cfg.NATS.URL) != "" {
		natsBus, err := bus.NewNATSEventBus(cfg.NATS, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize NATS event bus: %w", err)
		}
		return natsBus, func() error { natsBus.Close(); return nil }, nil
	}

	memBus := bus.NewMemoryEventBus(log)
	return memBus, func() error { memBus.Close(); return nil }, nil
}
