package notify

import (
	"context"

	"github.com/treonstudio/Manajemen-Rental-V1-sub000/pkg/logger"
)

// LogDispatcher writes notifications to the service log instead of a broker.
type LogDispatcher struct {
	log *logger.Logger
}

func NewLogDispatcher(log *logger.Logger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Dispatch(_ context.Context, n Notification) error {
	d.log.Info("Notification",
		"event", n.Event,
		"key", n.Key(),
		"message", Render(n),
	)
	return nil
}
