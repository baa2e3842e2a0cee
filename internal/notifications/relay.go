package notifications

import (
	"context"
	"errors"
	"log/slog"

	"workbench/internal/logging"
	"workbench/internal/notify"
)

// severity orders levels for the relay threshold. Success ranks with info.
func severity(level notify.Level) int {
	switch level {
	case notify.LevelError:
		return 3
	case notify.LevelWarning:
		return 2
	case notify.LevelInfo, notify.LevelSuccess:
		return 1
	default:
		return 0
	}
}

// Relay pushes bus messages at or above a threshold to a Service.
type Relay struct {
	bus     *notify.Bus
	service Service
	min     notify.Level
	logger  *slog.Logger
}

// NewRelay constructs a relay forwarding messages at least as severe as min.
func NewRelay(bus *notify.Bus, service Service, min notify.Level, logger *slog.Logger) *Relay {
	return &Relay{
		bus:     bus,
		service: service,
		min:     min,
		logger:  logging.NewComponentLogger(logger, "notifications"),
	}
}

// Run forwards messages until ctx ends.
func (r *Relay) Run(ctx context.Context) error {
	sub := r.bus.Subscribe()
	defer sub.Close()
	for {
		msg, err := sub.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, notify.ErrClosed) {
				return nil
			}
			return err
		}
		if severity(msg.Level) < severity(r.min) {
			continue
		}
		if err := r.service.Publish(ctx, msg); err != nil {
			logging.WarnWithContext(r.logger, "push notification failed", "ntfy_publish_failed",
				logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic and network access"),
				logging.String(logging.FieldImpact, "supervisors miss this station message"),
				logging.String("level", msg.Level.String()),
				logging.Error(err))
		}
	}
}
