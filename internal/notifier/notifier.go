// Package notifier hands attendance notifications to the external delivery
// system. The in-process implementation only records the event; actual
// delivery (push, email) is owned by a downstream collaborator.
package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/alsadi22/swaedfirebase-sub001/internal/domain"
)

type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger,
	}
}

func (n *LogNotifier) Notify(ctx context.Context, notification domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.logger.Info("attendance notification",
		zap.String("id", notification.ID),
		zap.String("type", string(notification.Type)),
		zap.Uint("event_id", notification.EventID),
		zap.Uint("volunteer_id", notification.VolunteerID),
		zap.Time("timestamp", notification.Timestamp),
	)

	return nil
}
