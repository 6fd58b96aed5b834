package service

import (
	"context"
	"time"

	"github.com/gigmarket/gigmarket/internal/live"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher is satisfied by *mq.Publisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, exchangeName string, routingKey string, body any) error
}

type ProjectClickEvent struct {
	ProjectID uuid.UUID `json:"project_id"`
	At        time.Time `json:"at"`
}

// notify announces changed tables. A failed notification only delays live
// subscribers, so it is logged rather than returned.
func notify(ctx context.Context, n live.Notifier, log *zap.Logger, tables ...string) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, tables...); err != nil {
		log.Warn("live notify failed", zap.Strings("tables", tables), zap.Error(err))
	}
}
