package worker

import (
	"context"
	"errors"

	"github.com/bytedance/sonic"
	"github.com/gigmarket/gigmarket/internal/modules/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClickApplier is satisfied by service.ProjectService.
type ClickApplier interface {
	ApplyClick(ctx context.Context, id uuid.UUID) error
}

// Deliveries is satisfied by *mq.Consumer.
type Deliveries interface {
	Handle(ctx context.Context, handler func(context.Context, []byte) error) error
}

type ClickWorker struct {
	projects ClickApplier
	log      *zap.Logger
}

func NewClickWorker(projects ClickApplier, log *zap.Logger) *ClickWorker {
	return &ClickWorker{projects: projects, log: log}
}

// Run consumes click events until ctx is done.
func (w *ClickWorker) Run(ctx context.Context, in Deliveries) error {
	err := in.Handle(ctx, w.HandleMessage)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// HandleMessage applies one click. Malformed payloads and clicks on deleted
// projects are acknowledged and dropped; other errors requeue.
func (w *ClickWorker) HandleMessage(ctx context.Context, body []byte) error {
	var ev service.ProjectClickEvent
	if err := sonic.Unmarshal(body, &ev); err != nil || ev.ProjectID == uuid.Nil {
		w.log.Warn("drop malformed click event", zap.ByteString("body", body), zap.Error(err))
		return nil
	}

	err := w.projects.ApplyClick(ctx, ev.ProjectID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrNotFound):
		w.log.Info("click on missing project", zap.String("project_id", ev.ProjectID.String()))
		return nil
	default:
		return err
	}
}
