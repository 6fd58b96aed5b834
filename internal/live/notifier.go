package live

import (
	"context"
)

// Notifier announces that tables changed. Services call it after every
// successful mutation.
type Notifier interface {
	Notify(ctx context.Context, tables ...string) error
}

// LocalNotifier invalidates an in-process hub. Re-evaluation runs in the
// background so the mutating request does not wait on subscribers.
type LocalNotifier struct {
	hub *Hub
}

func NewLocalNotifier(hub *Hub) *LocalNotifier {
	return &LocalNotifier{hub: hub}
}

func (n *LocalNotifier) Notify(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	go n.hub.Invalidate(context.WithoutCancel(ctx), tables...)
	return nil
}

type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, ...string) error { return nil }
