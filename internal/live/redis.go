package live

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type invalidation struct {
	Tables []string `json:"tables"`
}

// RedisNotifier fans invalidations out to every API replica over a Redis
// pub/sub channel. Each replica runs Start to feed its own hub, including
// the replica that published.
type RedisNotifier struct {
	rdb     *redis.Client
	channel string
	log     *zap.Logger
}

func NewRedisNotifier(rdb *redis.Client, channel string, log *zap.Logger) *RedisNotifier {
	return &RedisNotifier{rdb: rdb, channel: channel, log: log}
}

func (n *RedisNotifier) Notify(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	b, err := sonic.Marshal(invalidation{Tables: tables})
	if err != nil {
		return err
	}
	return n.rdb.Publish(ctx, n.channel, b).Err()
}

// Start subscribes to the channel and returns once the subscription is
// confirmed. Messages are applied to hub until ctx is done.
func (n *RedisNotifier) Start(ctx context.Context, hub *Hub) error {
	ps := n.rdb.Subscribe(ctx, n.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return err
	}

	go func() {
		defer ps.Close()
		ch := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var inv invalidation
				if err := sonic.UnmarshalString(msg.Payload, &inv); err != nil {
					n.log.Warn("drop malformed invalidation", zap.String("payload", msg.Payload), zap.Error(err))
					continue
				}
				hub.Invalidate(ctx, inv.Tables...)
			}
		}
	}()
	return nil
}
