package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/vamshavali-backend/internal/platform/envutil"
	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

const defaultChannel = "vamshavali:relations"

// Invalidation announces that a replica rebuilt its snapshot at Revision.
type Invalidation struct {
	Origin   string    `json:"origin"`
	Revision string    `json:"revision"`
	Version  uint64    `json:"version"`
	At       time.Time `json:"at"`
}

type InvalidationBus interface {
	Publish(ctx context.Context, msg Invalidation) error
	Subscribe(ctx context.Context, onMsg func(m Invalidation)) error
	Origin() string
	Close() error
}

type invalidationBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
	origin  string
}

// NewInvalidationBusFromEnv returns (nil, nil) when REDIS_ADDR is unset.
func NewInvalidationBusFromEnv(log *logger.Logger, origin string) (InvalidationBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		return nil, nil
	}
	ch := envutil.String("REDIS_CHANNEL", defaultChannel)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", ""),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newInvalidationBus(rdb, ch, origin, log), nil
}

func newInvalidationBus(rdb *goredis.Client, channel, origin string, log *logger.Logger) *invalidationBus {
	return &invalidationBus{
		log:     log.With("service", "RedisInvalidationBus", "channel", channel),
		rdb:     rdb,
		channel: channel,
		origin:  origin,
	}
}

func (b *invalidationBus) Origin() string { return b.origin }

func (b *invalidationBus) Publish(ctx context.Context, msg Invalidation) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis invalidation bus not initialized")
	}
	if msg.Origin == "" {
		msg.Origin = b.origin
	}
	if msg.At.IsZero() {
		msg.At = time.Now().UTC()
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// Subscribe delivers messages from other origins until ctx is done. Own
// messages are dropped.
func (b *invalidationBus) Subscribe(ctx context.Context, onMsg func(m Invalidation)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis invalidation bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var msg Invalidation
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					b.log.Warn("bad invalidation payload", "error", err)
					continue
				}
				if msg.Origin != "" && msg.Origin == b.origin {
					continue
				}
				onMsg(msg)
			}
		}
	}()
	return nil
}

func (b *invalidationBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
