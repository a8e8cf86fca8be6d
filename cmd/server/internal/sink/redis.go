package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/believe-gautam/yahooliveticker/pkg/models"
)

const (
	keyPrefix     = "stock:"
	channelPrefix = "prices."
	cacheTTL      = 1 * time.Hour // TTL prevents unbounded memory growth
)

// Compile-time check to ensure RedisSink implements Sink
var _ Sink = (*RedisSink)(nil)

// RedisSink mirrors every quote into Redis: a last-value key for snapshot
// readers and a pub/sub channel for live consumers, written atomically in a
// single pipeline.
type RedisSink struct {
	client *redis.Client
}

func NewRedisSink(client *redis.Client) *RedisSink {
	return &RedisSink{client: client}
}

func (r *RedisSink) Publish(ctx context.Context, q models.Quote) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, keyPrefix+q.ID, payload, cacheTTL)
	pipe.Publish(ctx, channelPrefix+q.ID, payload)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisSink) Close() error {
	return r.client.Close()
}
