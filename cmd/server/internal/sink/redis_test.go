package sink

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/believe-gautam/yahooliveticker/pkg/models"
)

func TestRedisSink_Publish(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisSink(rdb)

	sub := rdb.Subscribe(context.Background(), "prices.AAPL")
	defer sub.Close()
	// Wait for the subscription to be established before publishing.
	if _, err := sub.Receive(context.Background()); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	q := models.Quote{ID: "AAPL", Price: 151.25, DayHigh: 152, DayLow: 149, DayVolume: 1000, Currency: "USD"}
	if err := s.Publish(context.Background(), q); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	// Last-value key holds the serialized quote with a TTL.
	raw, err := mr.Get("stock:AAPL")
	if err != nil {
		t.Fatalf("Expected cached quote: %v", err)
	}
	var cached models.Quote
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		t.Fatalf("Cached payload is not a quote: %v", err)
	}
	if cached.Price != q.Price {
		t.Errorf("Cached price = %f, want %f", cached.Price, q.Price)
	}
	if mr.TTL("stock:AAPL") != cacheTTL {
		t.Errorf("Cached quote TTL = %v, want %v", mr.TTL("stock:AAPL"), cacheTTL)
	}

	// The same payload goes out on the pub/sub channel.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	msg, err := sub.ReceiveMessage(ctx)
	if err != nil {
		t.Fatalf("Expected published message: %v", err)
	}
	if msg.Payload != raw {
		t.Errorf("Published payload differs from cached: %s vs %s", msg.Payload, raw)
	}
}
