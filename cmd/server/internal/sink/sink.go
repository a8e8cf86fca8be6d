package sink

import (
	"context"

	"github.com/believe-gautam/yahooliveticker/pkg/models"
)

// Sink receives every quote the hub broadcasts, for consumers outside the
// WebSocket path (last-value caches, downstream pipelines). Publish failures
// are reported to the caller but must never be fatal.
type Sink interface {
	Publish(ctx context.Context, q models.Quote) error
	Close() error
}
