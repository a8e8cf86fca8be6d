package sink

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/believe-gautam/yahooliveticker/pkg/models"
)

// KafkaWriter abstracts the output stream
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Compile-time check to ensure KafkaSink implements Sink
var _ Sink = (*KafkaSink)(nil)

// KafkaSink exports every quote to a Kafka topic, keyed by symbol so updates
// for one symbol stay ordered within a partition.
type KafkaSink struct {
	writer KafkaWriter
}

// NewKafkaSink builds a sink over a real broker connection with the
// production writer tuning.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return NewKafkaSinkWithWriter(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
		// Batch writes to reduce network IO; Async keeps the tick loop
		// from ever blocking on the broker.
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
		Async:                  true,
		AllowAutoTopicCreation: true,
	})
}

func NewKafkaSinkWithWriter(writer KafkaWriter) *KafkaSink {
	return &KafkaSink{writer: writer}
}

func (k *KafkaSink) Publish(ctx context.Context, q models.Quote) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(q.ID),
		Value: payload,
	})
}

// Close flushes the write buffer; call it last during shutdown.
func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
