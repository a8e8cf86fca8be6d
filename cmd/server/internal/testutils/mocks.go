package testutils

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/segmentio/kafka-go"

	"github.com/believe-gautam/yahooliveticker/cmd/server/internal/protocol"
	"github.com/believe-gautam/yahooliveticker/pkg/models"
)

// MockConn simulates a connected websocket client from the hub's side.
type MockConn struct {
	Mu        sync.Mutex
	Responses []protocol.Response // decoded frames, in delivery order
	Closed    bool
	Dead      bool // Alive() reports false without Close having been called
	FailSends bool // Send returns an error, as a broken transport would
}

func NewMockConn() *MockConn {
	return &MockConn{}
}

func (m *MockConn) Send(b []byte) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if m.FailSends || m.Closed {
		return errors.New("mock transport closed")
	}
	var resp protocol.Response
	if err := json.Unmarshal(b, &resp); err != nil {
		return err
	}
	m.Responses = append(m.Responses, resp)
	return nil
}

func (m *MockConn) Alive() bool {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return !m.Closed && !m.Dead
}

func (m *MockConn) Close() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Closed = true
}

// OfType returns all received responses with the given type.
func (m *MockConn) OfType(t string) []protocol.Response {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	var out []protocol.Response
	for _, resp := range m.Responses {
		if resp.Type == t {
			out = append(out, resp)
		}
	}
	return out
}

func (m *MockConn) Last() protocol.Response {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if len(m.Responses) == 0 {
		return protocol.Response{}
	}
	return m.Responses[len(m.Responses)-1]
}

// MockKafkaWriter records written messages instead of hitting a broker.
type MockKafkaWriter struct {
	Messages   []kafka.Message
	Mu         sync.Mutex
	ShouldFail bool
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.ShouldFail {
		return errors.New("kafka error")
	}
	m.Messages = append(m.Messages, msgs...)
	return nil
}

func (m *MockKafkaWriter) Close() error { return nil }

// MockSink counts publishes and can be made to fail every one of them.
type MockSink struct {
	Mu         sync.Mutex
	Published  []models.Quote
	Attempts   int
	ShouldFail bool
	Closed     bool
}

func (m *MockSink) Publish(ctx context.Context, q models.Quote) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Attempts++
	if m.ShouldFail {
		return errors.New("sink error")
	}
	m.Published = append(m.Published, q)
	return nil
}

func (m *MockSink) Close() error {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.Closed = true
	return nil
}
