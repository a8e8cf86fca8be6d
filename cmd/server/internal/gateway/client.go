package gateway

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"go.uber.org/zap"

	"github.com/believe-gautam/yahooliveticker/cmd/server/internal/hub"
)

const (
	maxMessageSize = 512 * 1024
)

// ErrClientGone is returned by Send once the adapter has been closed.
var ErrClientGone = errors.New("client connection closed")

// ClientAdapter bridges one raw WebSocket connection to the hub. Writes go
// through a buffered channel so the hub never blocks on a slow client.
type ClientAdapter struct {
	conn   net.Conn
	hub    *hub.Hub
	id     string
	send   chan []byte
	logger *zap.Logger

	mu     sync.Mutex
	closed bool

	writeWait  time.Duration
	pongWait   time.Duration
	pingPeriod time.Duration
}

func NewClient(conn net.Conn, h *hub.Hub, logger *zap.Logger) *ClientAdapter {
	return &ClientAdapter{
		conn:       conn,
		hub:        h,
		send:       make(chan []byte, 256),
		logger:     logger,
		writeWait:  5 * time.Second,
		pongWait:   60 * time.Second,
		pingPeriod: 50 * time.Second,
	}
}

// Start registers the client with the hub (which acknowledges it with its
// id) and launches the read and write pumps.
func (c *ClientAdapter) Start() {
	c.id = c.hub.Accept(c)
	go c.writePump()
	go c.readPump()
}

func (c *ClientAdapter) ID() string { return c.id }

// Send enqueues a frame for delivery. A full buffer drops the frame
// (backpressure); a closed adapter reports the client as gone.
func (c *ClientAdapter) Send(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClientGone
	}
	select {
	case c.send <- b:
	default:
		// Drop message if buffer full; latest beats complete for live quotes
	}
	return nil
}

func (c *ClientAdapter) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

// Close marks the adapter dead and releases the write pump. The network
// connection itself is closed by the pumps. Idempotent.
func (c *ClientAdapter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *ClientAdapter) readPump() {
	defer func() {
		c.hub.Disconnect(c.id)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))

	for {
		header, err := ws.ReadHeader(c.conn)
		if err != nil {
			break
		}

		if header.Length > int64(maxMessageSize) {
			c.logger.Warn("Msg too big", zap.Int64("size", header.Length))
			break
		}

		if !header.Fin {
			c.logger.Warn("Client sent fragmented message (not supported)")
			break
		}

		payload := make([]byte, header.Length)
		if _, err := io.ReadFull(c.conn, payload); err != nil {
			break
		}

		if header.Masked {
			ws.Cipher(payload, header.Mask, 0)
		}

		if header.OpCode == ws.OpClose {
			break
		}
		if header.OpCode == ws.OpPong {
			c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
			continue
		}

		if header.OpCode == ws.OpText {
			c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
			c.hub.HandleMessage(c.id, payload)
		}
	}
}

func (c *ClientAdapter) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if !ok {
				c.conn.Write(ws.CompiledClose)
				return
			}
			if err := wsutil.WriteServerText(c.conn, msg); err != nil {
				c.Close()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := wsutil.WriteServerMessage(c.conn, ws.OpPing, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}
