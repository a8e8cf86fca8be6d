package hub

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/believe-gautam/yahooliveticker/cmd/server/internal/market"
	"github.com/believe-gautam/yahooliveticker/cmd/server/internal/protocol"
	"github.com/believe-gautam/yahooliveticker/cmd/server/internal/sink"
	"github.com/believe-gautam/yahooliveticker/pkg/models"
)

// ClientConn is the transport handle the hub drives a client through.
type ClientConn interface {
	// Send enqueues a frame without blocking. It returns an error only when
	// the connection is gone; a slow client silently drops frames instead.
	Send(b []byte) error
	Alive() bool
	Close()
}

// session is one connected client and its subscription set. The set is only
// mutated by messages from that same client, always under the hub lock.
type session struct {
	id   string
	conn ClientConn
	subs map[string]bool
}

// Hub owns all client sessions and their subscriptions, and fans price
// updates out to exactly the clients subscribed to each symbol. All mutation
// goes through the single hub mutex, so subscription changes, ticks and
// sweeps never interleave.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*session

	source market.Source
	sinks  []sink.Sink
	logger *zap.Logger

	tickInterval  time.Duration
	sweepInterval time.Duration

	done     chan struct{}
	stopOnce sync.Once
}

func NewHub(source market.Source, logger *zap.Logger, tickInterval, sweepInterval time.Duration, sinks ...sink.Sink) *Hub {
	return &Hub{
		sessions:      make(map[string]*session),
		source:        source,
		sinks:         sinks,
		logger:        logger,
		tickInterval:  tickInterval,
		sweepInterval: sweepInterval,
		done:          make(chan struct{}),
	}
}

// Accept registers a new connection under a fresh client id and immediately
// acknowledges it so the client learns its id.
func (h *Hub) Accept(conn ClientConn) string {
	sess := &session{
		id:   uuid.NewString(),
		conn: conn,
		subs: make(map[string]bool),
	}

	h.mu.Lock()
	h.sessions[sess.id] = sess
	h.sendLocked(sess, protocol.Response{
		Type:      protocol.TypeConnection,
		Status:    "connected",
		ClientID:  sess.id,
		Timestamp: time.Now().UnixMilli(),
	})
	h.mu.Unlock()

	h.logger.Info("Client connected", zap.String("client_id", sess.id))
	return sess.id
}

// HandleMessage parses and dispatches one raw client message. Protocol errors
// are reported back to the sender only; the connection stays open.
func (h *Hub) HandleMessage(clientID string, raw []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess, ok := h.sessions[clientID]
	if !ok {
		h.logger.Warn("Message from unknown client", zap.String("client_id", clientID))
		return
	}

	var req protocol.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		h.sendErrorLocked(sess, "invalid JSON")
		return
	}

	switch req.Type {
	case protocol.TypeSubscribe:
		h.handleSubscribe(sess, req.Symbols)
	case protocol.TypeUnsubscribe:
		h.handleUnsubscribe(sess, req.Symbols)
	case protocol.TypePing:
		h.sendLocked(sess, protocol.Response{
			Type:      protocol.TypePong,
			Timestamp: time.Now().UnixMilli(),
		})
	default:
		h.sendErrorLocked(sess, "unknown message type: "+req.Type)
	}
}

func (h *Hub) handleSubscribe(sess *session, symbols []string) {
	symbols = normalize(symbols)
	if len(symbols) == 0 {
		h.logger.Warn("Subscribe without symbols", zap.String("client_id", sess.id))
		h.sendErrorLocked(sess, "no symbols provided")
		return
	}

	for _, sym := range symbols {
		// Idempotency: resubscribing must not trigger another snapshot
		if sess.subs[sym] {
			continue
		}
		sess.subs[sym] = true
		h.source.Ensure(sym)

		// New subscribers get the current quote right away instead of
		// waiting out the tick interval.
		if q, ok := h.source.Snapshot(sym); ok {
			h.sendLocked(sess, protocol.Response{Type: protocol.TypeTicker, Data: &q})
		}
	}
}

func (h *Hub) handleUnsubscribe(sess *session, symbols []string) {
	symbols = normalize(symbols)
	if len(symbols) == 0 {
		h.logger.Warn("Unsubscribe without symbols", zap.String("client_id", sess.id))
		h.sendErrorLocked(sess, "no symbols provided")
		return
	}

	// Quotes are kept even when a symbol loses its last subscriber; they are
	// cheap and a resubscribe picks the day state back up.
	for _, sym := range symbols {
		delete(sess.subs, sym)
	}
}

// Disconnect removes the session and with it every subscription it held.
// Transport errors and clean closes both land here.
func (h *Hub) Disconnect(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(clientID)
}

func (h *Hub) removeLocked(clientID string) {
	sess, ok := h.sessions[clientID]
	if !ok {
		return
	}
	delete(h.sessions, clientID)
	sess.conn.Close()
	h.logger.Info("Client removed", zap.String("client_id", clientID))
}

// Tick advances every active symbol and fans each updated quote out to its
// subscribers, in one serialized pass. Sinks are fed after the lock is
// released so a slow export cannot stall clients.
func (h *Hub) Tick() {
	h.mu.Lock()
	symbols := h.activeSymbolsLocked()
	updates := make([]models.Quote, 0, len(symbols))
	for _, sym := range symbols {
		q := h.source.Advance(sym)
		h.fanOutLocked(q)
		updates = append(updates, q)
	}
	h.mu.Unlock()

	for _, q := range updates {
		h.export(q)
	}
}

func (h *Hub) fanOutLocked(q models.Quote) {
	b, err := json.Marshal(protocol.Response{Type: protocol.TypeTicker, Data: &q})
	if err != nil {
		h.logger.Error("Marshal quote failed", zap.String("symbol", q.ID), zap.Error(err))
		return
	}

	var stale []string
	for id, sess := range h.sessions {
		if !sess.subs[q.ID] {
			continue
		}
		// One dead recipient must not stop delivery to the rest.
		if err := sess.conn.Send(b); err != nil {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		h.removeLocked(id)
	}
}

func (h *Hub) export(q models.Quote) {
	for _, s := range h.sinks {
		if err := s.Publish(context.Background(), q); err != nil {
			h.logger.Error("Sink publish failed", zap.String("symbol", q.ID), zap.Error(err))
		}
	}
}

// Sweep reclaims sessions whose connection is no longer open. This backstops
// missed close and error events from the transport.
func (h *Hub) Sweep() {
	h.mu.Lock()
	defer h.mu.Unlock()

	var dead []string
	for id, sess := range h.sessions {
		if !sess.conn.Alive() {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		h.logger.Warn("Sweeping dead client", zap.String("client_id", id))
		h.removeLocked(id)
	}
}

// ActiveSymbols returns the union of all live clients' subscription sets,
// sorted. It is derived on every call; there is no separately maintained
// global set to drift out of sync.
func (h *Hub) ActiveSymbols() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.activeSymbolsLocked()
}

func (h *Hub) activeSymbolsLocked() []string {
	set := make(map[string]bool)
	for _, sess := range h.sessions {
		for sym := range sess.subs {
			set[sym] = true
		}
	}
	symbols := make([]string, 0, len(set))
	for sym := range set {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

func (h *Hub) sendLocked(sess *session, resp protocol.Response) {
	b, err := json.Marshal(resp)
	if err != nil {
		h.logger.Error("Marshal response failed", zap.Error(err))
		return
	}
	if err := sess.conn.Send(b); err != nil {
		// Gone mid-send: treat like any other disconnect.
		h.removeLocked(sess.id)
	}
}

func (h *Hub) sendErrorLocked(sess *session, msg string) {
	h.sendLocked(sess, protocol.Response{Type: protocol.TypeError, Message: msg})
}

func normalize(symbols []string) []string {
	out := symbols[:0]
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
