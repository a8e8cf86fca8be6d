package hub

import (
	"time"

	"go.uber.org/zap"
)

// Run starts the periodic drivers: the price tick and the dead-connection
// sweep. Subscribing mid-interval never resets the tick schedule; new
// subscribers get their immediate snapshot out of band instead.
func (h *Hub) Run() {
	go h.loop()
}

func (h *Hub) loop() {
	tick := time.NewTicker(h.tickInterval)
	sweep := time.NewTicker(h.sweepInterval)
	defer tick.Stop()
	defer sweep.Stop()

	h.logger.Info("Hub started",
		zap.Duration("tick_interval", h.tickInterval),
		zap.Duration("sweep_interval", h.sweepInterval))

	for {
		select {
		case <-tick.C:
			h.Tick()
		case <-sweep.C:
			h.Sweep()
		case <-h.done:
			return
		}
	}
}

// Shutdown stops the periodic timers and closes every remaining session.
// In-flight sends are best-effort. Safe to call more than once.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.mu.Lock()
		for id, sess := range h.sessions {
			delete(h.sessions, id)
			sess.conn.Close()
		}
		h.mu.Unlock()

		h.logger.Info("Hub stopped")
	})
}
