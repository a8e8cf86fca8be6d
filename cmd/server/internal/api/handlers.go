package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/believe-gautam/yahooliveticker/cmd/server/internal/market"
)

// Counters is the read-only surface the hub exposes to the REST layer.
type Counters interface {
	ClientCount() int
	ActiveSymbols() []string
}

type Handler struct {
	counters Counters
	logger   *zap.Logger
}

func NewHandler(counters Counters, logger *zap.Logger) *Handler {
	return &Handler{counters: counters, logger: logger}
}

type healthResponse struct {
	Status        string `json:"status"`
	Clients       int    `json:"clients"`
	ActiveSymbols int    `json:"activeSymbols"`
	Timestamp     int64  `json:"timestamp"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, healthResponse{
		Status:        "ok",
		Clients:       h.counters.ClientCount(),
		ActiveSymbols: len(h.counters.ActiveSymbols()),
		Timestamp:     time.Now().UnixMilli(),
	})
}

func (h *Handler) Symbols(w http.ResponseWriter, r *http.Request) {
	results := market.Search(r.URL.Query().Get("q"))
	h.writeJSON(w, results)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Write response failed", zap.Error(err))
	}
}
