package protocol

import "github.com/believe-gautam/yahooliveticker/pkg/models"

// Client -> server message types
const (
	TypeSubscribe   = "subscribe"
	TypeUnsubscribe = "unsubscribe"
	TypePing        = "ping"
)

// Server -> client message types
const (
	TypeConnection = "connection"
	TypeTicker     = "ticker"
	TypePong       = "pong"
	TypeError      = "error"
)

type Request struct {
	Type    string   `json:"type"`
	Symbols []string `json:"symbols,omitempty"`
}

type Response struct {
	Type      string        `json:"type"`
	Status    string        `json:"status,omitempty"`
	ClientID  string        `json:"clientId,omitempty"`
	Timestamp int64         `json:"timestamp,omitempty"` // unix milli
	Message   string        `json:"message,omitempty"`
	Data      *models.Quote `json:"data,omitempty"`
}
