package models

// Quote is the live market record for one symbol, as pushed to clients.
type Quote struct {
	ID            string  `json:"id"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	DayHigh       float64 `json:"dayHigh"`
	DayLow        float64 `json:"dayLow"`
	DayVolume     int64   `json:"dayVolume"`
	Time          int64   `json:"time"` // unix milli
	Currency      string  `json:"currency"`
}
