package market

import (
	"math/rand"
	"sync"
	"time"

	"github.com/believe-gautam/yahooliveticker/pkg/models"
)

const (
	unknownBaseMin  = 50.0  // random base range for unrecognized symbols
	unknownBaseSpan = 200.0 // i.e. 50..250
	maxSeedDrift    = 0.05  // initial price within 5% of previous close
	seedSpread      = 0.01  // day high/low seeded within 1% of initial price
	equityStep      = 0.01  // per-tick half-width for equities
	cryptoStep      = 0.02  // per-tick half-width for crypto pairs
	priceFloor      = 0.01
	volumeSeedMin   = 1_000_000
	volumeSeedSpan  = 50_000_000
	volumeStepMax   = 10_000
)

// record is the internal mutable state behind a quote. previousClose and the
// step size are fixed at creation; everything else moves on Advance.
type record struct {
	quote         models.Quote
	previousClose float64
	step          float64
}

// Compile-time check to ensure Simulator implements Source
var _ Source = (*Simulator)(nil)

// Simulator is an in-memory random-walk Source. It stands in for a real
// market feed; records are created lazily and never deleted.
type Simulator struct {
	mu      sync.Mutex
	records map[string]*record
	rand    *rand.Rand
}

func NewSimulator(rnd *rand.Rand) *Simulator {
	return &Simulator{
		records: make(map[string]*record),
		rand:    rnd,
	}
}

func (s *Simulator) Ensure(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(symbol)
}

func (s *Simulator) ensureLocked(symbol string) *record {
	if rec, ok := s.records[symbol]; ok {
		return rec
	}

	base, known := BasePrice(symbol)
	if !known {
		base = unknownBaseMin + s.rand.Float64()*unknownBaseSpan
	}
	venue, currency := Classify(symbol)

	step := equityStep
	if venue == VenueCrypto {
		step = cryptoStep
	}

	// Seed the walk within maxSeedDrift of the previous close.
	price := base * (1 + (s.rand.Float64()*2-1)*maxSeedDrift)
	if price < priceFloor {
		price = priceFloor
	}

	rec := &record{
		previousClose: base,
		step:          step,
		quote: models.Quote{
			ID:        symbol,
			Price:     price,
			DayHigh:   price * (1 + s.rand.Float64()*seedSpread),
			DayLow:    price * (1 - s.rand.Float64()*seedSpread),
			DayVolume: int64(volumeSeedMin + s.rand.Intn(volumeSeedSpan)),
			Time:      time.Now().UnixMilli(),
			Currency:  currency,
		},
	}
	rec.quote.Change = price - base
	rec.quote.ChangePercent = rec.quote.Change / base * 100

	s.records[symbol] = rec
	return rec
}

func (s *Simulator) Advance(symbol string) models.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.ensureLocked(symbol)
	q := &rec.quote

	delta := (s.rand.Float64()*2 - 1) * rec.step
	q.Price *= 1 + delta
	if q.Price < priceFloor {
		q.Price = priceFloor
	}

	q.Change = q.Price - rec.previousClose
	q.ChangePercent = q.Change / rec.previousClose * 100

	if q.Price > q.DayHigh {
		q.DayHigh = q.Price
	}
	if q.Price < q.DayLow {
		q.DayLow = q.Price
	}

	q.DayVolume += int64(s.rand.Intn(volumeStepMax + 1))
	q.Time = time.Now().UnixMilli()

	return *q
}

func (s *Simulator) Snapshot(symbol string) (models.Quote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[symbol]
	if !ok {
		return models.Quote{}, false
	}
	return rec.quote, true
}
