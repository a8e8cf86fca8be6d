package market

import (
	"math/rand"
	"testing"
)

func newSim() *Simulator {
	return NewSimulator(rand.New(rand.NewSource(7)))
}

func TestSimulator_EnsureSeedsFromCatalog(t *testing.T) {
	s := newSim()
	s.Ensure("AAPL")

	q, ok := s.Snapshot("AAPL")
	if !ok {
		t.Fatal("Snapshot missing after Ensure")
	}
	// Initial price sits within 5% of the catalog base.
	if q.Price < 150.0*0.95 || q.Price > 150.0*1.05 {
		t.Errorf("AAPL seed price %f outside 5%% of base 150", q.Price)
	}
	if q.Currency != "USD" {
		t.Errorf("AAPL currency = %q, want USD", q.Currency)
	}
	if q.DayVolume < volumeSeedMin || q.DayVolume >= volumeSeedMin+volumeSeedSpan {
		t.Errorf("Seed volume %d outside expected range", q.DayVolume)
	}
	if q.DayLow > q.Price || q.DayHigh < q.Price {
		t.Errorf("Seed range does not bracket price: low=%f price=%f high=%f", q.DayLow, q.Price, q.DayHigh)
	}
}

func TestSimulator_EnsureUnknownSymbolGetsRandomBase(t *testing.T) {
	s := newSim()
	s.Ensure("ZZZZ")

	q, ok := s.Snapshot("ZZZZ")
	if !ok {
		t.Fatal("Snapshot missing after Ensure")
	}
	// Base drawn from 50..250, seed drift at most 5%.
	if q.Price < unknownBaseMin*(1-maxSeedDrift) || q.Price > (unknownBaseMin+unknownBaseSpan)*(1+maxSeedDrift) {
		t.Errorf("Unknown symbol seed price %f outside plausible range", q.Price)
	}
}

func TestSimulator_EnsureIdempotent(t *testing.T) {
	s := newSim()
	s.Ensure("AAPL")
	first, _ := s.Snapshot("AAPL")

	s.Ensure("AAPL")
	second, _ := s.Snapshot("AAPL")

	if first != second {
		t.Errorf("Second Ensure mutated the record: %+v != %+v", first, second)
	}
}

func TestSimulator_AdvanceInvariants(t *testing.T) {
	s := newSim()
	s.Ensure("AAPL")

	prev, _ := s.Snapshot("AAPL")
	for i := 0; i < 1000; i++ {
		q := s.Advance("AAPL")

		if q.Price <= 0 {
			t.Fatalf("Price went non-positive at step %d: %f", i, q.Price)
		}
		if q.DayLow > q.Price || q.Price > q.DayHigh {
			t.Fatalf("Invariant broken at step %d: low=%f price=%f high=%f", i, q.DayLow, q.Price, q.DayHigh)
		}
		if q.DayHigh < prev.DayHigh || q.DayLow > prev.DayLow {
			t.Fatalf("Day range narrowed at step %d", i)
		}
		if q.DayVolume < prev.DayVolume {
			t.Fatalf("Volume decreased at step %d: %d -> %d", i, prev.DayVolume, q.DayVolume)
		}
		prev = q
	}
}

func TestSimulator_AdvanceChangeAgainstFixedClose(t *testing.T) {
	s := newSim()
	s.Ensure("AAPL")

	q := s.Advance("AAPL")
	wantChange := q.Price - 150.0
	if diff := q.Change - wantChange; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Change = %f, want %f", q.Change, wantChange)
	}
	wantPct := wantChange / 150.0 * 100
	if diff := q.ChangePercent - wantPct; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("ChangePercent = %f, want %f", q.ChangePercent, wantPct)
	}
}

func TestSimulator_AdvanceSelfHeals(t *testing.T) {
	s := newSim()

	// No Ensure first: Advance initializes the record itself.
	q := s.Advance("NVDA")
	if q.ID != "NVDA" || q.Price <= 0 {
		t.Errorf("Self-healed advance returned bad quote: %+v", q)
	}
	if _, ok := s.Snapshot("NVDA"); !ok {
		t.Error("Record should exist after self-healed Advance")
	}
}

func TestSimulator_CryptoStepIsWider(t *testing.T) {
	s := newSim()
	s.Ensure("BTC-USD")
	s.Ensure("AAPL")

	maxStep := func(symbol string) float64 {
		prev, _ := s.Snapshot(symbol)
		var max float64
		for i := 0; i < 500; i++ {
			q := s.Advance(symbol)
			step := (q.Price - prev.Price) / prev.Price
			if step < 0 {
				step = -step
			}
			if step > max {
				max = step
			}
			prev = q
		}
		return max
	}

	if m := maxStep("AAPL"); m > equityStep {
		t.Errorf("Equity step %f exceeds %f", m, equityStep)
	}
	if m := maxStep("BTC-USD"); m > cryptoStep {
		t.Errorf("Crypto step %f exceeds %f", m, cryptoStep)
	}
}

func TestSimulator_SnapshotAbsent(t *testing.T) {
	s := newSim()
	if _, ok := s.Snapshot("NEVER"); ok {
		t.Error("Snapshot should report absent for an unseen symbol")
	}
}
