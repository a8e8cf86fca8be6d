package market

import "github.com/believe-gautam/yahooliveticker/pkg/models"

// Source is the contract the hub drives quotes through. The Simulator is the
// default implementation; a real upstream feed can replace it without touching
// subscription or broadcast code.
type Source interface {
	// Ensure creates the record for symbol if it does not exist yet.
	// Idempotent.
	Ensure(symbol string)

	// Advance applies one movement step to symbol's record and returns the
	// updated quote as a value snapshot. A missing record is initialized
	// first rather than treated as an error.
	Advance(symbol string) models.Quote

	// Snapshot returns the current quote for symbol, if one exists.
	Snapshot(symbol string) (models.Quote, bool)
}
