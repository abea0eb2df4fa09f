package services

import (
	"time"

	"agr-scraper/utils"
)

// MovementsReport summarizes one completed movements run.
type MovementsReport struct {
	Window           string
	TotalRows        int
	CoffeeAggregates int
	OtherItems       int
	LedgerInserted   int64
	LedgerModified   int64
	Elapsed          time.Duration
}

// Log writes the run summary.
func (r MovementsReport) Log(logger *utils.Logger) {
	logger.Info("Run complete: window %s, %d rows -> %d coffee aggregates, %d other items (%s)",
		r.Window, r.TotalRows, r.CoffeeAggregates, r.OtherItems, FormatElapsed(r.Elapsed))
	logger.Info("Ledger upserts: inserted=%d, modified=%d", r.LedgerInserted, r.LedgerModified)
}
