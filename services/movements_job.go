package services

import (
	"context"
	"fmt"
	"time"

	"agr-scraper/config"
	"agr-scraper/models"
	"agr-scraper/scraper/agr"
	"agr-scraper/storage"
	"agr-scraper/utils"
)

// Job identities observed by the single-flight runner.
const (
	JobMovements = "movements"
	JobItems     = "items"
	JobAll       = "all"
)

// MovementsJob is the movements ingestion orchestrator: rollover check, date
// window, scrape, classification, live replacement and ledger upsert.
type MovementsJob struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewMovementsJob creates a new MovementsJob.
func NewMovementsJob(cfg *config.Config, logger *utils.Logger) *MovementsJob {
	return &MovementsJob{cfg: cfg, logger: logger.WithTag("[MOV]")}
}

// Run executes one full movements ingestion. The store connection and the
// browser session are both scoped to the run and released even when the
// deadline already expired.
func (j *MovementsJob) Run(ctx context.Context) error {
	j.logger.Info("Connecting to store...")
	store, err := storage.Connect(ctx, j.cfg.MongoURI, j.cfg.MongoDB, j.logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			j.logger.Warn("Store disconnect failed: %v", err)
		}
	}()
	return j.runWithStore(ctx, store)
}

func (j *MovementsJob) runWithStore(ctx context.Context, store storage.Store) error {
	started := time.Now()

	// Rollover runs before scraping so stale live data from a prior month is
	// never mixed with fresh-month writes.
	monthKey, err := NewRolloverManager(store, j.logger).Check(ctx, started)
	if err != nil {
		return err
	}

	session, err := agr.NewSession(ctx, j.cfg, j.logger)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Login(); err != nil {
		return err
	}

	startDate, endDate := WindowStart(started), WindowEnd(started)
	rows, err := session.ScrapeMovements(startDate, endDate)
	if err != nil {
		return err
	}

	report, err := j.persist(ctx, store, rows, time.Now(), monthKey)
	if err != nil {
		return err
	}
	report.Window = fmt.Sprintf("%s .. %s", startDate, endDate)
	report.Elapsed = time.Since(started)
	report.Log(j.logger)
	return nil
}

// persist replaces the live collections with the classified batch and
// upserts the permanent ledger. Live replacement happens before the ledger
// write, matching the run order the portal data was captured in.
func (j *MovementsJob) persist(ctx context.Context, store storage.Store, rows []models.RawMovement, now time.Time, monthKey string) (MovementsReport, error) {
	batch := NewClassifier(j.logger).ClassifyAndBucket(rows, now, monthKey)

	if err := store.DeleteAll(ctx, storage.CollCoffeeLive); err != nil {
		return MovementsReport{}, err
	}
	coffeeDocs := make([]interface{}, 0, len(batch.Coffee))
	for _, d := range batch.Coffee {
		coffeeDocs = append(coffeeDocs, d)
	}
	if err := store.InsertMany(ctx, storage.CollCoffeeLive, coffeeDocs, false); err != nil {
		return MovementsReport{}, err
	}

	if err := store.DeleteAll(ctx, storage.CollOtherLive); err != nil {
		return MovementsReport{}, err
	}
	otherDocs := make([]interface{}, 0, len(batch.Other))
	for _, d := range batch.Other {
		otherDocs = append(otherDocs, d)
	}
	if err := store.InsertMany(ctx, storage.CollOtherLive, otherDocs, false); err != nil {
		return MovementsReport{}, err
	}

	upserts := make([]storage.UpsertDoc, 0, len(batch.Ledger))
	for _, e := range batch.Ledger {
		upserts = append(upserts, storage.UpsertDoc{ID: e.ID, Doc: e})
	}
	inserted, modified, err := store.BulkUpsertByID(ctx, storage.CollLedger, upserts)
	if err != nil {
		return MovementsReport{}, err
	}

	return MovementsReport{
		TotalRows:        len(rows),
		CoffeeAggregates: len(batch.Coffee),
		OtherItems:       len(batch.Other),
		LedgerInserted:   inserted,
		LedgerModified:   modified,
	}, nil
}
