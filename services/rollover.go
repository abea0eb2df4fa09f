package services

import (
	"context"
	"fmt"
	"time"

	"agr-scraper/models"
	"agr-scraper/storage"
	"agr-scraper/utils"
)

// RolloverManager tracks which calendar month the live collections represent
// and archives them into the permanent per-month history collections when the
// month changes.
type RolloverManager struct {
	store  storage.Store
	logger *utils.Logger
}

// NewRolloverManager creates a new RolloverManager.
func NewRolloverManager(store storage.Store, logger *utils.Logger) *RolloverManager {
	return &RolloverManager{store: store, logger: logger}
}

// Check compares the stored month against now and archives the previous
// period first when they differ. The metadata document only advances after
// archival succeeded, so a failed archival is retried on the next run.
// Returns the month key the live collections now belong to.
func (m *RolloverManager) Check(ctx context.Context, now time.Time) (string, error) {
	monthKey := MonthKey(now)

	var meta models.RolloverMeta
	found, err := m.store.FindByID(ctx, storage.CollMeta, models.MetaID, &meta)
	if err != nil {
		return "", fmt.Errorf("read rollover metadata: %w", err)
	}

	if found && meta.CurrentMonth != "" && meta.CurrentMonth != monthKey {
		m.logger.Info("Month changed from %s to %s. Archiving previous data...", meta.CurrentMonth, monthKey)
		if err := m.archive(ctx, meta.CurrentMonth); err != nil {
			return "", err
		}
	}

	// Idempotent upsert: also creates the document on the very first run.
	err = m.store.UpsertByID(ctx, storage.CollMeta, models.MetaID,
		models.RolloverMeta{ID: models.MetaID, CurrentMonth: monthKey})
	if err != nil {
		return "", fmt.Errorf("advance rollover metadata: %w", err)
	}
	return monthKey, nil
}

// archive copies every live document into its history collection tagged with
// the previous period, then clears the live collections. History documents
// already tagged with that period are removed first so a re-run after a
// half-finished archival cannot duplicate them.
func (m *RolloverManager) archive(ctx context.Context, prevMonth string) error {
	var coffeeLive []models.CoffeeAggregate
	if err := m.store.FindAll(ctx, storage.CollCoffeeLive, &coffeeLive); err != nil {
		return fmt.Errorf("read live coffee aggregates: %w", err)
	}
	var otherLive []models.OtherItem
	if err := m.store.FindAll(ctx, storage.CollOtherLive, &otherLive); err != nil {
		return fmt.Errorf("read live other items: %w", err)
	}
	m.logger.Info("Archiving live data: coffee=%d, other=%d (period %s)", len(coffeeLive), len(otherLive), prevMonth)

	if err := m.store.DeleteByPeriod(ctx, storage.CollCoffeeHistory, prevMonth); err != nil {
		return err
	}
	if err := m.store.DeleteByPeriod(ctx, storage.CollOtherHistory, prevMonth); err != nil {
		return err
	}

	if len(coffeeLive) > 0 {
		docs := make([]interface{}, 0, len(coffeeLive))
		for _, d := range coffeeLive {
			docs = append(docs, models.CoffeeAggregateHistory{CoffeeAggregate: d, PeriodMonth: prevMonth})
		}
		if err := m.store.InsertMany(ctx, storage.CollCoffeeHistory, docs, true); err != nil {
			return fmt.Errorf("archive coffee aggregates: %w", err)
		}
	}
	if len(otherLive) > 0 {
		docs := make([]interface{}, 0, len(otherLive))
		for _, d := range otherLive {
			docs = append(docs, models.OtherItemHistory{OtherItem: d, PeriodMonth: prevMonth})
		}
		if err := m.store.InsertMany(ctx, storage.CollOtherHistory, docs, true); err != nil {
			return fmt.Errorf("archive other items: %w", err)
		}
	}

	// Live collections are cleared only once their copies are safely in
	// history.
	if err := m.store.DeleteAll(ctx, storage.CollCoffeeLive); err != nil {
		return err
	}
	if err := m.store.DeleteAll(ctx, storage.CollOtherLive); err != nil {
		return err
	}

	m.logger.Info("Archived %d coffee and %d other docs for period %s", len(coffeeLive), len(otherLive), prevMonth)
	return nil
}
