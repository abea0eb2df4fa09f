package services

import (
	"time"

	"agr-scraper/models"
	"agr-scraper/utils"
)

// Deposit location labels exactly as the stocks table renders them. Rows for
// any other location contribute nothing to the counters.
const (
	locBettica    = "DEPOSITO BETTICA"
	locGrupoGen   = "DEPOSITO GRUPO GEN"
	locMonteverde = "DEPOSITO MONTEVERDE"
	locTobago1    = "DEPOSITO TOBAGO 1"
)

// StockReconciler folds per-location product rows into one StockItem per
// normalized description and merges in the reward catalog entry for the same
// key.
type StockReconciler struct {
	logger *utils.Logger
}

// NewStockReconciler creates a new StockReconciler.
func NewStockReconciler(logger *utils.Logger) *StockReconciler {
	return &StockReconciler{logger: logger}
}

// Build accumulates stock counters keyed by normalized description. The
// first-seen description and category are canonical for a key; stock_total is
// kept equal to the sum of the four location counters. Reward merge fills
// pricing, points and status when the catalog has the same key.
func (r *StockReconciler) Build(products []models.RawProduct, rewards []models.RawReward, now time.Time) []models.StockItem {
	rewardByKey := make(map[string]models.RawReward, len(rewards))
	for _, rw := range rewards {
		rewardByKey[utils.Normalize(rw.Description)] = rw
	}

	items := make(map[string]*models.StockItem)
	var order []string

	for _, p := range products {
		key := utils.Normalize(p.Description)
		item, ok := items[key]
		if !ok {
			item = &models.StockItem{
				Description: p.Description,
				Category:    p.Category,
				CapturedAt:  now,
			}
			items[key] = item
			order = append(order, key)
		}

		qty := utils.ParseCount(p.Stock)
		switch p.Location {
		case locBettica:
			item.StockBettica += qty
		case locGrupoGen:
			item.StockGrupoGen += qty
		case locMonteverde:
			item.StockMonteverde += qty
		case locTobago1:
			item.StockTobago1 += qty
		}
		item.StockTotal = item.StockBettica + item.StockGrupoGen + item.StockMonteverde + item.StockTobago1
	}

	matched := 0
	out := make([]models.StockItem, 0, len(order))
	for _, key := range order {
		item := items[key]
		if rw, ok := rewardByKey[key]; ok {
			item.Cost = rw.Cost
			item.Price = rw.Price
			item.Points = rw.Points
			item.Status = rw.Status
			matched++
		}
		out = append(out, *item)
	}

	r.logger.Info("Reconciled %d stock items from %d product rows (%d with catalog match)",
		len(out), len(products), matched)
	return out
}
