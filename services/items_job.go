package services

import (
	"context"
	"time"

	"agr-scraper/config"
	"agr-scraper/models"
	"agr-scraper/scraper/agr"
	"agr-scraper/storage"
	"agr-scraper/utils"
)

// ItemsJob is the products+rewards ingestion orchestrator: scrape both
// catalogs, reconcile stock per product, replace the items snapshot.
type ItemsJob struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewItemsJob creates a new ItemsJob.
func NewItemsJob(cfg *config.Config, logger *utils.Logger) *ItemsJob {
	return &ItemsJob{cfg: cfg, logger: logger.WithTag("[ITEMS]")}
}

// Run executes one full items ingestion.
func (j *ItemsJob) Run(ctx context.Context) error {
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

func (j *ItemsJob) runWithStore(ctx context.Context, store storage.Store) error {
	session, err := agr.NewSession(ctx, j.cfg, j.logger)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Login(); err != nil {
		return err
	}

	products, err := session.ScrapeProducts()
	if err != nil {
		return err
	}
	rewards, err := session.ScrapeRewards()
	if err != nil {
		return err
	}
	j.logger.Info("Scraped %d product rows, %d reward rows", len(products), len(rewards))

	items := NewStockReconciler(j.logger).Build(products, rewards, time.Now())
	return j.persist(ctx, store, items)
}

// persist replaces the whole items snapshot.
func (j *ItemsJob) persist(ctx context.Context, store storage.Store, items []models.StockItem) error {
	if err := store.DeleteAll(ctx, storage.CollItems); err != nil {
		return err
	}
	docs := make([]interface{}, 0, len(items))
	for _, it := range items {
		docs = append(docs, it)
	}
	if err := store.InsertMany(ctx, storage.CollItems, docs, false); err != nil {
		return err
	}
	j.logger.Info("Stored %d stock items", len(items))
	return nil
}
