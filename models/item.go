package models

import "time"

// RawProduct is one product stock row as scraped from the stocks table: one
// row per product per deposit location.
type RawProduct struct {
	Description string
	Category    string
	Season      string
	Location    string
	Stock       string
}

// RawReward is one reward catalog row (pricing/points/status for a product).
type RawReward struct {
	Description string
	Category    string
	Cost        string
	Price       string
	Points      string
	Status      string
}

// StockItem is the reconciled per-product record: per-location stock counters
// accumulated across raw rows keyed by normalized description, merged with
// the reward catalog entry for the same description when one exists.
type StockItem struct {
	Description     string    `bson:"description"`
	Category        string    `bson:"category"`
	StockBettica    int       `bson:"stock_bettica"`
	StockGrupoGen   int       `bson:"stock_grupogen"`
	StockMonteverde int       `bson:"stock_monteverde"`
	StockTobago1    int       `bson:"stock_tobago1"`
	StockTotal      int       `bson:"stock_total"`
	Cost            string    `bson:"cost"`
	Price           string    `bson:"price"`
	Points          string    `bson:"points"`
	Status          string    `bson:"status"`
	CapturedAt      time.Time `bson:"captured_at"`
}
