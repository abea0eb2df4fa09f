package storage

import "context"

// Live, history and permanent collection names.
const (
	CollCoffeeLive    = "coffee_movements"
	CollOtherLive     = "other_items"
	CollCoffeeHistory = "coffee_movement_history"
	CollOtherHistory  = "other_item_history"
	CollLedger        = "movements"
	CollItems         = "items"
	CollMeta          = "scraper_meta"
)

// UpsertDoc pairs a document with the identity it is upserted under.
type UpsertDoc struct {
	ID  string
	Doc interface{}
}

// Store is the document-store gateway the pipelines run against. Collections
// are addressed by name; documents are opaque to the gateway.
type Store interface {
	DeleteAll(ctx context.Context, collection string) error
	DeleteByPeriod(ctx context.Context, collection, periodMonth string) error
	InsertMany(ctx context.Context, collection string, docs []interface{}, ordered bool) error
	FindAll(ctx context.Context, collection string, out interface{}) error
	// FindByID reports false without error when no document matches.
	FindByID(ctx context.Context, collection, id string, out interface{}) (bool, error)
	UpsertByID(ctx context.Context, collection, id string, doc interface{}) error
	BulkUpsertByID(ctx context.Context, collection string, docs []UpsertDoc) (inserted, modified int64, err error)
	Close(ctx context.Context) error
}
