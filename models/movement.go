package models

import "time"

// RawMovement represents one movement table row exactly as scraped from the
// portal, before classification. Quantity is already parsed because the
// portal renders it with thousands separators.
type RawMovement struct {
	Date          string
	Entity        string
	MovementType  string
	DocumentRef   string
	RewardName    string
	SourceDeposit string
	DestDeposit   string
	Quantity      int
}

// EntityOutflow is one entity's summed outflow quantity inside a coffee
// aggregate. Every aggregate carries all four known entities, zero-filled
// when absent, so downstream consumers see a stable schema.
type EntityOutflow struct {
	Entity   string `bson:"entity"`
	Quantity int    `bson:"quantity"`
}

// CoffeeAggregate is the live, per-reward-type summary of coffee combo
// outflows for the current period. The whole live set is replaced on each
// successful run.
type CoffeeAggregate struct {
	RewardType string          `bson:"reward_type"`
	Outflows   []EntityOutflow `bson:"outflows"`
	CapturedAt time.Time       `bson:"captured_at"`
}

// OtherItem is one non-coffee movement row kept verbatim in the live set.
type OtherItem struct {
	Date          string    `bson:"date"`
	Entity        string    `bson:"entity"`
	MovementType  string    `bson:"movement_type"`
	DocumentRef   string    `bson:"document_ref"`
	RewardName    string    `bson:"reward_name"`
	SourceDeposit string    `bson:"source_deposit"`
	DestDeposit   string    `bson:"dest_deposit"`
	Quantity      int       `bson:"quantity"`
	CapturedAt    time.Time `bson:"captured_at"`
}

// CoffeeAggregateHistory is an archived coffee aggregate tagged with the
// period it belonged to.
type CoffeeAggregateHistory struct {
	CoffeeAggregate `bson:",inline"`
	PeriodMonth     string `bson:"period_month"`
}

// OtherItemHistory is an archived other-item record tagged with its period.
type OtherItemHistory struct {
	OtherItem   `bson:",inline"`
	PeriodMonth string `bson:"period_month"`
}

// LedgerEntry is one permanent movement history record. The _id is the
// pipe-joined composite of the eight raw row fields, which makes re-ingestion
// of an unchanged window an idempotent upsert.
type LedgerEntry struct {
	ID            string     `bson:"_id"`
	DateRaw       string     `bson:"date_raw"`
	Date          *time.Time `bson:"date_parsed"`
	Entity        string     `bson:"entity"`
	MovementType  string     `bson:"movement_type"`
	DocumentRef   string     `bson:"document_ref"`
	RewardName    string     `bson:"reward_name"`
	SourceDeposit string     `bson:"source_deposit"`
	DestDeposit   string     `bson:"dest_deposit"`
	Quantity      int        `bson:"quantity"`
	IsCoffeeCombo bool       `bson:"is_coffee_combo"`
	PeriodMonth   string     `bson:"period_month"`
	CapturedAt    time.Time  `bson:"captured_at"`
}

// MetaID is the fixed _id of the singleton rollover metadata document.
const MetaID = "scraper-meta"

// RolloverMeta records which calendar month the live collections currently
// represent.
type RolloverMeta struct {
	ID           string `bson:"_id"`
	CurrentMonth string `bson:"current_month"`
}
