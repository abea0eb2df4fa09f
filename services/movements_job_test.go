package services

import (
	"context"
	"testing"
	"time"

	"agr-scraper/config"
	"agr-scraper/models"
	"agr-scraper/storage"

	"github.com/stretchr/testify/require"
)

func testMovementRows() []models.RawMovement {
	return []models.RawMovement{
		{Date: "05/11/2025", Entity: "MONTEVERDE", MovementType: "Egreso",
			RewardName: "(1063) CANJE CAFE + ALFAJOR", Quantity: 5},
		{Date: "06/11/2025", Entity: "BETTICA", MovementType: "Egreso",
			RewardName: "(1063) CANJE CAFE + ALFAJOR", Quantity: 3},
		{Date: "07/11/2025", Entity: "Grupo GEN", MovementType: "Egreso",
			RewardName: "(2000) TERMO ACERO", DocumentRef: "DOC-9", Quantity: 1},
	}
}

func TestMovementsPersistReplacesLiveAndUpsertsLedger(t *testing.T) {
	store := newFakeStore()
	job := NewMovementsJob(&config.Config{}, testLogger())

	// Stale live data from an earlier run of the same month.
	require.NoError(t, store.InsertMany(context.Background(), storage.CollCoffeeLive, []interface{}{
		models.CoffeeAggregate{RewardType: "stale"},
	}, false))

	report, err := job.persist(context.Background(), store, testMovementRows(), time.Now(), "2025-11")
	require.NoError(t, err)
	require.Equal(t, 3, report.TotalRows)
	require.Equal(t, 1, report.CoffeeAggregates)
	require.Equal(t, 1, report.OtherItems)
	require.Equal(t, int64(3), report.LedgerInserted)

	var coffee []models.CoffeeAggregate
	require.NoError(t, store.FindAll(context.Background(), storage.CollCoffeeLive, &coffee))
	require.Len(t, coffee, 1, "live set fully replaced")
	require.Equal(t, "(1063) CANJE CAFE + ALFAJOR", coffee[0].RewardType)

	require.Equal(t, 1, store.countDocs(storage.CollOtherLive))
	require.Equal(t, 3, store.countByID(storage.CollLedger))
}

func TestMovementsLedgerIdempotentReIngestion(t *testing.T) {
	store := newFakeStore()
	job := NewMovementsJob(&config.Config{}, testLogger())
	rows := testMovementRows()

	first, err := job.persist(context.Background(), store, rows, time.Now(), "2025-11")
	require.NoError(t, err)
	require.Equal(t, int64(3), first.LedgerInserted)
	countAfterFirst := store.countByID(storage.CollLedger)

	// Byte-identical rows scraped again later in the same window.
	second, err := job.persist(context.Background(), store, rows, time.Now().Add(time.Minute), "2025-11")
	require.NoError(t, err)
	require.Equal(t, int64(0), second.LedgerInserted, "no new ledger entries")
	require.Equal(t, countAfterFirst, store.countByID(storage.CollLedger), "entry count unchanged")

	// A changed quantity derives a new key: a new entry, not an update.
	rows[2].Quantity = 4
	third, err := job.persist(context.Background(), store, rows, time.Now().Add(2*time.Minute), "2025-11")
	require.NoError(t, err)
	require.Equal(t, int64(1), third.LedgerInserted)
	require.Equal(t, countAfterFirst+1, store.countByID(storage.CollLedger))
}

func TestItemsPersistReplacesSnapshot(t *testing.T) {
	store := newFakeStore()
	job := NewItemsJob(&config.Config{}, testLogger())

	require.NoError(t, store.InsertMany(context.Background(), storage.CollItems, []interface{}{
		models.StockItem{Description: "stale"},
	}, false))

	items := []models.StockItem{
		{Description: "Termo Acero", StockBettica: 3, StockTotal: 3},
		{Description: "Mate Imperial", StockMonteverde: 1, StockTotal: 1},
	}
	require.NoError(t, job.persist(context.Background(), store, items))

	var stored []models.StockItem
	require.NoError(t, store.FindAll(context.Background(), storage.CollItems, &stored))
	require.Len(t, stored, 2)
	require.Equal(t, "Termo Acero", stored[0].Description)
}
