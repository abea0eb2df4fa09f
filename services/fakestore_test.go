package services

import (
	"context"
	"fmt"
	"reflect"

	"agr-scraper/models"
	"agr-scraper/storage"
	"agr-scraper/utils"
)

func testLogger() *utils.Logger { return utils.NewLogger() }

// fakeStore is an in-memory Store for exercising rollover and persistence
// flows without a database. Insert-many collections and upsert-by-id
// collections are tracked separately, mirroring how the pipelines use them.
type fakeStore struct {
	docs map[string][]interface{}
	byID map[string]map[string]interface{}

	// failInsertOn makes InsertMany error for one collection, to simulate a
	// partial archival failure.
	failInsertOn string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs: make(map[string][]interface{}),
		byID: make(map[string]map[string]interface{}),
	}
}

func (f *fakeStore) DeleteAll(_ context.Context, collection string) error {
	delete(f.docs, collection)
	return nil
}

func docPeriod(doc interface{}) string {
	switch d := doc.(type) {
	case models.CoffeeAggregateHistory:
		return d.PeriodMonth
	case models.OtherItemHistory:
		return d.PeriodMonth
	case models.LedgerEntry:
		return d.PeriodMonth
	default:
		return ""
	}
}

func (f *fakeStore) DeleteByPeriod(_ context.Context, collection, periodMonth string) error {
	var kept []interface{}
	for _, doc := range f.docs[collection] {
		if docPeriod(doc) != periodMonth {
			kept = append(kept, doc)
		}
	}
	f.docs[collection] = kept
	return nil
}

func (f *fakeStore) InsertMany(_ context.Context, collection string, docs []interface{}, _ bool) error {
	if collection == f.failInsertOn {
		return fmt.Errorf("injected insert failure for %s", collection)
	}
	f.docs[collection] = append(f.docs[collection], docs...)
	return nil
}

func (f *fakeStore) FindAll(_ context.Context, collection string, out interface{}) error {
	slice := reflect.ValueOf(out).Elem()
	result := reflect.MakeSlice(slice.Type(), 0, len(f.docs[collection]))
	for _, doc := range f.docs[collection] {
		result = reflect.Append(result, reflect.ValueOf(doc))
	}
	slice.Set(result)
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, collection, id string, out interface{}) (bool, error) {
	doc, ok := f.byID[collection][id]
	if !ok {
		return false, nil
	}
	reflect.ValueOf(out).Elem().Set(reflect.ValueOf(doc))
	return true, nil
}

func (f *fakeStore) UpsertByID(_ context.Context, collection, id string, doc interface{}) error {
	if f.byID[collection] == nil {
		f.byID[collection] = make(map[string]interface{})
	}
	f.byID[collection][id] = doc
	return nil
}

func (f *fakeStore) BulkUpsertByID(ctx context.Context, collection string, docs []storage.UpsertDoc) (int64, int64, error) {
	var inserted, modified int64
	for _, d := range docs {
		if _, exists := f.byID[collection][d.ID]; exists {
			modified++
		} else {
			inserted++
		}
		if err := f.UpsertByID(ctx, collection, d.ID, d.Doc); err != nil {
			return inserted, modified, err
		}
	}
	return inserted, modified, nil
}

func (f *fakeStore) Close(context.Context) error { return nil }

func (f *fakeStore) countDocs(collection string) int { return len(f.docs[collection]) }

func (f *fakeStore) countByID(collection string) int { return len(f.byID[collection]) }
