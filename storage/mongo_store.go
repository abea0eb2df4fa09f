package storage

import (
	"context"
	"fmt"
	"time"

	"agr-scraper/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ Store = (*MongoStore)(nil)

// MongoStore implements Store on top of a MongoDB database.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	logger *utils.Logger
}

// Connect opens a client, pings the server and returns a store scoped to the
// given database. Callers own the connection and must Close it when the run
// finishes.
func Connect(ctx context.Context, uri, database string, logger *utils.Logger) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(30 * time.Second).
		SetSocketTimeout(240 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("Connected to MongoDB (db=%s)", database)
	return &MongoStore{
		client: client,
		db:     client.Database(database),
		logger: logger,
	}, nil
}

func (s *MongoStore) DeleteAll(ctx context.Context, collection string) error {
	_, err := s.db.Collection(collection).DeleteMany(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("delete all in %s: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) DeleteByPeriod(ctx context.Context, collection, periodMonth string) error {
	res, err := s.db.Collection(collection).DeleteMany(ctx, bson.D{{Key: "period_month", Value: periodMonth}})
	if err != nil {
		return fmt.Errorf("delete period %s in %s: %w", periodMonth, collection, err)
	}
	if res.DeletedCount > 0 {
		s.logger.Warn("Removed %d stale %s docs for period %s before re-archival", res.DeletedCount, collection, periodMonth)
	}
	return nil
}

func (s *MongoStore) InsertMany(ctx context.Context, collection string, docs []interface{}, ordered bool) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := s.db.Collection(collection).InsertMany(ctx, docs, options.InsertMany().SetOrdered(ordered))
	if err != nil {
		return fmt.Errorf("insert %d docs into %s: %w", len(docs), collection, err)
	}
	return nil
}

func (s *MongoStore) FindAll(ctx context.Context, collection string, out interface{}) error {
	cur, err := s.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("find all in %s: %w", collection, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s docs: %w", collection, err)
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, collection, id string, out interface{}) (bool, error) {
	err := s.db.Collection(collection).FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(out)
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find %s/%s: %w", collection, id, err)
	}
	return true, nil
}

func (s *MongoStore) UpsertByID(ctx context.Context, collection, id string, doc interface{}) error {
	_, err := s.db.Collection(collection).ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: id}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *MongoStore) BulkUpsertByID(ctx context.Context, collection string, docs []UpsertDoc) (int64, int64, error) {
	if len(docs) == 0 {
		return 0, 0, nil
	}
	ops := make([]mongo.WriteModel, 0, len(docs))
	for _, d := range docs {
		ops = append(ops, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "_id", Value: d.ID}}).
			SetReplacement(d.Doc).
			SetUpsert(true))
	}
	res, err := s.db.Collection(collection).BulkWrite(ctx, ops, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, 0, fmt.Errorf("bulk upsert %d docs into %s: %w", len(docs), collection, err)
	}
	return res.UpsertedCount, res.ModifiedCount, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
