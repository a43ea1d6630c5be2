package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/pagelift/scrape-cli/internal/config"
	"github.com/pagelift/scrape-cli/internal/model"
)

// MongoStore implements Store using a MongoDB collection, one document
// per scraped URL.
type MongoStore struct {
	client    *mongo.Client
	documents *mongo.Collection
}

// NewMongo connects to MongoDB and selects the configured collection.
func NewMongo(ctx context.Context, cfg config.StoreConfig) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, eris.Wrap(err, "mongo: connect")
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, eris.Wrap(err, "mongo: ping")
	}

	zap.L().Debug("mongo: connected",
		zap.String("database", cfg.Database),
		zap.String("collection", cfg.Collection),
	)

	return &MongoStore{
		client:    client,
		documents: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Migrate creates the scraped_at index. The _id key is unique by
// construction, so no further index is needed for upserts.
func (s *MongoStore) Migrate(ctx context.Context) error {
	_, err := s.documents.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "scraped_at", Value: 1}},
	})
	return eris.Wrap(err, "mongo: create index")
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return eris.Wrap(s.client.Disconnect(ctx), "mongo: disconnect")
}

// Upsert replaces the document with the same _id, inserting when absent.
func (s *MongoStore) Upsert(ctx context.Context, doc model.Document) error {
	res, err := s.documents.ReplaceOne(ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return eris.Wrap(err, "mongo: upsert document")
	}

	zap.L().Debug("mongo: document upserted",
		zap.String("id", doc.ID),
		zap.String("url", doc.SourceURL),
		zap.Int64("matched", res.MatchedCount),
		zap.Int64("upserted", res.UpsertedCount),
	)
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := s.documents.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "mongo: get document")
	}
	return &doc, nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]model.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "scraped_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := s.documents.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, eris.Wrap(err, "mongo: list documents")
	}
	defer cursor.Close(ctx) //nolint:errcheck

	var docs []model.Document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, eris.Wrap(err, "mongo: decode documents")
	}
	return docs, nil
}

func (s *MongoStore) Count(ctx context.Context) (int64, error) {
	n, err := s.documents.CountDocuments(ctx, bson.M{})
	return n, eris.Wrap(err, "mongo: count documents")
}
