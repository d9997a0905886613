// Package mongo stores built graphs in MongoDB.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/mutmap/pkg/errors"
	"github.com/matzehuels/mutmap/pkg/observability"
	"github.com/matzehuels/mutmap/pkg/store"
)

// Defaults.
const (
	DefaultDatabase   = "mutmap"
	DefaultCollection = "graphs"
)

const backend = "mongo"

// Store is a store.Store backed by one MongoDB collection.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// Connect opens a client for uri and pings the server. An empty database
// uses DefaultDatabase.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Store{client: client, coll: client.Database(database).Collection(DefaultCollection)}, nil
}

// Save inserts rec.
func (s *Store) Save(ctx context.Context, rec store.Record) error {
	start := time.Now()
	_, err := s.coll.InsertOne(ctx, rec)
	observability.Store().OnStoreWrite(ctx, backend, 1, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("insert %s: %w", rec.ID, err)
	}
	return nil
}

// Get loads the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (store.Record, error) {
	start := time.Now()
	var rec store.Record
	err := s.coll.FindOne(ctx, byID(id)).Decode(&rec)
	found := err == nil
	if err == mongo.ErrNoDocuments {
		err = errors.New(errors.ErrCodeNotFound, "graph %s not found", id)
	}
	observability.Store().OnStoreRead(ctx, backend, found, time.Since(start), err)
	if err != nil {
		return store.Record{}, err
	}
	return rec, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func byID(id string) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}

var _ store.Store = (*Store)(nil)
