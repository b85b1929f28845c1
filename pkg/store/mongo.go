package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/wayfinder/wayfinder/pkg/codec"
	"github.com/wayfinder/wayfinder/pkg/graph"
	"github.com/wayfinder/wayfinder/pkg/observability"
)

// MongoStore keeps maps as documents in a MongoDB collection, one document
// per key with the encoded map as a binary field. Useful when several
// server instances share a map library.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mapDocument is the stored shape of one map.
type mapDocument struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Save upserts the encoded graph under key.
func (s *MongoStore) Save(ctx context.Context, key string, g *graph.Graph) error {
	start := time.Now()

	var buf bytes.Buffer
	if err := codec.Encode(&buf, g); err != nil {
		observability.Store().OnSave(ctx, key, 0, time.Since(start), err)
		return err
	}

	doc := mapDocument{Key: key, Data: buf.Bytes(), UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": key}, doc,
		mongooptions.Replace().SetUpsert(true))
	observability.Store().OnSave(ctx, key, buf.Len(), time.Since(start), err)
	return err
}

// Load reads and decodes the map stored under key.
func (s *MongoStore) Load(ctx context.Context, key string, opts ...graph.Option) (*graph.Graph, error) {
	start := time.Now()

	var doc mapDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		observability.Store().OnLoad(ctx, key, 0, time.Since(start), ErrNotFound)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		observability.Store().OnLoad(ctx, key, 0, time.Since(start), err)
		return nil, err
	}

	g, err := codec.Decode(bytes.NewReader(doc.Data), opts...)
	observability.Store().OnLoad(ctx, key, len(doc.Data), time.Since(start), err)
	return g, err
}

// Delete removes the map under key.
func (s *MongoStore) Delete(ctx context.Context, key string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
