// Package store persists graphs under string keys.
//
// A store is a thin keyed layer over the binary map format of
// [github.com/wayfinder/wayfinder/pkg/codec]. Two backends are provided:
// [FileStore] keeps each map as a file in a directory, [MongoStore] keeps
// maps as documents in a MongoDB collection. Both report save and load
// events to the registered observability hooks.
package store

import (
	"context"
	"errors"

	"github.com/wayfinder/wayfinder/pkg/graph"
)

// ErrNotFound is returned when no map exists under the requested key.
var ErrNotFound = errors.New("store: map not found")

// Store is the interface implemented by all persistence backends.
type Store interface {
	// Save writes the graph under key, replacing any previous map.
	Save(ctx context.Context, key string, g *graph.Graph) error

	// Load reads the graph stored under key. The options are forwarded to
	// the constructed graph. Returns [ErrNotFound] if no map exists.
	Load(ctx context.Context, key string, opts ...graph.Option) (*graph.Graph, error)

	// Delete removes the map under key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
