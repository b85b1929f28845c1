package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wayfinder/wayfinder/pkg/codec"
	"github.com/wayfinder/wayfinder/pkg/graph"
	"github.com/wayfinder/wayfinder/pkg/observability"
)

// FileStore keeps each map as a file in a root directory. The key becomes
// the file name with a ".rcg" extension; path separators in keys are
// rejected so a key cannot escape the root.
type FileStore struct {
	root string
}

// NewFileStore creates a file store rooted at dir.
// The directory will be created if it doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{root: dir}, nil
}

// Save writes the graph atomically: the bytes go to a temporary sibling
// first and are renamed into place.
func (s *FileStore) Save(ctx context.Context, key string, g *graph.Graph) error {
	start := time.Now()

	path, err := s.path(key)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := codec.Encode(&buf, g); err != nil {
		observability.Store().OnSave(ctx, key, 0, time.Since(start), err)
		return err
	}

	err = writeAtomic(path, buf.Bytes())
	observability.Store().OnSave(ctx, key, buf.Len(), time.Since(start), err)
	return err
}

// Load reads the graph stored under key.
func (s *FileStore) Load(ctx context.Context, key string, opts ...graph.Option) (*graph.Graph, error) {
	start := time.Now()

	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		observability.Store().OnLoad(ctx, key, 0, time.Since(start), ErrNotFound)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		observability.Store().OnLoad(ctx, key, 0, time.Since(start), err)
		return nil, err
	}

	g, err := codec.Decode(bytes.NewReader(data), opts...)
	observability.Store().OnLoad(ctx, key, len(data), time.Since(start), err)
	return g, err
}

// Delete removes the map under key.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close does nothing for a file store.
func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("store: invalid key %q", key)
	}
	return filepath.Join(s.root, key+".rcg"), nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".store-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
