// Package config loads Wayfinder configuration from TOML files.
//
// Every field has a working default, so a missing config file is not an
// error: the CLI and server run with [Default] out of the box, and a file
// only needs to name the settings it changes.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full configuration tree.
type Config struct {
	Graph  GraphConfig  `toml:"graph"`
	Search SearchConfig `toml:"search"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
}

// GraphConfig bounds the in-memory map.
type GraphConfig struct {
	// MaxNodes caps how many node slots a map may allocate.
	MaxNodes int `toml:"max_nodes"`
}

// SearchConfig sets pathfinding defaults, overridable per request.
type SearchConfig struct {
	// Heuristic is one of "euclidean", "manhattan", "chebyshev", or
	// "dijkstra".
	Heuristic string `toml:"heuristic"`

	// Weight multiplies the heuristic. Values above 1 trade optimality
	// for speed.
	Weight float64 `toml:"weight"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`

	// ReadTimeout and WriteTimeout bound request handling.
	ReadTimeout  duration `toml:"read_timeout"`
	WriteTimeout duration `toml:"write_timeout"`
}

// CacheConfig selects and configures the route cache.
type CacheConfig struct {
	// Backend is "none", "file", or "redis".
	Backend string `toml:"backend"`

	// Dir is the cache directory for the file backend.
	Dir string `toml:"dir"`

	// TTL bounds how long cached routes live. Zero means no expiry.
	TTL duration `toml:"ttl"`

	Redis RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// StoreConfig selects and configures map persistence.
type StoreConfig struct {
	// Backend is "file" or "mongo".
	Backend string `toml:"backend"`

	// Dir is the map directory for the file backend.
	Dir string `toml:"dir"`

	Mongo MongoConfig `toml:"mongo"`
}

// MongoConfig configures the mongo store backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// duration wraps time.Duration so TOML files can say "30s" or "5m".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// Duration returns the wrapped value.
func (d duration) Duration() time.Duration { return time.Duration(d) }

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Graph: GraphConfig{
			MaxNodes: 1000,
		},
		Search: SearchConfig{
			Heuristic: "euclidean",
			Weight:    1.0,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  duration(10 * time.Second),
			WriteTimeout: duration(30 * time.Second),
		},
		Cache: CacheConfig{
			Backend: "file",
			Dir:     defaultCacheDir(),
			TTL:     duration(24 * time.Hour),
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},
		Store: StoreConfig{
			Backend: "file",
			Dir:     "maps",
			Mongo: MongoConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "wayfinder",
				Collection: "maps",
			},
		},
	}
}

// Load reads a TOML config file, layered over [Default]. Settings absent
// from the file keep their defaults. Unknown keys are an error, so typos
// do not silently fall back.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Graph.MaxNodes <= 0 {
		return fmt.Errorf("config: graph.max_nodes must be positive, got %d", c.Graph.MaxNodes)
	}
	if c.Search.Weight < 0 {
		return fmt.Errorf("config: search.weight must not be negative, got %g", c.Search.Weight)
	}
	switch c.Cache.Backend {
	case "none", "file", "redis":
	default:
		return fmt.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Store.Backend {
	case "file", "mongo":
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	return nil
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + "/wayfinder"
	}
	return ".wayfinder-cache"
}
