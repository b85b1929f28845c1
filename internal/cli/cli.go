// Package cli implements the wayfinder command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/wayfinder/wayfinder/pkg/buildinfo"
	"github.com/wayfinder/wayfinder/pkg/cache"
	"github.com/wayfinder/wayfinder/pkg/codec"
	"github.com/wayfinder/wayfinder/pkg/graph"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "wayfinder"

	// defaultMapFile is the map loaded when --map is not given.
	defaultMapFile = "map.rcg"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "wayfinder",
		Short:        "Wayfinder routes across weighted city maps",
		Long:         `Wayfinder is a CLI tool and server for pathfinding on weighted graphs: build a map of named locations, connect them with weighted roads, and compute optimal routes with A*.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.findCommand())
	root.AddCommand(c.traceCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Map Loading
// =============================================================================

// loadMap reads the map at path. An empty path tries the default map file
// and falls back to the built-in sample city when none exists yet.
func (c *CLI) loadMap(path string) (*graph.Graph, error) {
	if path == "" {
		if _, err := os.Stat(defaultMapFile); err != nil {
			c.Logger.Debug("no saved map, using sample city")
			return graph.NewSampleCity(), nil
		}
		path = defaultMapFile
	}
	c.Logger.Debug("loading map", "path", path)
	return codec.Load(path)
}

// =============================================================================
// Cache Factory
// =============================================================================

func newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return cache.NewInstrumented(fc, "path")
}

// cacheDir returns the cache directory using XDG standard (~/.cache/wayfinder/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
