package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wayfinder/wayfinder/internal/server"
	"github.com/wayfinder/wayfinder/pkg/cache"
	"github.com/wayfinder/wayfinder/pkg/config"
	apperrors "github.com/wayfinder/wayfinder/pkg/errors"
	"github.com/wayfinder/wayfinder/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	configFile string // TOML config path ("" = defaults)
	mapFile    string // initial map file
	addr       string // overrides server.addr from the config
}

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Wayfinder HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "TOML config file")
	cmd.Flags().StringVarP(&opts.mapFile, "map", "m", "", "initial map file (default: "+defaultMapFile+" or the sample city)")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	cfg := config.Default()
	if opts.configFile != "" {
		var err error
		cfg, err = config.Load(opts.configFile)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "loading config")
		}
	}
	if opts.addr != "" {
		cfg.Server.Addr = opts.addr
	}

	g, err := c.loadMap(opts.mapFile)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIO, err, "loading map")
	}

	st, err := newStore(ctx, cfg)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIO, err, "connecting map store")
	}
	defer st.Close(context.Background())

	routeCache, err := newServerCache(ctx, cfg)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIO, err, "connecting route cache")
	}
	defer routeCache.Close()

	c.Logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"store", cfg.Store.Backend,
		"cache", cfg.Cache.Backend,
		"locations", len(g.Nodes()))

	return server.New(g, cfg, st, routeCache, c.Logger).ListenAndServe(ctx)
}

// newStore builds the configured persistence backend.
func newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "mongo":
		return store.NewMongoStore(ctx, cfg.Store.Mongo.URI, cfg.Store.Mongo.Database, cfg.Store.Mongo.Collection)
	default:
		return store.NewFileStore(cfg.Store.Dir)
	}
}

// newServerCache builds the configured route cache.
func newServerCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "none":
		return cache.NewNullCache(), nil
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return cache.NewInstrumented(rc, "path"), nil
	default:
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			return nil, err
		}
		return cache.NewInstrumented(fc, "path"), nil
	}
}
