package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/api"
	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/store"
)

type serveOpts struct {
	addr   string
	origin string
}

// serveCommand creates the serve command for running the HTTP editor API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP editor API",
		Long: `Run the HTTP editor API on the configured store.

With the redis store backend and cache.redis_prefix set, exports are cached
in Redis on the store's connection; otherwise they are cached on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&opts.origin, "cors-origin", "", "allow browser requests from this origin")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	st, err := c.openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runner, err := c.serverRunner(st)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := api.New(api.Options{
		Store:         st,
		Runner:        runner,
		Logger:        logger,
		Layout:        c.cfg.Layout,
		Session:       c.sessionOptions(),
		AllowedOrigin: opts.origin,
	})
	defer srv.Close()

	serverCfg := c.cfg.Server
	if opts.addr != "" {
		serverCfg.Addr = opts.addr
	}
	logger.Info("serving editor API", "addr", serverCfg.Addr, "store", c.cfg.Store.Backend)
	return srv.Run(ctx, serverCfg)
}

// serverRunner shares the Redis connection with the export cache when the
// store is Redis-backed and a cache prefix is configured.
func (c *CLI) serverRunner(st store.Store) (*pipeline.Runner, error) {
	rs, ok := store.Unwrap(st).(*store.RedisStore)
	if !ok || !c.cfg.Cache.Enabled || c.cfg.Cache.RedisPrefix == "" {
		return c.newRunner(false)
	}
	r := pipeline.NewRunner(cache.Instrument(sharedCache{cache.NewRedisCache(rs.Client(), c.cfg.Cache.RedisPrefix)}), exportKeyer(), c.Logger)
	r.TTL = c.cfg.Cache.TTL.Duration
	return r, nil
}

// sharedCache leaves closing the underlying connection to its owner.
type sharedCache struct {
	cache.Cache
}

func (sharedCache) Close() error { return nil }
