package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/selfmap/internal/server"
	"github.com/matzehuels/selfmap/pkg/cache"
	"github.com/matzehuels/selfmap/pkg/observability"
	"github.com/matzehuels/selfmap/pkg/pipeline"
)

// redisKeyPrefix scopes selfmap keys in a shared redis database.
const redisKeyPrefix = "selfmap:"

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	listen   string        // listen address
	redis    string        // redis address for the response cache
	redisDB  int           // redis database number
	allowAll bool          // allow every CORS origin
	delay    time.Duration // drill-down delay of server sessions
}

// serveCommand creates the serve command for the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve interactive charts over HTTP",
		Long: `Serve the primary chart at /, drill-down charts at /drill/{category},
JSON data under /api and prometheus metrics at /metrics.

Rendered charts are cached in redis when --redis (or redis_addr) is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.listen == "" {
				opts.listen = c.Config.Listen
			}
			if opts.redis == "" {
				opts.redis = c.Config.RedisAddr
			}
			return c.runServe(cmd.Context(), fileArg(args, 0), opts)
		},
	}

	cmd.Flags().StringVar(&opts.listen, "listen", "", "listen address (default from config)")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "redis address for the response cache")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "redis database number")
	cmd.Flags().BoolVar(&opts.allowAll, "cors-allow-all", false, "allow requests from any origin")
	cmd.Flags().DurationVar(&opts.delay, "delay", 0, "drill-down delay of interactive sessions")

	return cmd
}

// runServe serves until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, input string, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	m, err := loadData(input)
	if err != nil {
		return err
	}

	metrics := server.NewMetrics(appName)
	metrics.Install()
	defer observability.Reset()

	runner, err := c.newServeRunner(ctx, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	primaryMode, secondaryMode := c.Config.Modes()
	srv := server.New(server.Config{
		Addr:          opts.listen,
		AllowAll:      opts.allowAll,
		Seed:          c.Config.Seed,
		Primary:       c.Config.PrimaryDimensions(),
		Secondary:     c.Config.SecondaryDimensions(),
		PrimaryMode:   primaryMode,
		SecondaryMode: secondaryMode,
		DrillDelay:    opts.delay,
	}, runner, m, logger, metrics)

	printSuccess("Serving %s", StyleHighlight.Render(displayName(input)))
	printKeyValue("Chart", StyleLink.Render(baseURL(opts.listen)+"/"))
	printKeyValue("Metrics", StyleLink.Render(baseURL(opts.listen)+"/metrics"))
	return srv.ListenAndServe(ctx)
}

// newServeRunner caches in redis when an address is set. A server without
// redis keeps nothing between requests.
func (c *CLI) newServeRunner(ctx context.Context, opts serveOpts) (*pipeline.Runner, error) {
	if opts.redis == "" {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	spin := newSpinnerWithContext(ctx, "Connecting to redis at "+opts.redis+"...")
	spin.Start()
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: opts.redis, DB: opts.redisDB})
	spin.Stop()
	if err != nil {
		return nil, err
	}
	printDetail("Caching in redis at %s", opts.redis)
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisKeyPrefix)
	return pipeline.NewRunner(cache.Observed(rc), keyer, c.Logger), nil
}

// baseURL turns a listen address into a browsable URL.
func baseURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
