package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mutmap/internal/api"
	"github.com/matzehuels/mutmap/internal/config"
	"github.com/matzehuels/mutmap/pkg/cache"
	"github.com/matzehuels/mutmap/pkg/pipeline"
	"github.com/matzehuels/mutmap/pkg/store"
	"github.com/matzehuels/mutmap/pkg/store/mongo"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		mongoURI string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

POST /v1/graphs builds a graph from a JSON body holding the pedigree, layout
and variants. When a MongoDB URI is configured ([store] mongo_uri or
MUTMAP_MONGO_URI) built graphs are stored and served from GET /v1/graphs/{id}.
Set [cache] backend = "redis" to share rendered artifacts between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, mongoURI, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB URI for the graph store")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, mongoURI string, noCache bool) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if mongoURI == "" {
		mongoURI = cfg.Store.MongoURI
	}

	runner, err := c.newAPIRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var st store.Store
	if mongoURI != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		ms, err := mongo.Connect(connectCtx, mongoURI, cfg.Store.MongoDatabase)
		cancel()
		if err != nil {
			return err
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = ms.Close(closeCtx)
		}()
		st = ms
		logger.Info("graph store connected", "database", cfg.Store.MongoDatabase)
	} else {
		logger.Warn("no graph store configured; GET /v1/graphs/{id} is disabled")
	}

	return api.New(runner, st, logger).ListenAndServe(ctx, addr)
}

// apiKeyPrefix separates API cache entries from CLI builds sharing one
// backend.
const apiKeyPrefix = "api:"

func (c *CLI) newAPIRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner.Keyer = cache.NewScopedKeyer(runner.Keyer, apiKeyPrefix)
	return runner, nil
}
