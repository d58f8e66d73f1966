package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kgview/pkg/buildinfo"
	"github.com/matzehuels/kgview/pkg/cache"
	"github.com/matzehuels/kgview/pkg/config"
	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/observability/prom"
	"github.com/matzehuels/kgview/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "kgview"

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

	// Config is loaded in the root PersistentPreRunE.
	Config *config.Config

	configPath  string
	metricsAddr string
	metrics     *http.Server
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "kgview explores knowledge graphs with a force-directed layout",
		Long: `kgview fetches a knowledge graph from the explorer backend or a local
JSON file and lays it out with a force-directed simulation. Graphs can be
explored interactively in the terminal or exported as SVG, PNG, PDF or JSON.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&c.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. localhost:9090")

	// Register all subcommands
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.imageCommand())
	root.AddCommand(c.loopsCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the config, attaches the logger to the command context and
// starts the metrics endpoint when one is configured.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))

	addr := c.metricsAddr
	if addr == "" {
		addr = cfg.Metrics.Addr
	}
	if addr != "" {
		c.startMetrics(addr)
	}
	return nil
}

func (c *CLI) startMetrics(addr string) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom.New(reg).Install()

	c.metrics = prom.NewServer(addr, reg)
	go func() {
		if err := c.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.Logger.Warn("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	c.Logger.Debug("serving metrics", "addr", addr)
}

func (c *CLI) teardown() error {
	if c.metrics == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := c.metrics.Shutdown(ctx)
	c.metrics = nil
	return err
}

// =============================================================================
// Source Factory
// =============================================================================

// sourceFlags are shared by every command that loads a graph.
type sourceFlags struct {
	url       string
	file      string
	noCache   bool
	center    string
	radius    int
	direction string
	relations []string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.url, "url", "", "backend API root (default from config)")
	fs.StringVarP(&f.file, "file", "f", "", "read the graph from a JSON file instead of the backend")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable the response cache")
	fs.StringVarP(&f.center, "center", "c", "", "show the neighborhood of this node instead of the full graph")
	fs.IntVarP(&f.radius, "radius", "r", 0, "neighborhood radius in hops (default from config)")
	fs.StringVar(&f.direction, "direction", "", "neighborhood direction: in, out, both (default from config)")
	fs.StringSliceVar(&f.relations, "relations", nil, "keep only links with these relations")
}

// query builds the graph query from flags over config defaults.
func (f *sourceFlags) query(cfg *config.Config) (source.Query, error) {
	q := source.Query{
		Center:    f.center,
		Radius:    f.radius,
		Direction: f.direction,
		Relations: f.relations,
	}
	if q.Full() {
		return q, nil
	}
	if q.Radius == 0 {
		q.Radius = cfg.Source.Radius
	}
	if q.Direction == "" {
		q.Direction = cfg.Source.Direction
	}
	q = q.Normalize()
	return q, q.Validate()
}

// newSource returns a file source when --file is set and an HTTP client
// otherwise.
func (c *CLI) newSource(ctx context.Context, f *sourceFlags) (source.Source, error) {
	if f.file != "" {
		return source.NewFileSource(f.file), nil
	}
	cfg := c.Config
	url := f.url
	if url == "" {
		url = cfg.Source.URL
	}
	store, err := c.newCache(ctx, f.noCache)
	if err != nil {
		return nil, err
	}
	return source.NewHTTPClient(url,
		source.WithCache(store, cfg.Cache.TTL.D()),
		source.WithHTTPClient(&http.Client{Timeout: cfg.Source.Timeout.D()}),
		source.WithRetry(cfg.Source.Retries, 500*time.Millisecond),
		source.WithClientLogger(c.Logger),
	)
}

// loopFinder returns src as a LoopFinder, or an error naming the source.
func loopFinder(src source.Source) (source.LoopFinder, error) {
	lf, ok := src.(source.LoopFinder)
	if !ok {
		return nil, kgerrors.New(kgerrors.ErrCodeUnsupported, "%s source cannot search for loops; use --loops-file", src.Name())
	}
	return lf, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the configured cache backend. An unreachable Redis server
// degrades to no cache with a warning.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == "redis" {
		rc, err := cache.NewRedisCache(ctx, c.redisConfig())
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "error", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func (c *CLI) redisConfig() cache.RedisConfig {
	cfg := c.Config.Cache
	return cache.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		Prefix:   cfg.Prefix,
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the file cache directory: the config value when set,
// else the user cache directory (~/.cache/kgview/ on Linux).
func (c *CLI) cacheDir() (string, error) {
	if c.Config == nil {
		return config.Default().CacheDir()
	}
	return c.Config.CacheDir()
}
